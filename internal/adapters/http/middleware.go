package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/adapters/wire"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/account"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type principalContextKey struct{}

type requestIDContextKey struct{}

// TokenVerifier はベアラートークンを検証して主体を返します。
type TokenVerifier interface {
	Verify(token string) (*account.Principal, error)
}

// RequestObserver は HTTP リクエストの結果を記録します。
type RequestObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// RequestID はリクエスト ID を払い出し、コンテキストとレスポンスヘッダーに設定します。
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDContextKey{}, id)))
	})
}

// Authenticate は Authorization ヘッダーのベアラートークンを検証します。
// ヘッダーが無いリクエストは未認証のまま通し、操作ごとの可否はハンドラー側で判定します。
func Authenticate(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := cutBearer(header)
			if !ok {
				writeJSON(w, http.StatusUnauthorized, wire.Message{Message: "authorization header must use the Bearer scheme"})
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"request_id", RequestIDFromContext(r.Context()),
					"error", err,
				)
				writeJSON(w, http.StatusUnauthorized, wire.Message{Message: "invalid or expired token"})
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalContextKey{}, principal)))
		})
	}
}

// Observe はアクセスログを出力し、ルート単位でリクエスト数とレイテンシを記録します。
func Observe(observer RequestObserver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			elapsed := time.Since(start)

			if observer != nil {
				observer.ObserveHTTP(r.Method, route, status, elapsed)
			}
			logger.InfoContext(r.Context(), "http request",
				"request_id", RequestIDFromContext(r.Context()),
				"method", r.Method,
				"route", route,
				"status", status,
				"elapsed", elapsed,
			)
		})
	}
}

func cutBearer(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// PrincipalFromContext は検証済みの主体を返します。未認証の場合は nil です。
func PrincipalFromContext(ctx context.Context) *account.Principal {
	p, _ := ctx.Value(principalContextKey{}).(*account.Principal)
	return p
}

// RequestIDFromContext はリクエスト ID を返します。
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
