package handler

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/account"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	authorizationMetadataKey = "authorization"
	requestIDMetadataKey     = "x-request-id"
	bearerPrefix             = "bearer "
)

type principalContextKey struct{}

type requestIDContextKey struct{}

// TokenVerifier はベアラートークンを検証して主体を返します。
type TokenVerifier interface {
	Verify(token string) (*account.Principal, error)
}

// RequestObserver は gRPC 呼び出しの結果を記録します。
type RequestObserver interface {
	ObserveGRPC(method, code string)
}

// UnaryServerInterceptor はリクエスト ID の付与、ベアラートークンの検証、アクセスログと計測を行います。
// トークンが無い呼び出しは未認証のまま通し、操作ごとの可否はハンドラー側で判定します。
func UnaryServerInterceptor(verifier TokenVerifier, observer RequestObserver, logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		md, _ := metadata.FromIncomingContext(ctx)

		requestID := firstValue(md, requestIDMetadataKey)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = context.WithValue(ctx, requestIDContextKey{}, requestID)
		if err := grpc.SetHeader(ctx, metadata.Pairs(requestIDMetadataKey, requestID)); err != nil {
			logger.WarnContext(ctx, "failed to set request id header", "request_id", requestID, "error", err)
		}

		var resp any
		authCtx, err := authenticate(ctx, md, verifier)
		if err == nil {
			resp, err = handler(authCtx, req)
		}

		code := status.Code(err)
		if observer != nil {
			observer.ObserveGRPC(info.FullMethod, code.String())
		}

		level := slog.LevelInfo
		if code == codes.Internal {
			level = slog.LevelError
		}
		logger.LogAttrs(ctx, level, "grpc request",
			slog.String("request_id", requestID),
			slog.String("method", info.FullMethod),
			slog.String("code", code.String()),
			slog.Duration("elapsed", time.Since(start)),
		)

		return resp, err
	}
}

func authenticate(ctx context.Context, md metadata.MD, verifier TokenVerifier) (context.Context, error) {
	raw := firstValue(md, authorizationMetadataKey)
	if raw == "" {
		return ctx, nil
	}
	if len(raw) <= len(bearerPrefix) || !strings.EqualFold(raw[:len(bearerPrefix)], bearerPrefix) {
		return nil, status.Error(codes.Unauthenticated, "authorization metadata must use the Bearer scheme")
	}

	principal, err := verifier.Verify(strings.TrimSpace(raw[len(bearerPrefix):]))
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
	}
	return context.WithValue(ctx, principalContextKey{}, principal), nil
}

func firstValue(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

// PrincipalFromContext はインターセプターが検証した主体を返します。未認証の場合は nil です。
func PrincipalFromContext(ctx context.Context) *account.Principal {
	p, _ := ctx.Value(principalContextKey{}).(*account.Principal)
	return p
}

// RequestIDFromContext はリクエスト ID を返します。
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
