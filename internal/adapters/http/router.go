// Package httptransport は社員レコード管理の REST API を提供します。
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/account"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/audit"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/authz"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/employee"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Authorizer は操作の実行可否を判定します。
type Authorizer interface {
	Authorize(ctx context.Context, principal *account.Principal, op authz.Operation, targetID int64) error
}

// Dependencies はルーター構築に必要な依存をまとめます。
type Dependencies struct {
	Accounts  account.UseCase
	Employees employee.UseCase
	History   audit.UseCase
	Gate      Authorizer
	Verifier  TokenVerifier
	Observer  RequestObserver
	Metrics   http.Handler
	Logger    *slog.Logger

	// AllowedOrigins が空の場合 CORS ヘッダーは付与しません。
	AllowedOrigins []string
}

// NewRouter は REST API のルーターを構築します。
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestID)
	r.Use(Observe(deps.Observer, logger))
	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   deps.AllowedOrigins,
			AllowCredentials: true,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", requestIDHeader},
			ExposedHeaders:   []string{requestIDHeader},
		}).Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	auth := &authHandler{accounts: deps.Accounts, gate: deps.Gate, logger: logger}
	employees := &employeeHandler{employees: deps.Employees, history: deps.History, gate: deps.Gate, logger: logger}

	r.Route("/api", func(api chi.Router) {
		api.Use(Authenticate(deps.Verifier, logger))
		auth.Register(api)
		employees.Register(api)
	})

	return r
}
