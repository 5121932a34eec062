package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	grpchandler "github.com/AitaayiM/Employee-Records-Management-System/internal/adapters/grpc/handler"
	httptransport "github.com/AitaayiM/Employee-Records-Management-System/internal/adapters/http"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/adapters/repository/postgres"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/account"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/audit"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/authz"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/employee"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/platform/config"
	pg "github.com/AitaayiM/Employee-Records-Management-System/internal/platform/db/postgres"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/platform/logging"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/platform/metrics"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/platform/security"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/platform/server"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging, os.Stdout)
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)
	accountRepo := postgres.NewAccountRepository(dbPool)
	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	auditRepo := postgres.NewAuditRepository(dbPool)

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := security.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	appMetrics := metrics.New()

	deletePolicy := employee.DeleteMissingFails
	if cfg.Employee.DeleteMissing == config.DeleteMissingAudit {
		deletePolicy = employee.DeleteMissingAudited
	}

	accountSvc := account.NewService(accountRepo, hasher, tokens, nil, txManager)
	employeeSvc := employee.NewService(employeeRepo, accountRepo, auditRepo, hasher, nil, txManager, employee.WithDeletePolicy(deletePolicy))
	auditSvc := audit.NewService(auditRepo, txManager)
	gate := authz.NewGatekeeper(authz.NewEngine(accountRepo, employeeRepo), appMetrics, logger)

	grpcServer := server.New(cfg.Server.ListenAddr, []server.Registrar{
		func(s grpc.ServiceRegistrar) {
			grpchandler.RegisterEmployeeServiceServer(s, grpchandler.NewEmployeeGrpcHandler(employeeSvc, auditSvc, gate, logger))
		},
		func(s grpc.ServiceRegistrar) {
			grpchandler.RegisterAuthServiceServer(s, grpchandler.NewAuthGrpcHandler(accountSvc, gate, logger))
		},
	}, grpc.UnaryInterceptor(grpchandler.UnaryServerInterceptor(tokens, appMetrics, logger)))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("gRPC server listening", "addr", cfg.Server.ListenAddr)
		return grpcServer.Run(gctx)
	})

	if cfg.HTTP.ListenAddr != "" {
		router := httptransport.NewRouter(httptransport.Dependencies{
			Accounts:  accountSvc,
			Employees: employeeSvc,
			History:   auditSvc,
			Gate:      gate,
			Verifier:  tokens,
			Observer:  appMetrics,
			Metrics:   appMetrics.Handler(),
			Logger:    logger,

			AllowedOrigins: cfg.HTTP.AllowedOrigins,
		})
		httpServer := server.NewHTTP(cfg.HTTP.ListenAddr, router)

		g.Go(func() error {
			logger.Info("HTTP server listening", "addr", cfg.HTTP.ListenAddr)
			return server.RunHTTP(gctx, httpServer)
		})
	}

	return g.Wait()
}
