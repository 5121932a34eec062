package handler

import (
	"context"
	"log/slog"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/adapters/wire"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/account"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/authz"
)

// AuthGrpcHandler は AuthService の gRPC 実装です。
type AuthGrpcHandler struct {
	accounts account.UseCase
	gate     Authorizer
	errorReporter
}

// NewAuthGrpcHandler は AuthGrpcHandler を生成します。
func NewAuthGrpcHandler(accounts account.UseCase, gate Authorizer, logger *slog.Logger) *AuthGrpcHandler {
	return &AuthGrpcHandler{accounts: accounts, gate: gate, errorReporter: newErrorReporter(logger)}
}

var _ AuthServiceServer = (*AuthGrpcHandler)(nil)

// Signup は無効状態のアカウントを登録します。
func (h *AuthGrpcHandler) Signup(ctx context.Context, req *wire.SignupRequest) (*wire.Account, error) {
	if err := h.gate.Authorize(ctx, PrincipalFromContext(ctx), authz.OpSignup, 0); err != nil {
		return nil, h.fail(ctx, err)
	}

	created, err := h.accounts.Signup(ctx, account.SignupInput{Email: req.Email, Password: req.Password, Role: req.Role})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return wire.FromAccount(created), nil
}

// SignIn は資格情報を検証してトークンを発行します。
func (h *AuthGrpcHandler) SignIn(ctx context.Context, req *wire.SignInRequest) (*wire.SignInResponse, error) {
	if err := h.gate.Authorize(ctx, PrincipalFromContext(ctx), authz.OpSignIn, 0); err != nil {
		return nil, h.fail(ctx, err)
	}

	result, err := h.accounts.SignIn(ctx, account.SignInInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return wire.FromSignIn(result), nil
}

// Activate はアカウントを有効化します。
func (h *AuthGrpcHandler) Activate(ctx context.Context, req *ActivateAccountRequest) (*wire.Account, error) {
	principal := PrincipalFromContext(ctx)
	if err := h.gate.Authorize(ctx, principal, authz.OpActivateAccount, req.UserID); err != nil {
		return nil, h.fail(ctx, err)
	}

	activated, err := h.accounts.Activate(ctx, account.ActivateInput{Actor: *principal, AccountID: req.UserID})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return wire.FromAccount(activated), nil
}
