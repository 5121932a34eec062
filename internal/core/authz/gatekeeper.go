package authz

import (
	"context"
	"log/slog"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/account"
)

// Operation はトランスポートから呼び出されるユースケース操作です。
type Operation string

const (
	OpSignup          Operation = "Signup"
	OpSignIn          Operation = "SignIn"
	OpActivateAccount Operation = "ActivateAccount"
	OpCreateEmployee  Operation = "CreateEmployee"
	OpGetEmployee     Operation = "GetEmployee"
	OpListEmployees   Operation = "ListEmployees"
	OpSearchEmployees Operation = "SearchEmployees"
	OpUpdateEmployee  Operation = "UpdateEmployee"
	OpDeleteEmployee  Operation = "DeleteEmployee"
	OpEmployeeHistory Operation = "EmployeeHistory"
)

// rule は操作ごとの静的なアクセス規則です。roles が空の場合は認証済みの全ロールを許可します。
type rule struct {
	public bool
	roles  []account.Role
	action Action
}

var rules = map[Operation]rule{
	OpSignup:          {public: true},
	OpSignIn:          {public: true},
	OpActivateAccount: {roles: []account.Role{account.RoleManager}},
	OpCreateEmployee:  {roles: []account.Role{account.RoleHR}},
	OpGetEmployee:     {},
	OpListEmployees:   {},
	OpSearchEmployees: {},
	OpUpdateEmployee:  {roles: []account.Role{account.RoleHR, account.RoleManager}, action: ActionUpdateEmployee},
	OpDeleteEmployee:  {roles: []account.Role{account.RoleHR}},
	OpEmployeeHistory: {roles: []account.Role{account.RoleHR}},
}

// Evaluator は細粒度の許可判定を行います。
type Evaluator interface {
	Evaluate(ctx context.Context, actorEmail string, targetID int64, action Action) (bool, error)
}

// DecisionRecorder は認可判定の結果を記録します。
type DecisionRecorder interface {
	RecordDecision(operation string, allowed bool)
}

// Gatekeeper は操作ごとのロール判定と、必要な操作に対する Evaluator の呼び出しを行います。
type Gatekeeper struct {
	engine   Evaluator
	recorder DecisionRecorder
	logger   *slog.Logger
}

// NewGatekeeper は Gatekeeper を生成します。
func NewGatekeeper(engine Evaluator, recorder DecisionRecorder, logger *slog.Logger) *Gatekeeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gatekeeper{engine: engine, recorder: recorder, logger: logger}
}

// Authorize は principal が op を targetID に対して実行できるかを判定します。
// principal が nil の場合は未認証として扱います。
func (g *Gatekeeper) Authorize(ctx context.Context, principal *account.Principal, op Operation, targetID int64) error {
	r, ok := rules[op]
	if !ok {
		g.deny(ctx, principal, op, "unknown operation")
		return ErrUnauthorizedAccess
	}
	if r.public {
		return nil
	}
	if principal == nil {
		g.deny(ctx, principal, op, "unauthenticated")
		return ErrUnauthenticated
	}
	if len(r.roles) > 0 && !principal.HasRole(r.roles...) {
		g.deny(ctx, principal, op, "role not permitted")
		return ErrUnauthorizedAccess
	}

	if r.action != "" {
		allowed, err := g.engine.Evaluate(ctx, principal.Email, targetID, r.action)
		if err != nil {
			g.deny(ctx, principal, op, "evaluation error", "error", err)
			return err
		}
		if !allowed {
			g.deny(ctx, principal, op, "permission evaluation denied")
			return ErrUnauthorizedAccess
		}
	}

	g.record(op, true)
	g.logger.DebugContext(ctx, "access granted", "operation", op, "account_id", principal.AccountID, "target_id", targetID)
	return nil
}

func (g *Gatekeeper) deny(ctx context.Context, principal *account.Principal, op Operation, reason string, extra ...any) {
	g.record(op, false)
	attrs := []any{"operation", op, "reason", reason}
	if principal != nil {
		attrs = append(attrs, "account_id", principal.AccountID, "role", principal.Role)
	}
	attrs = append(attrs, extra...)
	g.logger.WarnContext(ctx, "access denied", attrs...)
}

func (g *Gatekeeper) record(op Operation, allowed bool) {
	if g.recorder != nil {
		g.recorder.RecordDecision(string(op), allowed)
	}
}
