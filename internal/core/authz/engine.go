package authz

import (
	"context"
	"errors"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/account"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/employee"
)

// Action は細粒度認可の対象となる操作です。
type Action string

const (
	ActionUpdateEmployee Action = "UPDATE_EMPLOYEE"
)

// AccountFinder はアカウントをメールアドレスで解決します。
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (*account.Account, error)
}

// EmployeeFinder は評価対象の社員とその部署の社員を解決します。
type EmployeeFinder interface {
	FindByID(ctx context.Context, id int64) (*employee.Employee, error)
	FindByDepartment(ctx context.Context, department string) ([]*employee.Employee, error)
}

// Engine は (主体, 対象社員, 操作) の組に対する許可判定を行います。副作用はありません。
type Engine struct {
	accounts  AccountFinder
	employees EmployeeFinder
}

// NewEngine は Engine を生成します。
func NewEngine(accounts AccountFinder, employees EmployeeFinder) *Engine {
	return &Engine{accounts: accounts, employees: employees}
}

// Evaluate は actorEmail のアカウントが targetID の社員に action を実行できるかを返します。
// アカウントが存在しない場合は拒否として false を返し、対象社員が存在しない場合は
// employee.ErrEmployeeNotFound を返します。未知の操作は常に拒否されます。
func (e *Engine) Evaluate(ctx context.Context, actorEmail string, targetID int64, action Action) (bool, error) {
	switch action {
	case ActionUpdateEmployee:
		return e.canUpdateEmployee(ctx, actorEmail, targetID)
	default:
		return false, nil
	}
}

func (e *Engine) canUpdateEmployee(ctx context.Context, actorEmail string, targetID int64) (bool, error) {
	actor, err := e.accounts.FindByEmail(ctx, actorEmail)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return false, nil
		}
		return false, err
	}

	target, err := e.employees.FindByID(ctx, targetID)
	if err != nil {
		return false, err
	}

	switch actor.Role {
	case account.RoleHR:
		return true, nil
	case account.RoleManager:
		return e.inDepartmentScope(ctx, target)
	default:
		return false, nil
	}
}

// inDepartmentScope は対象社員が自身の部署の社員一覧に含まれるかを判定します。
// 部署とマネージャーの対応は保持していないため、存在する社員に対しては常に真になります。
// マネージャーを担当部署に絞り込むには部署の割り当てデータが必要です。
func (e *Engine) inDepartmentScope(ctx context.Context, target *employee.Employee) (bool, error) {
	members, err := e.employees.FindByDepartment(ctx, target.Department)
	if err != nil {
		return false, err
	}
	for _, m := range members {
		if m.ID == target.ID {
			return true, nil
		}
	}
	return false, nil
}
