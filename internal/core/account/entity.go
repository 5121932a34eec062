package account

import (
	"strings"
	"time"
)

// Role はアカウントの権限ロールです。
type Role string

const (
	RoleHR       Role = "HR"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// Valid はロールが定義済みかを返します。
func (r Role) Valid() bool {
	switch r {
	case RoleHR, RoleManager, RoleEmployee:
		return true
	default:
		return false
	}
}

// ParseRole は文字列からロールを解釈します。大文字小文字と ROLE_ 接頭辞は無視されます。
func ParseRole(raw string) (Role, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.TrimPrefix(normalized, "ROLE_")
	role := Role(normalized)
	if !role.Valid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Account は認証可能なユーザーアカウントです。
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal はリクエストを実行する認証済み主体です。
type Principal struct {
	AccountID int64
	Email     string
	Role      Role
}

// HasRole は主体が指定ロールのいずれかを持つかを返します。
func (p Principal) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
