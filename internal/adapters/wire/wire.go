// Package wire は gRPC と REST の両トランスポートで共有する JSON 表現を定義します。
package wire

import (
	"fmt"
	"strings"
	"time"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/account"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/audit"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/employee"
)

// DateLayout は入社日の表現形式です。
const DateLayout = "2006-01-02"

// EmployeeFields は社員作成・更新リクエストの本文です。
type EmployeeFields struct {
	FullName         string  `json:"fullName"`
	JobTitle         string  `json:"jobTitle"`
	Department       string  `json:"department"`
	HireDate         string  `json:"hireDate"`
	EmploymentStatus string  `json:"employmentStatus"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Address          *string `json:"address,omitempty"`
}

// ToDomain はリクエスト本文をドメインの入力に変換します。
func (f EmployeeFields) ToDomain() (employee.Fields, error) {
	var hireDate time.Time
	if raw := strings.TrimSpace(f.HireDate); raw != "" {
		parsed, err := time.Parse(DateLayout, raw)
		if err != nil {
			return employee.Fields{}, fmt.Errorf("hire date %q: %w", raw, employee.ErrInvalidHireDate)
		}
		hireDate = parsed
	}

	return employee.Fields{
		FullName:         f.FullName,
		JobTitle:         f.JobTitle,
		Department:       f.Department,
		HireDate:         hireDate,
		EmploymentStatus: f.EmploymentStatus,
		Email:            f.Email,
		Phone:            f.Phone,
		Address:          f.Address,
	}, nil
}

// Employee は社員レコードのレスポンス表現です。
type Employee struct {
	ID               int64     `json:"id"`
	FullName         string    `json:"fullName"`
	JobTitle         string    `json:"jobTitle"`
	Department       string    `json:"department"`
	HireDate         string    `json:"hireDate"`
	EmploymentStatus string    `json:"employmentStatus"`
	Email            *string   `json:"email,omitempty"`
	Phone            *string   `json:"phone,omitempty"`
	Address          *string   `json:"address,omitempty"`
	Version          int64     `json:"version"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// FromEmployee はドメインの社員をレスポンス表現に変換します。
func FromEmployee(e *employee.Employee) *Employee {
	if e == nil {
		return nil
	}
	return &Employee{
		ID:               e.ID,
		FullName:         e.FullName,
		JobTitle:         e.JobTitle,
		Department:       e.Department,
		HireDate:         e.HireDate.Format(DateLayout),
		EmploymentStatus: string(e.EmploymentStatus),
		Email:            e.Email,
		Phone:            e.Phone,
		Address:          e.Address,
		Version:          e.Version,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// EmployeePage は社員一覧・検索のレスポンス表現です。
type EmployeePage struct {
	Content       []*Employee `json:"content"`
	Page          int         `json:"page"`
	Size          int         `json:"size"`
	TotalElements int64       `json:"totalElements"`
	TotalPages    int         `json:"totalPages"`
}

// FromPage はドメインのページをレスポンス表現に変換します。
func FromPage(p *employee.Page) *EmployeePage {
	content := make([]*Employee, 0, len(p.Employees))
	for _, e := range p.Employees {
		content = append(content, FromEmployee(e))
	}
	return &EmployeePage{
		Content:       content,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}

// AuditEntry は監査ログのレスポンス表現です。
type AuditEntry struct {
	ID          int64     `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	UserID      int64     `json:"userId"`
	ChangeTime  time.Time `json:"changeTime"`
	Description string    `json:"description"`
}

// AuditPage は変更履歴のレスポンス表現です。
type AuditPage struct {
	Content       []*AuditEntry `json:"content"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	TotalElements int64         `json:"totalElements"`
}

// FromAuditResult は監査ログの取得結果をレスポンス表現に変換します。
func FromAuditResult(r *audit.ListResult) *AuditPage {
	content := make([]*AuditEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		content = append(content, &AuditEntry{
			ID:          e.ID,
			EmployeeID:  e.EmployeeID,
			UserID:      e.ActorID,
			ChangeTime:  e.ChangedAt,
			Description: e.Description,
		})
	}
	return &AuditPage{
		Content:       content,
		Page:          r.Page,
		Size:          r.Size,
		TotalElements: r.TotalElements,
	}
}

// SignupRequest はアカウント登録リクエストです。
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SignInRequest はサインインリクエストです。
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse はサインイン結果です。
type SignInResponse struct {
	Token string   `json:"token"`
	Type  string   `json:"type"`
	ID    int64    `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// FromSignIn はサインイン結果をレスポンス表現に変換します。
func FromSignIn(r *account.SignInResult) *SignInResponse {
	return &SignInResponse{
		Token: r.Token,
		Type:  "Bearer",
		ID:    r.AccountID,
		Email: r.Email,
		Roles: r.Roles,
	}
}

// Account はアカウントのレスポンス表現です。パスワードハッシュは含みません。
type Account struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

// FromAccount はドメインのアカウントをレスポンス表現に変換します。
func FromAccount(a *account.Account) *Account {
	return &Account{
		ID:     a.ID,
		Email:  a.Email,
		Role:   string(a.Role),
		Active: a.Active,
	}
}

// Message は本文を持たない成功応答やエラー応答に用いる表現です。
type Message struct {
	Message string `json:"message"`
}
