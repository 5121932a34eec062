package employee

import (
	"strings"
	"time"
)

// Status は社員の雇用状態を表します。
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusInactive   Status = "INACTIVE"
	StatusOnLeave    Status = "ON_LEAVE"
	StatusTerminated Status = "TERMINATED"
)

// ParseStatus は文字列から雇用状態を解釈します。
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(raw)))
	switch status {
	case StatusActive, StatusInactive, StatusOnLeave, StatusTerminated:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Employee は社員レコードです。Email を持つ場合、同じメールアドレスのアカウントが紐づきます。
type Employee struct {
	ID               int64
	FullName         string
	JobTitle         string
	Department       string
	HireDate         time.Time
	EmploymentStatus Status
	Email            *string
	Phone            *string
	Address          *string
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Fields は作成・更新時に受け付ける変更可能な項目です。
type Fields struct {
	FullName         string
	JobTitle         string
	Department       string
	HireDate         time.Time
	EmploymentStatus string
	Email            *string
	Phone            *string
	Address          *string
}

// Page は検索結果の 1 ページ分です。Page は 0 始まりです。
type Page struct {
	Employees     []*Employee
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}
