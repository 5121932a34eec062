package handler

import "github.com/AitaayiM/Employee-Records-Management-System/internal/adapters/wire"

// CreateEmployeeRequest は CreateEmployee のリクエストです。
type CreateEmployeeRequest struct {
	wire.EmployeeFields
}

// GetEmployeeRequest は GetEmployee のリクエストです。
type GetEmployeeRequest struct {
	ID int64 `json:"id"`
}

// ListEmployeesRequest は ListEmployees のリクエストです。Page は 0 始まりです。
type ListEmployeesRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// SearchEmployeesRequest は SearchEmployees のリクエストです。
type SearchEmployeesRequest struct {
	FullName   string `json:"fullName"`
	Department string `json:"department"`
	JobTitle   string `json:"jobTitle"`
	Page       int    `json:"page"`
	Size       int    `json:"size"`
}

// UpdateEmployeeRequest は UpdateEmployee のリクエストです。Version を指定すると楽観ロックが有効になります。
type UpdateEmployeeRequest struct {
	ID      int64 `json:"id"`
	Version int64 `json:"version,omitempty"`
	wire.EmployeeFields
}

// DeleteEmployeeRequest は DeleteEmployee のリクエストです。
type DeleteEmployeeRequest struct {
	ID int64 `json:"id"`
}

// EmployeeHistoryRequest は EmployeeHistory のリクエストです。
type EmployeeHistoryRequest struct {
	EmployeeID int64 `json:"employeeId"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
}

// ActivateAccountRequest は Activate のリクエストです。
type ActivateAccountRequest struct {
	UserID int64 `json:"userId"`
}
