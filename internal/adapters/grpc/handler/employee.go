package handler

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/adapters/wire"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/account"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/audit"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/authz"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/employee"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Authorizer は操作の実行可否を判定します。
type Authorizer interface {
	Authorize(ctx context.Context, principal *account.Principal, op authz.Operation, targetID int64) error
}

// EmployeeGrpcHandler は EmployeeService の gRPC 実装です。
type EmployeeGrpcHandler struct {
	employees employee.UseCase
	history   audit.UseCase
	gate      Authorizer
	errorReporter
}

// NewEmployeeGrpcHandler は EmployeeGrpcHandler を生成します。
func NewEmployeeGrpcHandler(employees employee.UseCase, history audit.UseCase, gate Authorizer, logger *slog.Logger) *EmployeeGrpcHandler {
	return &EmployeeGrpcHandler{
		employees:     employees,
		history:       history,
		gate:          gate,
		errorReporter: newErrorReporter(logger),
	}
}

var _ EmployeeServiceServer = (*EmployeeGrpcHandler)(nil)

// CreateEmployee は社員を作成します。
func (h *EmployeeGrpcHandler) CreateEmployee(ctx context.Context, req *CreateEmployeeRequest) (*wire.Employee, error) {
	principal := PrincipalFromContext(ctx)
	if err := h.gate.Authorize(ctx, principal, authz.OpCreateEmployee, 0); err != nil {
		return nil, h.fail(ctx, err)
	}

	fields, err := req.ToDomain()
	if err != nil {
		return nil, h.fail(ctx, err)
	}

	created, err := h.employees.CreateEmployee(ctx, employee.CreateEmployeeInput{Actor: *principal, Fields: fields})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return wire.FromEmployee(created), nil
}

// GetEmployee は社員を取得します。
func (h *EmployeeGrpcHandler) GetEmployee(ctx context.Context, req *GetEmployeeRequest) (*wire.Employee, error) {
	if err := h.gate.Authorize(ctx, PrincipalFromContext(ctx), authz.OpGetEmployee, req.ID); err != nil {
		return nil, h.fail(ctx, err)
	}

	found, err := h.employees.GetEmployee(ctx, employee.GetEmployeeInput{ID: req.ID})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return wire.FromEmployee(found), nil
}

// ListEmployees は社員一覧を取得します。
func (h *EmployeeGrpcHandler) ListEmployees(ctx context.Context, req *ListEmployeesRequest) (*wire.EmployeePage, error) {
	if err := h.gate.Authorize(ctx, PrincipalFromContext(ctx), authz.OpListEmployees, 0); err != nil {
		return nil, h.fail(ctx, err)
	}

	page, err := h.employees.ListEmployees(ctx, employee.ListEmployeesInput{Page: req.Page, Size: req.Size})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return wire.FromPage(page), nil
}

// SearchEmployees は条件に一致する社員を検索します。
func (h *EmployeeGrpcHandler) SearchEmployees(ctx context.Context, req *SearchEmployeesRequest) (*wire.EmployeePage, error) {
	if err := h.gate.Authorize(ctx, PrincipalFromContext(ctx), authz.OpSearchEmployees, 0); err != nil {
		return nil, h.fail(ctx, err)
	}

	page, err := h.employees.SearchEmployees(ctx, employee.SearchEmployeesInput{
		FullName:   req.FullName,
		Department: req.Department,
		JobTitle:   req.JobTitle,
		Page:       req.Page,
		Size:       req.Size,
	})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return wire.FromPage(page), nil
}

// UpdateEmployee は社員の全項目を更新します。
func (h *EmployeeGrpcHandler) UpdateEmployee(ctx context.Context, req *UpdateEmployeeRequest) (*wire.Employee, error) {
	principal := PrincipalFromContext(ctx)
	if err := h.gate.Authorize(ctx, principal, authz.OpUpdateEmployee, req.ID); err != nil {
		return nil, h.fail(ctx, err)
	}

	fields, err := req.ToDomain()
	if err != nil {
		return nil, h.fail(ctx, err)
	}

	updated, err := h.employees.UpdateEmployee(ctx, employee.UpdateEmployeeInput{
		Actor:           *principal,
		ID:              req.ID,
		ExpectedVersion: req.Version,
		Fields:          fields,
	})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return wire.FromEmployee(updated), nil
}

// DeleteEmployee は社員を削除します。
func (h *EmployeeGrpcHandler) DeleteEmployee(ctx context.Context, req *DeleteEmployeeRequest) (*emptypb.Empty, error) {
	principal := PrincipalFromContext(ctx)
	if err := h.gate.Authorize(ctx, principal, authz.OpDeleteEmployee, req.ID); err != nil {
		return nil, h.fail(ctx, err)
	}

	if err := h.employees.DeleteEmployee(ctx, employee.DeleteEmployeeInput{Actor: *principal, ID: req.ID}); err != nil {
		return nil, h.fail(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

// EmployeeHistory は社員の変更履歴を新しい順に取得します。
func (h *EmployeeGrpcHandler) EmployeeHistory(ctx context.Context, req *EmployeeHistoryRequest) (*wire.AuditPage, error) {
	if err := h.gate.Authorize(ctx, PrincipalFromContext(ctx), authz.OpEmployeeHistory, req.EmployeeID); err != nil {
		return nil, h.fail(ctx, err)
	}
	if req.EmployeeID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "employee id must be positive")
	}

	result, err := h.history.ListByEmployee(ctx, audit.ListByEmployeeInput{
		EmployeeID: strconv.FormatInt(req.EmployeeID, 10),
		Page:       req.Page,
		Size:       req.Size,
	})
	if err != nil {
		return nil, h.fail(ctx, err)
	}
	return wire.FromAuditResult(result), nil
}

// errorReporter はドメインエラーをステータスに変換し、内部エラーのみログに残します。
type errorReporter struct {
	logger *slog.Logger
}

func newErrorReporter(logger *slog.Logger) errorReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return errorReporter{logger: logger}
}

func (r errorReporter) fail(ctx context.Context, err error) error {
	st := toStatusError(err)
	if status.Code(st) == codes.Internal {
		r.logger.ErrorContext(ctx, "request failed",
			slog.String("request_id", RequestIDFromContext(ctx)),
			slog.Any("error", err),
		)
	}
	return st
}
