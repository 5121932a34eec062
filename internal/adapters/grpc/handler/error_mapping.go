package handler

import (
	"errors"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/account"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/audit"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/authz"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/employee"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const internalErrorMessage = "internal error"

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, authz.ErrUnauthenticated),
		errors.Is(err, account.ErrInvalidCredentials),
		errors.Is(err, account.ErrActorRequired):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, authz.ErrUnauthorizedAccess),
		errors.Is(err, account.ErrAccountInactive):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidFullName),
		errors.Is(err, employee.ErrInvalidJobTitle),
		errors.Is(err, employee.ErrInvalidDepartment),
		errors.Is(err, employee.ErrInvalidHireDate),
		errors.Is(err, employee.ErrInvalidStatus),
		errors.Is(err, employee.ErrInvalidEmail),
		errors.Is(err, employee.ErrInvalidPhone),
		errors.Is(err, employee.ErrInvalidAddress),
		errors.Is(err, employee.ErrInvalidPage),
		errors.Is(err, employee.ErrInvalidPageSize),
		errors.Is(err, account.ErrInvalidID),
		errors.Is(err, account.ErrInvalidEmail),
		errors.Is(err, account.ErrInvalidPassword),
		errors.Is(err, account.ErrInvalidRole),
		errors.Is(err, audit.ErrInvalidEmployeeID),
		errors.Is(err, audit.ErrInvalidPage),
		errors.Is(err, audit.ErrInvalidPageSize):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, employee.ErrDuplicateEmployee),
		errors.Is(err, account.ErrEmailAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, employee.ErrConcurrentModification):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, employee.ErrActorNotFound),
		errors.Is(err, employee.ErrLinkedAccountNotFound),
		errors.Is(err, account.ErrAccountNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, internalErrorMessage)
	}
}
