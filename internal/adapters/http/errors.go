package httptransport

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/adapters/wire"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/account"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/audit"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/authz"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/employee"
)

const maxBodyBytes = 1 << 20

var (
	errBadRequest      = errors.New("invalid request")
	errPayloadTooLarge = errors.New("request body too large")
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, authz.ErrUnauthenticated),
		errors.Is(err, account.ErrInvalidCredentials),
		errors.Is(err, account.ErrActorRequired):
		return http.StatusUnauthorized
	case errors.Is(err, authz.ErrUnauthorizedAccess),
		errors.Is(err, account.ErrAccountInactive):
		return http.StatusForbidden
	case errors.Is(err, errPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, employee.ErrInvalidID),
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
		return http.StatusBadRequest
	case errors.Is(err, employee.ErrDuplicateEmployee),
		errors.Is(err, account.ErrEmailAlreadyExists),
		errors.Is(err, employee.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, employee.ErrActorNotFound),
		errors.Is(err, employee.ErrLinkedAccountNotFound),
		errors.Is(err, account.ErrAccountNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError はエラーを JSON で返します。内部エラーは原因をログに残し、本文には含めません。
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		message = http.StatusText(code)
	}
	writeJSON(w, code, wire.Message{Message: message})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeJSON は本文を maxBodyBytes までに制限し、未知のフィールドを拒否して読み込みます。
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errPayloadTooLarge
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
