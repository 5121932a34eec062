package httptransport

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/adapters/wire"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/audit"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/authz"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/employee"
	"github.com/go-chi/chi/v5"
)

type employeeHandler struct {
	employees employee.UseCase
	history   audit.UseCase
	gate      Authorizer
	logger    *slog.Logger
}

// updateEmployeeRequest は更新リクエストの本文です。version を省略すると楽観ロックは行いません。
type updateEmployeeRequest struct {
	Version int64 `json:"version,omitempty"`
	wire.EmployeeFields
}

// Register は社員関連のルートを登録します。
func (h *employeeHandler) Register(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/search", h.handleSearch)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
		r.Get("/{id}/history", h.handleHistory)
	})
}

func (h *employeeHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	if err := h.gate.Authorize(r.Context(), principal, authz.OpCreateEmployee, 0); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req wire.EmployeeFields
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	fields, err := req.ToDomain()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	created, err := h.employees.CreateEmployee(r.Context(), employee.CreateEmployeeInput{Actor: *principal, Fields: fields})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.FromEmployee(created))
}

func (h *employeeHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.gate.Authorize(r.Context(), PrincipalFromContext(r.Context()), authz.OpGetEmployee, id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	found, err := h.employees.GetEmployee(r.Context(), employee.GetEmployeeInput{ID: id})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromEmployee(found))
}

func (h *employeeHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Authorize(r.Context(), PrincipalFromContext(r.Context()), authz.OpListEmployees, 0); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	page, size, err := pagination(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	result, err := h.employees.ListEmployees(r.Context(), employee.ListEmployeesInput{Page: page, Size: size})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromPage(result))
}

func (h *employeeHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Authorize(r.Context(), PrincipalFromContext(r.Context()), authz.OpSearchEmployees, 0); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	page, size, err := pagination(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	query := r.URL.Query()
	result, err := h.employees.SearchEmployees(r.Context(), employee.SearchEmployeesInput{
		FullName:   query.Get("fullName"),
		Department: query.Get("department"),
		JobTitle:   query.Get("jobTitle"),
		Page:       page,
		Size:       size,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromPage(result))
}

func (h *employeeHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	principal := PrincipalFromContext(r.Context())
	if err := h.gate.Authorize(r.Context(), principal, authz.OpUpdateEmployee, id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req updateEmployeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	fields, err := req.ToDomain()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	updated, err := h.employees.UpdateEmployee(r.Context(), employee.UpdateEmployeeInput{
		Actor:           *principal,
		ID:              id,
		ExpectedVersion: req.Version,
		Fields:          fields,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromEmployee(updated))
}

func (h *employeeHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	principal := PrincipalFromContext(r.Context())
	if err := h.gate.Authorize(r.Context(), principal, authz.OpDeleteEmployee, id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.employees.DeleteEmployee(r.Context(), employee.DeleteEmployeeInput{Actor: *principal, ID: id}); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *employeeHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.gate.Authorize(r.Context(), PrincipalFromContext(r.Context()), authz.OpEmployeeHistory, id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	page, size, err := pagination(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	result, err := h.history.ListByEmployee(r.Context(), audit.ListByEmployeeInput{
		EmployeeID: strconv.FormatInt(id, 10),
		Page:       page,
		Size:       size,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromAuditResult(result))
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id %q: %w", raw, employee.ErrInvalidID)
	}
	return id, nil
}

func pagination(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	page, err := intParam(query.Get("page"))
	if err != nil {
		return 0, 0, fmt.Errorf("page: %w", employee.ErrInvalidPage)
	}
	size, err := intParam(query.Get("size"))
	if err != nil {
		return 0, 0, fmt.Errorf("size: %w", employee.ErrInvalidPageSize)
	}
	return page, size, nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
