package employee

import "errors"

var (
	ErrInvalidID              = errors.New("employee: invalid id")
	ErrInvalidFullName        = errors.New("employee: full name is required and must be at most 255 characters")
	ErrInvalidJobTitle        = errors.New("employee: job title is required and must be at most 255 characters")
	ErrInvalidDepartment      = errors.New("employee: department is required and must be at most 255 characters")
	ErrInvalidHireDate        = errors.New("employee: hire date is required")
	ErrInvalidStatus          = errors.New("employee: invalid employment status")
	ErrInvalidEmail           = errors.New("employee: invalid email")
	ErrInvalidPhone           = errors.New("employee: phone must be at most 20 characters")
	ErrInvalidAddress         = errors.New("employee: address must be at most 500 characters")
	ErrInvalidPage            = errors.New("employee: invalid page")
	ErrInvalidPageSize        = errors.New("employee: invalid page size")
	ErrActorNotFound          = errors.New("employee: acting user not found")
	ErrEmployeeNotFound       = errors.New("employee: not found")
	ErrLinkedAccountNotFound  = errors.New("employee: linked account not found")
	ErrDuplicateEmployee      = errors.New("employee: an employee or account with this email already exists")
	ErrConcurrentModification = errors.New("employee: record was modified concurrently")
)
