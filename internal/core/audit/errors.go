package audit

import "errors"

var (
	ErrInvalidEmployeeID = errors.New("audit: invalid employee id")
	ErrInvalidPage       = errors.New("audit: invalid page")
	ErrInvalidPageSize   = errors.New("audit: invalid page size")
)
