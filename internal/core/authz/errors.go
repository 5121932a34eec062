package authz

import "errors"

var (
	ErrUnauthenticated    = errors.New("authz: authentication required")
	ErrUnauthorizedAccess = errors.New("authz: access denied")
)
