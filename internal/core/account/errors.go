package account

import "errors"

var (
	ErrInvalidID          = errors.New("account: invalid id")
	ErrInvalidEmail       = errors.New("account: invalid email")
	ErrInvalidPassword    = errors.New("account: password must be between 6 and 40 characters")
	ErrInvalidRole        = errors.New("account: invalid role")
	ErrEmailAlreadyExists = errors.New("account: email already exists")
	ErrAccountNotFound    = errors.New("account: not found")
	ErrInvalidCredentials = errors.New("account: invalid credentials")
	ErrAccountInactive    = errors.New("account: your account is inactive, please contact support")
	ErrActorRequired      = errors.New("account: acting principal required")
)
