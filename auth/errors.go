package auth

import "errors"

// Failure kinds surfaced by the auth layer. Handlers match these with
// errors.Is and translate them into HTTP status codes.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrAccountNotFound     = errors.New("account not found")
	ErrBanned              = errors.New("account is banned")
	ErrPendingApproval     = errors.New("account pending approval")
	ErrForbidden           = errors.New("forbidden")
	ErrDuplicateIdentity   = errors.New("username or email already registered")
	ErrAlreadyBootstrapped = errors.New("an admin already exists")
	ErrCannotBanSelf       = errors.New("admins cannot ban themselves")
)
