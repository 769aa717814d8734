package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrUsernameExists          = errors.New("username already taken")
	ErrInvalidRole             = errors.New("invalid role")
	ErrUnauthenticated         = errors.New("authentication required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrNoEmployeeProfile       = errors.New("no employee profile linked to this account")
	ErrCannotDeleteSelf        = errors.New("you cannot delete your own account")
	ErrCannotChangeOwnRole     = errors.New("you cannot change your own role")
	ErrLastAdmin               = errors.New("cannot remove the last admin account")
)
