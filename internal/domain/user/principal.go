package user

import "context"

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID     string
	Username   string
	EmployeeID *string
	Role       Role
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller stored by the auth middleware.
func PrincipalFromContext(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.UserID == "" {
		return Principal{}, ErrUnauthenticated
	}
	return p, nil
}

func (p Principal) Can(permission Permission) bool {
	return HasPermission(p.Role, permission)
}

// Require returns ErrInsufficientPermissions unless p holds permission.
func (p Principal) Require(permission Permission) error {
	if !p.Can(permission) {
		return ErrInsufficientPermissions
	}
	return nil
}

// IsEmployee reports whether p is linked to the given employee record.
func (p Principal) IsEmployee(employeeID string) bool {
	return p.EmployeeID != nil && *p.EmployeeID == employeeID
}

// RequireEmployee returns the caller's employee id, or ErrNoEmployeeProfile.
func (p Principal) RequireEmployee() (string, error) {
	if p.EmployeeID == nil || *p.EmployeeID == "" {
		return "", ErrNoEmployeeProfile
	}
	return *p.EmployeeID, nil
}
