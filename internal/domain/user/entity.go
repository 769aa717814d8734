package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access, including user deletion
	RoleHR       Role = "hr"       // Employee, payroll and attendance management
	RoleEmployee Role = "employee" // Self-service only
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleHR, RoleEmployee}

// ParseRole converts s to a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID              string
	Username        string
	Email           string
	PasswordHash    *string
	Role            Role
	IsActive        bool
	OAuthProvider   *string
	OAuthProviderID *string
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join
	EmployeeID *string
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStaff checks if user is admin or hr
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleHR
}
