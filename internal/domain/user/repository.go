package user

import (
	"context"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// GetByLogin matches either username or email.
	GetByLogin(ctx context.Context, login string) (User, error)
	GetByIDs(ctx context.Context, ids []string) ([]User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, newUser User) (User, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	UpdateEmail(ctx context.Context, userID, email string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateRole(ctx context.Context, userID string, role Role) error
	UpdateLastLogin(ctx context.Context, userID string) error
	LinkGoogleAccount(ctx context.Context, userID, googleID string) error
	// LockAdminIDs returns the ids of all admins, row-locking them for the
	// rest of the transaction.
	LockAdminIDs(ctx context.Context) ([]string, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}
