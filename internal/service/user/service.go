package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	authservice "github.com/cmlabs-hris/payroll-backend-go/internal/service/auth"
)

type UserServiceImpl struct {
	tx database.Transactor
	user.UserRepository
	auth.RefreshTokenRepository
}

func NewUserService(tx database.Transactor, userRepository user.UserRepository, refreshTokenRepository auth.RefreshTokenRepository) user.UserService {
	return &UserServiceImpl{
		tx:                     tx,
		UserRepository:         userRepository,
		RefreshTokenRepository: refreshTokenRepository,
	}
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, filter user.UserFilter) (user.ListUserResponse, error) {
	if err := requirePermission(ctx, user.PermissionUserManage); err != nil {
		return user.ListUserResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return user.ListUserResponse{}, err
	}

	users, total, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return user.ListUserResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	resp := user.ListUserResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: filter.TotalPages(total),
		Users:      make([]user.UserResponse, 0, len(users)),
	}
	for _, u := range users {
		resp.Users = append(resp.Users, user.NewUserResponse(u))
	}
	return resp, nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := requirePermission(ctx, user.PermissionUserManage); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	hashed, err := authservice.HashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.UserRepository.Create(ctx, user.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: &hashed,
		Role:         user.Role(req.Role),
		IsActive:     true,
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.InfoContext(ctx, "user created", "user_id", created.ID, "role", created.Role)
	return user.NewUserResponse(created), nil
}

// UpdateRole implements user.UserService.
func (s *UserServiceImpl) UpdateRole(ctx context.Context, req user.UpdateRoleRequest) (user.UserResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if err := p.Require(user.PermissionUserManage); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	newRole := user.Role(req.Role)

	var updated user.User
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		adminIDs, err := s.UserRepository.LockAdminIDs(txCtx)
		if err != nil {
			return fmt.Errorf("failed to lock admins: %w", err)
		}

		target, err := s.UserRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if err := user.CheckRoleChange(p.UserID, target, newRole, len(adminIDs)); err != nil {
			return err
		}
		if target.Role == newRole {
			updated = target
			return nil
		}

		if err := s.UserRepository.UpdateRole(txCtx, target.ID, newRole); err != nil {
			return fmt.Errorf("failed to update role: %w", err)
		}
		// Outstanding refresh tokens would otherwise mint access tokens with the old role
		if err := s.RefreshTokenRepository.RevokeAllForUser(txCtx, target.ID); err != nil {
			return fmt.Errorf("failed to revoke sessions: %w", err)
		}

		updated, err = s.UserRepository.GetByID(txCtx, target.ID)
		return err
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return user.NewUserResponse(updated), nil
}

// Delete implements user.UserService.
func (s *UserServiceImpl) Delete(ctx context.Context, id string) error {
	_, err := s.BulkDelete(ctx, user.BulkDeleteRequest{UserIDs: []string{id}})
	return err
}

// BulkDelete implements user.UserService. Either every listed account is
// removed or none is.
func (s *UserServiceImpl) BulkDelete(ctx context.Context, req user.BulkDeleteRequest) (user.BulkDeleteResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return user.BulkDeleteResponse{}, err
	}
	if err := p.Require(user.PermissionUserDelete); err != nil {
		return user.BulkDeleteResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.BulkDeleteResponse{}, err
	}
	ids := dedupe(req.UserIDs)

	var deleted int64
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		adminIDs, err := s.UserRepository.LockAdminIDs(txCtx)
		if err != nil {
			return fmt.Errorf("failed to lock admins: %w", err)
		}

		targets, err := s.UserRepository.GetByIDs(txCtx, ids)
		if err != nil {
			return fmt.Errorf("failed to load users: %w", err)
		}
		if len(targets) != len(ids) {
			return user.ErrUserNotFound
		}
		if err := user.CheckDeletion(p.UserID, targets, len(adminIDs)); err != nil {
			return err
		}

		deleted, err = s.UserRepository.DeleteByIDs(txCtx, ids)
		if err != nil {
			return fmt.Errorf("failed to delete users: %w", err)
		}
		return nil
	})
	if err != nil {
		return user.BulkDeleteResponse{}, err
	}

	slog.InfoContext(ctx, "users deleted", "count", deleted, "actor", p.UserID)
	return user.BulkDeleteResponse{Deleted: int(deleted)}, nil
}

func requirePermission(ctx context.Context, permission user.Permission) error {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	return p.Require(permission)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
