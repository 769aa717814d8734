package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	authService "github.com/cmlabs-hris/payroll-backend-go/internal/service/auth"
	"github.com/spf13/cobra"
)

// newSeedAdminCmd creates the first admin account; the user API needs an
// admin to exist already. The password is read from ADMIN_PASSWORD.
func newSeedAdminCmd() *cobra.Command {
	req := user.CreateUserRequest{Role: string(user.RoleAdmin)}

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			newLogger(cfg)

			req.Password = os.Getenv("ADMIN_PASSWORD")
			if err := validator.Struct(&req); err != nil {
				var errs validator.ValidationErrors
				if errors.As(err, &errs) {
					return fmt.Errorf("invalid admin account: %v", errs.ToMap())
				}
				return err
			}

			hash, err := authService.HashPassword(req.Password)
			if err != nil {
				return err
			}

			db, err := database.NewPostgreSQLDB(cmd.Context(), cfg.DatabaseURL())
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer db.Close()

			created, err := postgresql.NewUserRepository(db).Create(cmd.Context(), user.User{
				Username:     req.Username,
				Email:        req.Email,
				PasswordHash: &hash,
				Role:         user.RoleAdmin,
				IsActive:     true,
			})
			if err != nil {
				return err
			}
			slog.Info("admin account created", "user_id", created.ID, "username", created.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "admin", "admin username")
	cmd.Flags().StringVar(&req.Email, "email", "", "admin email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
