package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	tx database.Transactor
	user.UserRepository
	employee.EmployeeRepository
	auth.RefreshTokenRepository
	jwt.Service
	googleEnabled bool
}

func NewAuthService(
	tx database.Transactor,
	userRepository user.UserRepository,
	employeeRepository employee.EmployeeRepository,
	refreshTokenRepository auth.RefreshTokenRepository,
	jwtService jwt.Service,
	googleEnabled bool,
) auth.AuthService {
	return &AuthServiceImpl{
		tx:                     tx,
		UserRepository:         userRepository,
		EmployeeRepository:     employeeRepository,
		RefreshTokenRepository: refreshTokenRepository,
		Service:                jwtService,
		googleEnabled:          googleEnabled,
	}
}

// HashPassword hashes a password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	userData, err := a.UserRepository.GetByLogin(ctx, loginReq.Login)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by login: %w", err)
	}

	// Google-only accounts have no password
	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	return a.issueTokens(ctx, userData, sessionTrackReq)
}

// LoginWithGoogle implements auth.AuthService.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, googleEmail string, googleID string, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if !a.googleEnabled {
		return auth.TokenResponse{}, auth.ErrGoogleLoginDisabled
	}

	userData, err := a.UserRepository.GetByEmail(ctx, googleEmail)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrGoogleAccountNotLinked
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user data by email: %w", err)
	}
	if !userData.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	if userData.OAuthProviderID == nil {
		if err := a.UserRepository.LinkGoogleAccount(ctx, userData.ID, googleID); err != nil {
			return auth.TokenResponse{}, fmt.Errorf("failed to link google account: %w", err)
		}
		slog.InfoContext(ctx, "linked google account", "user_id", userData.ID)
	}

	return a.issueTokens(ctx, userData, sessionTrackReq)
}

func (a *AuthServiceImpl) issueTokens(ctx context.Context, userData user.User, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse

	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(principalOf(userData))
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(userData.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		err = a.RefreshTokenRepository.CreateRefreshToken(txCtx, userData.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, sessionTrackReq)
		if err != nil {
			return fmt.Errorf("failed to save refresh token to database: %w", err)
		}
		if err := a.UserRepository.UpdateLastLogin(txCtx, userData.ID); err != nil {
			return fmt.Errorf("failed to update last login: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

func principalOf(u user.User) user.Principal {
	return user.Principal{
		UserID:     u.ID,
		Username:   u.Username,
		EmployeeID: u.EmployeeID,
		Role:       u.Role,
	}
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	_, isRevoked, err := a.RefreshTokenRepository.IsRefreshTokenRevoked(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to check if refresh token is revoked: %w", err)
	}
	if isRevoked {
		return nil
	}
	if err := a.RefreshTokenRepository.RevokeRefreshToken(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	var accessTokenResponse auth.AccessTokenResponse

	// 1. Verify signature, expiry and token type
	claimedUserID, err := a.Service.VerifyRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 2. Check the stored token for revocation or expiry
	userID, isRevoked, err := a.RefreshTokenRepository.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if isRevoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}
	if userID != claimedUserID {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 3. Reload the user so role changes apply to the new access token
	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !userData.IsActive {
		return auth.AccessTokenResponse{}, auth.ErrAccountInactive
	}

	accessTokenResponse.AccessToken, accessTokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(principalOf(userData))
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessTokenResponse, nil
}

// Profile implements auth.AuthService.
func (a *AuthServiceImpl) Profile(ctx context.Context) (auth.ProfileResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return auth.ProfileResponse{}, err
	}
	if err := p.Require(user.PermissionViewOwnProfile); err != nil {
		return auth.ProfileResponse{}, err
	}

	userData, err := a.UserRepository.GetByID(ctx, p.UserID)
	if err != nil {
		return auth.ProfileResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	resp := auth.ProfileResponse{
		UserID:   userData.ID,
		Username: userData.Username,
		Email:    userData.Email,
		Role:     string(userData.Role),
	}
	if userData.EmployeeID == nil {
		return resp, nil
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, *userData.EmployeeID)
	if err != nil {
		return auth.ProfileResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	fullName := emp.FullName()
	resp.EmployeeID = &emp.ID
	resp.EmployeeCode = &emp.EmployeeCode
	resp.FullName = &fullName
	resp.Department = emp.Department
	resp.Position = emp.Position
	resp.Phone = emp.Phone
	resp.Address = emp.Address
	return resp, nil
}

// UpdateProfile implements auth.AuthService. Phone and address live on the
// employee record, so only users with a profile may change them.
func (a *AuthServiceImpl) UpdateProfile(ctx context.Context, req auth.UpdateProfileRequest) (auth.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.ProfileResponse{}, err
	}
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return auth.ProfileResponse{}, err
	}
	if err := p.Require(user.PermissionEditOwnProfile); err != nil {
		return auth.ProfileResponse{}, err
	}

	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if req.Email != nil {
			if err := a.UserRepository.UpdateEmail(txCtx, p.UserID, *req.Email); err != nil {
				return err
			}
		}
		if req.Phone == nil && req.Address == nil {
			return nil
		}
		employeeID, err := p.RequireEmployee()
		if err != nil {
			return err
		}
		return a.EmployeeRepository.UpdateContact(txCtx, employeeID, req.Phone, req.Address)
	})
	if err != nil {
		return auth.ProfileResponse{}, err
	}

	return a.Profile(ctx)
}

// ChangePassword implements auth.AuthService. Every session of the user is
// revoked afterwards.
func (a *AuthServiceImpl) ChangePassword(ctx context.Context, req auth.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}

	userData, err := a.UserRepository.GetByID(ctx, p.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if userData.PasswordHash == nil || bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return auth.ErrWrongCurrentPassword
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := a.UserRepository.UpdatePassword(txCtx, p.UserID, hashed); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		return a.RefreshTokenRepository.RevokeAllForUser(txCtx, p.UserID)
	})
}
