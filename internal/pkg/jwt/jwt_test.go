package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func newTestService(t *testing.T) Service {
	svc, err := NewJWTService(testSecret, "1h", "24h", false)
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_InvalidDuration(t *testing.T) {
	_, err := NewJWTService(testSecret, "soon", "24h", false)
	assert.Error(t, err)
}

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := newTestService(t)
	employeeID := "emp-1"

	token, expiresAt, err := svc.GenerateAccessToken(user.Principal{
		UserID:     "user-1",
		Username:   "jane.doe",
		EmployeeID: &employeeID,
		Role:       user.RoleHR,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, int64(0))

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := parsed.AsMap(context.Background())
	require.NoError(t, err)

	p, err := PrincipalFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, "jane.doe", p.Username)
	assert.Equal(t, user.RoleHR, p.Role)
	require.NotNil(t, p.EmployeeID)
	assert.Equal(t, "emp-1", *p.EmployeeID)
}

func TestPrincipalFromClaims_RejectsRefreshToken(t *testing.T) {
	_, err := PrincipalFromClaims(map[string]interface{}{
		"user_id": "user-1",
		"role":    "admin",
		"type":    TokenTypeRefresh,
	})
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestPrincipalFromClaims_UnknownRole(t *testing.T) {
	_, err := PrincipalFromClaims(map[string]interface{}{
		"user_id": "user-1",
		"role":    "owner",
		"type":    TokenTypeAccess,
	})
	assert.Error(t, err)
}

func TestVerifyRefreshToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	refresh, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	userID, err := svc.VerifyRefreshToken(ctx, refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	access, _, err := svc.GenerateAccessToken(user.Principal{UserID: "user-1", Role: user.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.VerifyRefreshToken(ctx, access)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.VerifyRefreshToken(ctx, "not-a-token")
	assert.Error(t, err)
}

func TestRefreshTokenCookie(t *testing.T) {
	svc := newTestService(t)
	cookie := svc.RefreshTokenCookie("abc", 1700000000)
	assert.Equal(t, "refresh_token", cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/api/v1/auth", cookie.Path)

	cleared := svc.ClearRefreshTokenCookie()
	assert.Equal(t, -1, cleared.MaxAge)
}
