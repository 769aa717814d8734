package auth

import "errors"

var (
	ErrInvalidCredentials         = errors.New("invalid username/email or password")
	ErrAccountInactive            = errors.New("account is inactive")
	ErrInvalidToken               = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked        = errors.New("refresh token has been revoked")
	ErrRefreshTokenCookieNotFound = errors.New("refresh token cookie not found")
	ErrWrongCurrentPassword       = errors.New("current password is incorrect")
	ErrGoogleAccountNotLinked     = errors.New("no account is registered for this Google email")
	ErrGoogleLoginDisabled        = errors.New("google login is not configured")
	ErrInvalidOAuthState          = errors.New("invalid oauth state")
)
