package api

import (
	"errors"
	"fmt"
)

// AuthError indicates that the bearer credential was rejected (HTTP
// 401). The session layer treats it as "invalidate session and force
// re-authentication" rather than a per-operation failure.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an
// AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// ErrTokenRejected reports that the backend refused a password
// recovery or account setup token.
var ErrTokenRejected = errors.New("token rejected")

// Error is a non-2xx backend response other than 401.
type Error struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend error (%d) on %s %s: %s",
		e.StatusCode, e.Method, e.Path, e.Message)
}

// StatusCode returns the HTTP status carried by err, or 0 when err is
// not a backend response error. AuthError reports 401.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	if IsAuthError(err) {
		return 401
	}
	return 0
}
