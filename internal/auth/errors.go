package auth

import "fmt"

// Error codes for authentication failures
const (
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeAccountBlocked     = "ACCOUNT_BLOCKED"
	ErrCodeConnectivity       = "CONNECTIVITY"
	ErrCodeRejected           = "LOGIN_REJECTED"
	ErrCodeMissingCredentials = "MISSING_CREDENTIALS"
)

// AuthError represents a failure to obtain a token from the authority
type AuthError struct {
	Code        string
	Environment string
	NIT         string
	Message     string
	StatusCode  int
	Cause       error
}

func (e *AuthError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.NIT != "" {
		msg = fmt.Sprintf("[%s] nit %s: %s", e.Code, e.NIT, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	return msg
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// Fatal reports whether retrying cannot help: the credentials or the account
// must be fixed first
func (e *AuthError) Fatal() bool {
	switch e.Code {
	case ErrCodeInvalidCredentials, ErrCodeAccountBlocked, ErrCodeMissingCredentials:
		return true
	}
	return false
}

// NewAuthError creates a new authentication error
func NewAuthError(code, message string, cause error) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrInvalidCredentials returns error for HTTP 401 on login
func ErrInvalidCredentials() *AuthError {
	e := NewAuthError(ErrCodeInvalidCredentials, "invalid credentials", nil)
	e.StatusCode = 401
	return e
}

// ErrAccountBlocked returns error for HTTP 403 on login
func ErrAccountBlocked() *AuthError {
	e := NewAuthError(ErrCodeAccountBlocked, "account blocked", nil)
	e.StatusCode = 403
	return e
}

// ErrConnectivity returns error for any other login failure
func ErrConnectivity(cause error) *AuthError {
	return NewAuthError(ErrCodeConnectivity, "authority identity service unreachable", cause)
}

// ErrRejected returns error when the identity service answers with a failure body
func ErrRejected(message string) *AuthError {
	return NewAuthError(ErrCodeRejected, message, nil)
}

// ErrMissingCredentials returns error when no password is configured for a NIT
func ErrMissingCredentials() *AuthError {
	return NewAuthError(ErrCodeMissingCredentials, "no credentials configured", nil)
}
