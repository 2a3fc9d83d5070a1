package signer

import "fmt"

// Error codes for signing failures
const (
	ErrCodeUnavailable     = "SIGNER_UNAVAILABLE"
	ErrCodeTimeout         = "SIGNER_TIMEOUT"
	ErrCodeHTTPStatus      = "SIGNER_HTTP_STATUS"
	ErrCodeRejected        = "SIGNER_REJECTED"
	ErrCodeInvalidResponse = "SIGNER_INVALID_RESPONSE"
	ErrCodeInvalidInput    = "SIGNER_INVALID_INPUT"
	ErrCodeTransport       = "SIGNER_TRANSPORT"
	ErrCodeMalformedJWS    = "SIGNER_MALFORMED_JWS"
	ErrCodePayloadMismatch = "SIGNER_PAYLOAD_MISMATCH"
)

// SigningError represents a failure to obtain a signed document
type SigningError struct {
	Code       string
	Field      string
	Message    string
	StatusCode int
	Cause      error
}

func (e *SigningError) Error() string {
	if e.Field != "" && e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Code, e.Field, e.Message, e.Cause)
	}
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *SigningError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the signer may succeed if asked again unchanged
func (e *SigningError) Retryable() bool {
	switch e.Code {
	case ErrCodeUnavailable, ErrCodeTimeout:
		return true
	case ErrCodeHTTPStatus:
		return e.StatusCode >= 500
	}
	return false
}

// NewSigningError creates a new signing error
func NewSigningError(code, field, message string, cause error) *SigningError {
	return &SigningError{
		Code:    code,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// ErrUnavailable returns error when the signing service refuses connections
func ErrUnavailable(cause error) *SigningError {
	return NewSigningError(ErrCodeUnavailable, "", "signing service unavailable", cause)
}

// ErrTimeout returns error when the signing service does not answer in time
func ErrTimeout(cause error) *SigningError {
	return NewSigningError(ErrCodeTimeout, "", "signing service timed out", cause)
}

// ErrHTTPStatus returns error for an unexpected HTTP status from the signer
func ErrHTTPStatus(status int) *SigningError {
	e := NewSigningError(ErrCodeHTTPStatus, "", fmt.Sprintf("signing service returned HTTP %d", status), nil)
	e.StatusCode = status
	return e
}

// ErrRejected returns error carrying the signer's own failure message verbatim
func ErrRejected(message string) *SigningError {
	return NewSigningError(ErrCodeRejected, "", message, nil)
}

// ErrInvalidResponse returns error when the signer answer cannot be understood
func ErrInvalidResponse(cause error) *SigningError {
	return NewSigningError(ErrCodeInvalidResponse, "", "invalid response from signing service", cause)
}

// ErrInvalidInput returns error for a request that cannot be sent
func ErrInvalidInput(field, message string) *SigningError {
	return NewSigningError(ErrCodeInvalidInput, field, message, nil)
}

// ErrTransport returns error for any other transport failure
func ErrTransport(cause error) *SigningError {
	return NewSigningError(ErrCodeTransport, "", "signing request failed", cause)
}

// ErrMalformedJWS returns error when a signed document cannot be decoded
func ErrMalformedJWS(cause error) *SigningError {
	return NewSigningError(ErrCodeMalformedJWS, "jws", "signed document is not a valid compact JWS", cause)
}

// ErrPayloadMismatch returns error when the signed payload is not the expected document
func ErrPayloadMismatch(field, expected, actual string) *SigningError {
	return NewSigningError(ErrCodePayloadMismatch, field, fmt.Sprintf("expected %q, got %q", expected, actual), nil)
}
