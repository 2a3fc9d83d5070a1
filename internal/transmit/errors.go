package transmit

import "fmt"

// Kind separates failures that may succeed on retry from definitive ones
type Kind string

const (
	KindTransient Kind = "transient" // no definitive answer: connectivity, timeout, reception 401
	KindRejected  Kind = "rejected"  // the authority answered RECHAZADO
	KindAuth      Kind = "auth"      // no token could be obtained and retrying cannot help
	KindProtocol  Kind = "protocol"  // unexpected answer or invalid input
)

// Error codes for transmission failures
const (
	ErrCodeConnectivity = "CONNECTIVITY"
	ErrCodeTimeout      = "TIMEOUT"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeHTTPStatus   = "HTTP_STATUS"
	ErrCodeRejected     = "REJECTED"
	ErrCodeAuth         = "AUTH"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeBadResponse  = "INVALID_RESPONSE"
	ErrCodeCanceled     = "CANCELED"
)

// TransmissionError represents a failed exchange with the reception API
type TransmissionError struct {
	Kind       Kind
	Code       string
	Message    string
	StatusCode int
	Cause      error
}

func (e *TransmissionError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("[%s] %s (HTTP %d)", e.Code, e.Message, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *TransmissionError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether another attempt may succeed
func (e *TransmissionError) Retryable() bool {
	return e.Kind == KindTransient
}

// NewTransmissionError creates a new transmission error
func NewTransmissionError(kind Kind, code, message string, cause error) *TransmissionError {
	return &TransmissionError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrConnectivity returns error when the reception API cannot be reached
func ErrConnectivity(cause error) *TransmissionError {
	return NewTransmissionError(KindTransient, ErrCodeConnectivity, "reception service unreachable", cause)
}

// ErrTimeout returns error when an attempt exceeds its timeout
func ErrTimeout(cause error) *TransmissionError {
	return NewTransmissionError(KindTransient, ErrCodeTimeout, "reception request timed out", cause)
}

// ErrUnauthorized returns error for HTTP 401 from the reception API, usually
// a token that expired early
func ErrUnauthorized() *TransmissionError {
	e := NewTransmissionError(KindTransient, ErrCodeUnauthorized, "token not accepted", nil)
	e.StatusCode = 401
	return e
}

// ErrHTTPStatus returns error for a status that carries no reception answer.
// Server errors are transient, anything else is not.
func ErrHTTPStatus(status int, body string) *TransmissionError {
	kind := KindProtocol
	if status >= 500 {
		kind = KindTransient
	}
	e := NewTransmissionError(kind, ErrCodeHTTPStatus, "unexpected HTTP status", nil)
	e.StatusCode = status
	if body != "" {
		e.Message = fmt.Sprintf("unexpected HTTP status: %s", truncate(body, 200))
	}
	return e
}

// ErrRejected returns error for a RECHAZADO answer
func ErrRejected(code, description string) *TransmissionError {
	return NewTransmissionError(KindRejected, ErrCodeRejected, fmt.Sprintf("%s: %s", code, description), nil)
}

// ErrAuth returns error when no token could be obtained
func ErrAuth(cause error) *TransmissionError {
	return NewTransmissionError(KindAuth, ErrCodeAuth, "authentication failed", cause)
}

// ErrInvalidInput returns error for a request that cannot be sent
func ErrInvalidInput(message string) *TransmissionError {
	return NewTransmissionError(KindProtocol, ErrCodeInvalidInput, message, nil)
}

// ErrInvalidResponse returns error for an answer that cannot be understood
func ErrInvalidResponse(cause error) *TransmissionError {
	return NewTransmissionError(KindProtocol, ErrCodeBadResponse, "invalid reception response", cause)
}

// ErrCanceled returns error when the caller gave up
func ErrCanceled(cause error) *TransmissionError {
	return NewTransmissionError(KindProtocol, ErrCodeCanceled, "transmission canceled", cause)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
