package model

import (
	"errors"
	"fmt"
)

// Validation rules reported in ValidationError.Rule
const (
	RuleRequired       = "required"
	RulePositive       = "positive"
	RuleNonNegative    = "non_negative"
	RuleOneOf          = "one_of"
	RuleMinItems       = "min_items"
	RuleNotAllowed     = "not_allowed"
	RuleUnknownDocType = "unknown_type"
)

// ErrUnknownType is returned when no builder is registered for a type code
var ErrUnknownType = errors.New("unknown document type")

// ValidationError represents malformed or insufficient builder input.
// It is always caller-fixable and never retried.
type ValidationError struct {
	Type    TypeCode
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	prefix := "validation failed"
	if e.Type != "" {
		prefix = fmt.Sprintf("[%s] validation failed", e.Type)
	}
	if e.Value != nil {
		return fmt.Sprintf("%s on %s: %s (value=%v, rule=%s)", prefix, e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("%s on %s: %s (rule=%s)", prefix, e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(docType TypeCode, field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Type:    docType,
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}

// ErrRequired returns a validation error for a missing mandatory field
func ErrRequired(docType TypeCode, field string) *ValidationError {
	return NewValidationError(docType, field, nil, RuleRequired, "field is required")
}

// IsValidationError reports whether err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
