package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodePersistence  ErrorCode = "PERSISTENCE_ERROR"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Credential and access errors
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUsernameExists     ErrorCode = "USERNAME_EXISTS"
	CodeAccessDenied       ErrorCode = "ACCESS_DENIED"

	// Test engine errors
	CodeTopicHasNoQuestions ErrorCode = "TOPIC_HAS_NO_QUESTIONS"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON omits the cause so driver details never reach clients.
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// WithContext attaches a key/value pair that the error handler reports as details.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewPersistenceError(message string, cause error) *DomainError {
	return NewError(CodePersistence, message, cause)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

// NewAccessDeniedError never says which rule failed.
func NewAccessDeniedError() *DomainError {
	return NewError(CodeAccessDenied, "access denied", nil)
}

// NewInvalidCredentialsError is shared by the unknown-user and wrong-password paths.
func NewInvalidCredentialsError() *DomainError {
	return NewError(CodeInvalidCredentials, "invalid username or password", nil)
}

func NewTopicHasNoQuestionsError(topicID string) *DomainError {
	return NewError(CodeTopicHasNoQuestions, "this topic has no questions yet", nil).
		WithContext("topic_id", topicID)
}

// IsErrorCode reports whether err is a DomainError carrying code.
func IsErrorCode(err error, code ErrorCode) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string    `json:"field"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Value   any       `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field of one request.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, ve := range e {
		parts = append(parts, ve.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether a field has at least one error.
func (e ValidationErrors) Has(field string) bool {
	for _, ve := range e {
		if ve.Field == field {
			return true
		}
	}
	return false
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Code: CodeMissingField, Message: fmt.Sprintf("%s is required", field)}
}

func NewInvalidFormatError(field string, value any) ValidationError {
	return ValidationError{Field: field, Code: CodeInvalidFormat, Message: fmt.Sprintf("%s has an invalid format", field), Value: value}
}

func NewOutOfRangeError(field string, value any, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("%s must be between %d and %d", field, min, max),
		Value:   value,
	}
}

func NewFieldError(field, message string) ValidationError {
	return ValidationError{Field: field, Code: CodeValidation, Message: message}
}

// NewUsernameExistsError is a field error so clients can highlight the username input.
func NewUsernameExistsError() ValidationErrors {
	return ValidationErrors{{Field: "username", Code: CodeUsernameExists, Message: "username is already taken"}}
}
