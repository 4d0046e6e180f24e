package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AppError is the unified error type raised by the container.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code, so a bare
// sentinel such as &AppError{Code: ErrCodeDisposed} matches any disposed error.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Sentinel returns a detail-free AppError usable as an errors.Is target.
func Sentinel(code ErrorCode) *AppError {
	return &AppError{Code: code, Message: strings.ToLower(strings.ReplaceAll(string(code), "_", " "))}
}

// --- Container error constructors ---

// Disposed creates an AppError for an operation on a disposed subject.
func Disposed(subject string) *AppError {
	return &AppError{
		Code:    ErrCodeDisposed,
		Message: fmt.Sprintf("%s has been disposed", subject),
		Details: map[string]any{"subject": subject},
	}
}

// DuplicateRegistration creates an AppError for a type and key that are already registered.
func DuplicateRegistration(typeName, key string) *AppError {
	return &AppError{
		Code:    ErrCodeDuplicateRegistration,
		Message: fmt.Sprintf("%s is already registered", describe(typeName, key)),
		Details: map[string]any{"type": typeName, "key": key},
	}
}

// RegistrationNotFound creates an AppError for a type with no registration in the hierarchy.
func RegistrationNotFound(typeName, key string) *AppError {
	return &AppError{
		Code:    ErrCodeRegistrationNotFound,
		Message: fmt.Sprintf("no registration found for %s", describe(typeName, key)),
		Details: map[string]any{"type": typeName, "key": key},
	}
}

// CircularDependency creates an AppError carrying the ordered cycle trace.
// The trace lists the in-flight types oldest first, ending with the offender.
func CircularDependency(trace []string) *AppError {
	return &AppError{
		Code:    ErrCodeCircularDependency,
		Message: fmt.Sprintf("circular dependency detected: %s", strings.Join(trace, " -> ")),
		Details: map[string]any{"trace": trace},
	}
}

// ResolutionFailed wraps a factory or decorator failure for the requested type.
func ResolutionFailed(typeName, key string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeResolutionFailed,
		Message: fmt.Sprintf("failed to resolve %s", describe(typeName, key)),
		Details: map[string]any{"type": typeName, "key": key},
		Cause:   cause,
	}
}

// TypeMismatch creates an AppError for a stored value that does not satisfy the requested type.
func TypeMismatch(typeName string, got any) *AppError {
	return &AppError{
		Code:    ErrCodeTypeMismatch,
		Message: fmt.Sprintf("value of type %T does not satisfy %s", got, typeName),
		Details: map[string]any{"type": typeName, "got": fmt.Sprintf("%T", got)},
	}
}

// Failure describes one registration that failed eager validation.
type Failure struct {
	Type  string `json:"type"`
	Key   string `json:"key,omitempty"`
	Error string `json:"error"`
	cause error
}

// NewFailure creates a Failure for the given registration and cause.
func NewFailure(typeName, key string, cause error) Failure {
	return Failure{Type: typeName, Key: key, Error: cause.Error(), cause: cause}
}

// ValidationFailed aggregates per-registration failures into a single error.
// Every underlying cause stays reachable through errors.Is and errors.As.
func ValidationFailed(failures []Failure) *AppError {
	lines := make([]string, len(failures))
	causes := make([]error, 0, len(failures))
	for i, f := range failures {
		lines[i] = fmt.Sprintf("%s: %s", describe(f.Type, f.Key), f.Error)
		if f.cause != nil {
			causes = append(causes, f.cause)
		}
	}
	return &AppError{
		Code:    ErrCodeValidationFailed,
		Message: fmt.Sprintf("%d registration(s) failed validation: %s", len(failures), strings.Join(lines, "; ")),
		Details: map[string]any{"failures": failures},
		Cause:   stderrors.Join(causes...),
	}
}

// --- Configuration error constructors ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates a new AppError for configuration validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

func describe(typeName, key string) string {
	if key == "" {
		return typeName
	}
	return fmt.Sprintf("%s[%s]", typeName, key)
}
