package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Lifecycle errors
const (
	// ErrCodeDisposed indicates an operation on a torn-down container or registration.
	ErrCodeDisposed ErrorCode = "DISPOSED"
)

// Registration errors
const (
	// ErrCodeDuplicateRegistration indicates the type and key pair is already registered.
	ErrCodeDuplicateRegistration ErrorCode = "DUPLICATE_REGISTRATION"
	// ErrCodeRegistrationNotFound indicates no registration exists anywhere in the hierarchy.
	ErrCodeRegistrationNotFound ErrorCode = "REGISTRATION_NOT_FOUND"
)

// Resolution errors
const (
	// ErrCodeCircularDependency indicates a type was requested while already being resolved.
	ErrCodeCircularDependency ErrorCode = "CIRCULAR_DEPENDENCY"
	// ErrCodeResolutionFailed wraps a factory or decorator failure.
	ErrCodeResolutionFailed ErrorCode = "RESOLUTION_FAILED"
	// ErrCodeTypeMismatch indicates a stored value does not satisfy the requested type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
	// ErrCodeValidationFailed aggregates failures collected by eager validation.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
)

// Configuration errors
const (
	// ErrCodeInvalidInput indicates invalid configuration or arguments.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// engineCodes are the codes produced by the resolution engine itself.
var engineCodes = map[ErrorCode]bool{
	ErrCodeDisposed:              true,
	ErrCodeDuplicateRegistration: true,
	ErrCodeRegistrationNotFound:  true,
	ErrCodeCircularDependency:    true,
	ErrCodeResolutionFailed:      true,
	ErrCodeTypeMismatch:          true,
	ErrCodeValidationFailed:      true,
}

// IsEngineCode returns true if the code belongs to the container's structured error surface.
func IsEngineCode(code ErrorCode) bool {
	return engineCodes[code]
}
