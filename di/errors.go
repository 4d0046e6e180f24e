package di

import (
	"github.com/kbukum/scopekit/errors"
)

// Sentinels for errors.Is. They match any container error of the same kind.
var (
	ErrDisposed              = errors.Sentinel(errors.ErrCodeDisposed)
	ErrDuplicateRegistration = errors.Sentinel(errors.ErrCodeDuplicateRegistration)
	ErrRegistrationNotFound  = errors.Sentinel(errors.ErrCodeRegistrationNotFound)
	ErrCircularDependency    = errors.Sentinel(errors.ErrCodeCircularDependency)
	ErrResolutionFailed      = errors.Sentinel(errors.ErrCodeResolutionFailed)
	ErrValidationFailed      = errors.Sentinel(errors.ErrCodeValidationFailed)
)

// CycleTrace returns the ordered type trace of a circular dependency error
// anywhere in err's chain, or nil.
func CycleTrace(err error) []string {
	appErr, ok := errors.AsAppError(err)
	for ok {
		if appErr.Code == errors.ErrCodeCircularDependency {
			trace, _ := appErr.Details["trace"].([]string)
			return trace
		}
		appErr, ok = errors.AsAppError(appErr.Cause)
	}
	return nil
}
