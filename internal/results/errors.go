package results

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid analysis result")
)

const (
	ErrorCodeValidation    = "VALIDATION_ERROR"
	ErrorCodeNotFound      = "NOT_FOUND"
	ErrorCodeDependency    = "DEPENDENCY_UNAVAILABLE"
	ErrorCodeExternal      = "EXTERNAL_SERVICE_ERROR"
	ErrorCodeInconsistency = "PERSISTENCE_INCONSISTENCY"
	ErrorCodeConfiguration = "CONFIGURATION_ERROR"
	ErrorCodeInternal      = "INTERNAL_ERROR"
)
