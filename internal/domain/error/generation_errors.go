// Package error defines domain-specific errors for the BudgetFlow application.
package error

import "errors"

// Generation engine domain errors.
var (
	// ErrInvalidRecurrenceRule is returned when a template's recurrence rule is malformed.
	ErrInvalidRecurrenceRule = errors.New("invalid recurrence rule")

	// ErrWatermarkNotAdvanced is returned when a conditional watermark update did not apply.
	ErrWatermarkNotAdvanced = errors.New("watermark not advanced")

	// ErrGuardUnavailable is returned when the trigger guard's state store is unreachable.
	// The engine fails closed on this error: the run is skipped rather than
	// risking a duplicate-run race.
	ErrGuardUnavailable = errors.New("trigger guard state unavailable")

	// ErrRunDeadlineExceeded is returned when a generation pass ran out of its wall-clock budget.
	ErrRunDeadlineExceeded = errors.New("generation run deadline exceeded")
)

// GenerationErrorCode defines error codes for generation engine errors.
// Format: GEN-XXYYYY where XX is category and YYYY is specific error.
type GenerationErrorCode string

const (
	// Rule errors (01XXXX)
	ErrCodeInvalidFrequency  GenerationErrorCode = "GEN-010001"
	ErrCodeInvalidInterval   GenerationErrorCode = "GEN-010002"
	ErrCodeMissingAnchorDate GenerationErrorCode = "GEN-010003"
	ErrCodeInvalidEndDate    GenerationErrorCode = "GEN-010004"

	// Store errors (02XXXX)
	ErrCodeTemplateQueryFailed   GenerationErrorCode = "GEN-020001"
	ErrCodeInstanceCreateFailed  GenerationErrorCode = "GEN-020002"
	ErrCodeWatermarkUpdateFailed GenerationErrorCode = "GEN-020003"

	// Guard errors (03XXXX)
	ErrCodeGuardUnavailable GenerationErrorCode = "GEN-030001"
)

// GenerationError represents a generation engine error with code and message.
type GenerationError struct {
	Code    GenerationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError creates a new GenerationError with the given code and message.
func NewGenerationError(code GenerationErrorCode, message string, err error) *GenerationError {
	return &GenerationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsRuleError reports whether err is a malformed-rule error, as opposed to
// a transient store failure. Rule errors are never retried within a run.
func IsRuleError(err error) bool {
	return errors.Is(err, ErrInvalidRecurrenceRule)
}
