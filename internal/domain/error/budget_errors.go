// Package error defines domain-specific errors for the BudgetFlow application.
package error

import "errors"

// Budget template and instance domain errors.
var (
	// ErrTemplateNotFound is returned when a budget template is not found in the system.
	ErrTemplateNotFound = errors.New("budget template not found")

	// ErrInstanceNotFound is returned when a budget instance is not found in the system.
	ErrInstanceNotFound = errors.New("budget instance not found")

	// ErrInvalidAmount is returned when the budget amount is invalid (zero or negative).
	ErrInvalidAmount = errors.New("invalid budget amount")

	// ErrTemplateCategoryNotFound is returned when the category for a template is not found.
	ErrTemplateCategoryNotFound = errors.New("category not found")

	// ErrCategoryDoesNotBelongToUser is returned when the category does not belong to the user.
	ErrCategoryDoesNotBelongToUser = errors.New("category does not belong to user")

	// ErrUnauthorizedBudgetAccess is returned when user is not authorized to access a budget record.
	ErrUnauthorizedBudgetAccess = errors.New("unauthorized access to budget")

	// ErrInvalidInstanceStatus is returned when the instance status is invalid.
	ErrInvalidInstanceStatus = errors.New("invalid instance status")
)

// BudgetErrorCode defines error codes for budget errors.
// Format: BGT-XXYYYY where XX is category and YYYY is specific error.
type BudgetErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidAmount             BudgetErrorCode = "BGT-010001"
	ErrCodeTemplateCategoryNotFound  BudgetErrorCode = "BGT-010002"
	ErrCodeCategoryDoesNotBelongUser BudgetErrorCode = "BGT-010003"
	ErrCodeInvalidInstanceStatus     BudgetErrorCode = "BGT-010004"
	ErrCodeMissingBudgetFields       BudgetErrorCode = "BGT-010005"

	// Lookup errors (02XXXX)
	ErrCodeTemplateNotFound         BudgetErrorCode = "BGT-020001"
	ErrCodeInstanceNotFound         BudgetErrorCode = "BGT-020002"
	ErrCodeUnauthorizedBudgetAccess BudgetErrorCode = "BGT-020003"
)

// BudgetError represents a budget error with code and message.
type BudgetError struct {
	Code    BudgetErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BudgetError) Unwrap() error {
	return e.Err
}

// NewBudgetError creates a new BudgetError with the given code and message.
func NewBudgetError(code BudgetErrorCode, message string, err error) *BudgetError {
	return &BudgetError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
