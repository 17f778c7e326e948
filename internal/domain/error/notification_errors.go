// Package error defines domain-specific errors for the BudgetFlow application.
package error

import "errors"

// Notification domain errors.
var (
	// ErrNotificationQueueFailed is returned when a notification fails to be queued.
	ErrNotificationQueueFailed = errors.New("failed to queue notification")

	// ErrNotificationSendFailed is returned when a notification fails to be sent.
	ErrNotificationSendFailed = errors.New("failed to send notification")

	// ErrInvalidNotificationTemplate is returned when an invalid notification template is specified.
	ErrInvalidNotificationTemplate = errors.New("invalid notification template")

	// ErrPermanentSendFailure is returned when delivery fails with a permanent error.
	ErrPermanentSendFailure = errors.New("permanent send failure")

	// ErrTemporarySendFailure is returned when delivery fails with a temporary error.
	ErrTemporarySendFailure = errors.New("temporary send failure")

	// ErrNotificationJobNotFound is returned when a notification job is not found.
	ErrNotificationJobNotFound = errors.New("notification job not found")
)

// NotificationErrorCode defines error codes for notification errors.
// Format: NTF-XXYYYY where XX is category and YYYY is specific error.
type NotificationErrorCode string

const (
	// Queue errors (01XXXX)
	ErrCodeNotificationQueueFailed NotificationErrorCode = "NTF-010001"

	// Send errors (02XXXX)
	ErrCodeNotificationSendFailed NotificationErrorCode = "NTF-020001"
	ErrCodePermanentSendFailure   NotificationErrorCode = "NTF-020002"
	ErrCodeTemporarySendFailure   NotificationErrorCode = "NTF-020003"

	// Template errors (03XXXX)
	ErrCodeInvalidNotificationTemplate NotificationErrorCode = "NTF-030001"
)

// NotificationError represents a notification error with code and message.
type NotificationError struct {
	Code    NotificationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *NotificationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *NotificationError) Unwrap() error {
	return e.Err
}

// NewNotificationError creates a new NotificationError with the given code and message.
func NewNotificationError(code NotificationErrorCode, message string, err error) *NotificationError {
	return &NotificationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
