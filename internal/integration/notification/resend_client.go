// Package notification provides user notification delivery via Resend.
package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/budgetflow/backend/internal/application/adapter"
	domainerror "github.com/budgetflow/backend/internal/domain/error"
)

// ResendClient implements the adapter.NotificationSender interface using Resend.
type ResendClient struct {
	client    *resend.Client
	fromName  string
	fromEmail string
}

// NewResendClient creates a new Resend client.
func NewResendClient(apiKey, fromName, fromEmail string) *ResendClient {
	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// Send delivers a notification email via Resend.
func (c *ResendClient) Send(ctx context.Context, input adapter.SendNotificationInput) (*adapter.SendNotificationResult, error) {
	from := fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail)

	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{input.To},
		Subject: input.Subject,
		Html:    input.HTML,
		Text:    input.Text,
	}

	resp, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		if isPermanentError(err) {
			return nil, domainerror.NewNotificationError(
				domainerror.ErrCodePermanentSendFailure,
				"permanent send failure",
				err,
			)
		}
		return nil, domainerror.NewNotificationError(
			domainerror.ErrCodeTemporarySendFailure,
			"temporary send failure",
			err,
		)
	}

	return &adapter.SendNotificationResult{
		ProviderID: resp.Id,
	}, nil
}

// isPermanentError checks if the error is a permanent error that should not be retried.
// Permanent errors include: 401 (Unauthorized), 403 (Forbidden), 422 (Validation Error)
// Temporary errors include: 429 (Rate Limit), 5xx (Server Errors)
func isPermanentError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	permanentPatterns := []string{
		"401",
		"403",
		"422",
		"unauthorized",
		"forbidden",
		"validation",
		"invalid",
		"bad request",
	}

	for _, pattern := range permanentPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// MockSender is a mock implementation for testing.
type MockSender struct {
	Sent        []adapter.SendNotificationInput
	ShouldFail  bool
	FailError   error
	IsPermanent bool
}

// NewMockSender creates a new mock notification sender.
func NewMockSender() *MockSender {
	return &MockSender{
		Sent: make([]adapter.SendNotificationInput, 0),
	}
}

// Send implements the adapter.NotificationSender interface for testing.
func (m *MockSender) Send(ctx context.Context, input adapter.SendNotificationInput) (*adapter.SendNotificationResult, error) {
	if m.ShouldFail {
		if m.IsPermanent {
			return nil, domainerror.NewNotificationError(
				domainerror.ErrCodePermanentSendFailure,
				"mock permanent failure",
				m.FailError,
			)
		}
		return nil, domainerror.NewNotificationError(
			domainerror.ErrCodeTemporarySendFailure,
			"mock temporary failure",
			m.FailError,
		)
	}

	m.Sent = append(m.Sent, input)

	return &adapter.SendNotificationResult{
		ProviderID: fmt.Sprintf("mock-%d", len(m.Sent)),
	}, nil
}

// SetFailure configures the mock to fail with the given error.
func (m *MockSender) SetFailure(err error, permanent bool) {
	m.ShouldFail = true
	m.FailError = err
	m.IsPermanent = permanent
}

// Ensure implementations satisfy interfaces.
var (
	_ adapter.NotificationSender = (*ResendClient)(nil)
	_ adapter.NotificationSender = (*MockSender)(nil)
)
