// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/budgetflow/backend/internal/domain/entity"
)

// NotificationQueueRepository defines the interface for notification queue persistence operations.
type NotificationQueueRepository interface {
	// Create adds a new notification job to the queue.
	Create(ctx context.Context, job *entity.NotificationJob) error

	// GetPendingJobs retrieves jobs ready to be processed, ordered by scheduled_at.
	GetPendingJobs(ctx context.Context, limit int) ([]*entity.NotificationJob, error)

	// Update saves changes to a notification job.
	Update(ctx context.Context, job *entity.NotificationJob) error

	// GetByID retrieves a specific job by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.NotificationJob, error)
}

// SendNotificationInput represents the input for sending a notification email.
type SendNotificationInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendNotificationResult represents the result of sending a notification.
type SendNotificationResult struct {
	ProviderID string
}

// NotificationSender defines the interface for delivering notifications via an external provider.
type NotificationSender interface {
	// Send delivers a notification via the provider (e.g., Resend).
	Send(ctx context.Context, input SendNotificationInput) (*SendNotificationResult, error)
}

// GenerationNotifier is consumed by the generation engine to announce newly
// materialized budget instances. Implementations must be cheap and
// non-blocking; delivery happens asynchronously.
type GenerationNotifier interface {
	// NotifyGenerated enqueues a notification telling the user that
	// createdCount new budget instances are ready.
	NotifyGenerated(ctx context.Context, userID uuid.UUID, createdCount int) error
}
