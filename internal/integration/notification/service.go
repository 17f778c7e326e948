// Package notification provides user notification delivery.
package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budgetflow/backend/internal/application/adapter"
	"github.com/budgetflow/backend/internal/domain/entity"
	domainerror "github.com/budgetflow/backend/internal/domain/error"
)

// Service enqueues notification jobs for asynchronous delivery. It is the
// adapter.GenerationNotifier the generation engine talks to: enqueueing is
// a single insert, so the engine never waits on a mail provider.
type Service struct {
	queue      adapter.NotificationQueueRepository
	userRepo   adapter.UserRepository
	appBaseURL string
}

// NewService creates a new notification service.
func NewService(queue adapter.NotificationQueueRepository, userRepo adapter.UserRepository, appBaseURL string) *Service {
	return &Service{
		queue:      queue,
		userRepo:   userRepo,
		appBaseURL: appBaseURL,
	}
}

// NotifyGenerated enqueues a budgets-generated notification for the user.
// Users who opted out of email notifications are silently skipped.
func (s *Service) NotifyGenerated(ctx context.Context, userID uuid.UUID, createdCount int) error {
	if createdCount <= 0 {
		return nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user for notification: %w", err)
	}
	if !user.EmailNotifications {
		return nil
	}

	subject := "Your new budgets are ready - BudgetFlow"
	if createdCount == 1 {
		subject = "Your new budget is ready - BudgetFlow"
	}

	templateData := map[string]interface{}{
		"user_name":     user.Name,
		"created_count": createdCount,
		"budgets_url":   s.appBaseURL + "/budgets",
	}

	job := entity.NewNotificationJob(
		user.ID,
		entity.TemplateBudgetsGenerated,
		user.Email,
		user.Name,
		subject,
		templateData,
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewNotificationError(
			domainerror.ErrCodeNotificationQueueFailed,
			"failed to queue budgets generated notification",
			err,
		)
	}

	return nil
}

// Ensure Service implements adapter.GenerationNotifier.
var _ adapter.GenerationNotifier = (*Service)(nil)
