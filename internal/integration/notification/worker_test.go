package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/budgetflow/backend/internal/domain/entity"
	"github.com/budgetflow/backend/internal/integration/notification/templates"
)

// fakeQueue is an in-memory NotificationQueueRepository.
type fakeQueue struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*entity.NotificationJob
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{jobs: make(map[uuid.UUID]*entity.NotificationJob)}
}

func (q *fakeQueue) Create(_ context.Context, job *entity.NotificationJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs[job.ID] = job
	return nil
}

func (q *fakeQueue) GetPendingJobs(_ context.Context, limit int) ([]*entity.NotificationJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var pending []*entity.NotificationJob
	for _, job := range q.jobs {
		if job.Status == entity.NotificationStatusPending && len(pending) < limit {
			pending = append(pending, job)
		}
	}
	return pending, nil
}

func (q *fakeQueue) Update(_ context.Context, job *entity.NotificationJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs[job.ID] = job
	return nil
}

func (q *fakeQueue) GetByID(_ context.Context, id uuid.UUID) (*entity.NotificationJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.jobs[id], nil
}

func newTestJob() *entity.NotificationJob {
	return entity.NewNotificationJob(
		uuid.New(),
		entity.TemplateBudgetsGenerated,
		"user@example.com",
		"Alex",
		"Your new budgets are ready - BudgetFlow",
		map[string]interface{}{
			"user_name":     "Alex",
			"created_count": 2,
			"budgets_url":   "https://app.example.com/budgets",
		},
	)
}

func newTestWorker(t *testing.T, queue *fakeQueue, sender *MockSender) *Worker {
	t.Helper()

	renderer, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}
	return NewWorker(queue, sender, renderer, DefaultWorkerConfig())
}

func TestWorker_ProcessNow(t *testing.T) {
	ctx := context.Background()

	t.Run("DeliversPendingJob", func(t *testing.T) {
		queue := newFakeQueue()
		sender := NewMockSender()
		worker := newTestWorker(t, queue, sender)

		job := newTestJob()
		if err := queue.Create(ctx, job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		worker.ProcessNow(ctx)

		if len(sender.Sent) != 1 {
			t.Fatalf("expected 1 sent notification, got %d", len(sender.Sent))
		}
		got, _ := queue.GetByID(ctx, job.ID)
		if got.Status != entity.NotificationStatusSent {
			t.Errorf("expected job status %q, got %q", entity.NotificationStatusSent, got.Status)
		}
		if got.ProviderID == "" {
			t.Error("expected provider id to be recorded")
		}
	})

	t.Run("TemporaryFailureSchedulesRetry", func(t *testing.T) {
		queue := newFakeQueue()
		sender := NewMockSender()
		sender.SetFailure(errors.New("rate limited"), false)
		worker := newTestWorker(t, queue, sender)

		job := newTestJob()
		if err := queue.Create(ctx, job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		worker.ProcessNow(ctx)

		got, _ := queue.GetByID(ctx, job.ID)
		if got.Status != entity.NotificationStatusPending {
			t.Errorf("expected job back in pending for retry, got %q", got.Status)
		}
		if got.Attempts != 1 {
			t.Errorf("expected 1 attempt recorded, got %d", got.Attempts)
		}
	})

	t.Run("PermanentFailureDoesNotRetry", func(t *testing.T) {
		queue := newFakeQueue()
		sender := NewMockSender()
		sender.SetFailure(errors.New("invalid recipient"), true)
		worker := newTestWorker(t, queue, sender)

		job := newTestJob()
		if err := queue.Create(ctx, job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		worker.ProcessNow(ctx)

		got, _ := queue.GetByID(ctx, job.ID)
		if got.Status != entity.NotificationStatusFailed {
			t.Errorf("expected job permanently failed, got %q", got.Status)
		}
	})

	t.Run("OneBadJobDoesNotStopTheBatch", func(t *testing.T) {
		queue := newFakeQueue()
		sender := NewMockSender()
		worker := newTestWorker(t, queue, sender)

		bad := newTestJob()
		bad.TemplateType = "unknown_template"
		good := newTestJob()
		for _, job := range []*entity.NotificationJob{bad, good} {
			if err := queue.Create(ctx, job); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		worker.ProcessNow(ctx)

		gotGood, _ := queue.GetByID(ctx, good.ID)
		if gotGood.Status != entity.NotificationStatusSent {
			t.Errorf("expected healthy job delivered, got %q", gotGood.Status)
		}
		gotBad, _ := queue.GetByID(ctx, bad.ID)
		if gotBad.Status != entity.NotificationStatusFailed {
			t.Errorf("expected unknown-template job to fail permanently, got %q", gotBad.Status)
		}
	})
}
