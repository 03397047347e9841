package background

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/REHANAMD/InternGenie/internal/config"
)

type stubRetrainer struct {
	added int
	err   error
	calls int
}

func (s *stubRetrainer) Retrain(ctx context.Context) (int, error) {
	s.calls++
	return s.added, s.err
}

type stubMaintainer struct {
	purged  int
	removed int64
	err     error
}

func (s *stubMaintainer) PurgeCache() int { return s.purged }

func (s *stubMaintainer) DeleteExpiredPasswordResets(ctx context.Context) (int64, error) {
	return s.removed, s.err
}

func managerConfig() *config.Config {
	cfg := &config.Config{}
	cfg.BackgroundTasks.MaxConcurrentTasks = 2
	cfg.BackgroundTasks.TaskTimeout = 5 * time.Second
	cfg.BackgroundTasks.CleanupInterval = time.Hour
	cfg.BackgroundTasks.MaxTaskAge = 24 * time.Hour
	return cfg
}

func waitForStatus(t *testing.T, tm TaskManager, processID string, want TaskStatus) *TaskResult {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		result, err := tm.GetTaskResult(context.Background(), processID)
		if err == nil && result.Status == want {
			return result
		}
		time.Sleep(10 * time.Millisecond)
	}
	result, _ := tm.GetTaskResult(context.Background(), processID)
	t.Fatalf("task %s never reached %s, last: %+v", processID, want, result)
	return nil
}

func TestRetrainTaskLifecycle(t *testing.T) {
	tm := NewTaskManager(managerConfig())
	if err := tm.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer tm.Stop(context.Background())

	retrainer := &stubRetrainer{added: 3}
	if err := tm.SubmitRetrainTask(context.Background(), "proc-1", retrainer); err != nil {
		t.Fatalf("submit: %v", err)
	}

	result := waitForStatus(t, tm, "proc-1", TaskStatusSuccess)
	data, ok := result.Data.(*RetrainTaskData)
	if !ok || data.KeywordsAdded != 3 {
		t.Fatalf("unexpected task data: %+v", result.Data)
	}
	if result.CompletedAt == nil || result.ProcessingTime == nil {
		t.Fatal("completion metadata not set")
	}
}

func TestCleanupTaskLifecycle(t *testing.T) {
	tm := NewTaskManager(managerConfig())
	if err := tm.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer tm.Stop(context.Background())

	maintainer := &stubMaintainer{purged: 7, removed: 2}
	if err := tm.SubmitCleanupTask(context.Background(), "proc-2", maintainer); err != nil {
		t.Fatalf("submit: %v", err)
	}

	result := waitForStatus(t, tm, "proc-2", TaskStatusSuccess)
	data, ok := result.Data.(*CleanupTaskData)
	if !ok || data.CacheEntriesPurged != 7 || data.ExpiredOTPsRemoved != 2 {
		t.Fatalf("unexpected task data: %+v", result.Data)
	}
}

func TestFailedTaskRecordsError(t *testing.T) {
	tm := NewTaskManager(managerConfig())
	if err := tm.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer tm.Stop(context.Background())

	retrainer := &stubRetrainer{err: errors.New("feedback table locked")}
	if err := tm.SubmitRetrainTask(context.Background(), "proc-3", retrainer); err != nil {
		t.Fatalf("submit: %v", err)
	}

	result := waitForStatus(t, tm, "proc-3", TaskStatusFailure)
	if result.Error != "feedback table locked" {
		t.Fatalf("error = %q", result.Error)
	}
}

func TestSubmitBeforeStartIsRejected(t *testing.T) {
	tm := NewTaskManager(managerConfig())

	err := tm.SubmitRetrainTask(context.Background(), "proc-4", &stubRetrainer{})
	if err == nil {
		t.Fatal("expected rejection before Start")
	}
}

func TestGetTaskStatusUnknownTask(t *testing.T) {
	tm := NewTaskManager(managerConfig())
	if err := tm.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer tm.Stop(context.Background())

	if _, err := tm.GetTaskStatus(context.Background(), "missing"); err != ErrTaskNotFound {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskStoreCleanupDropsOldResults(t *testing.T) {
	store := NewInMemoryTaskStore()
	ctx := context.Background()

	old := &TaskResult{ProcessID: "old", CreatedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &TaskResult{ProcessID: "fresh", CreatedAt: time.Now()}
	store.Store(ctx, old)
	store.Store(ctx, fresh)

	if err := store.Cleanup(ctx, 24*time.Hour); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := store.Get(ctx, "old"); err != ErrTaskNotFound {
		t.Fatal("expected old result purged")
	}
	if _, err := store.Get(ctx, "fresh"); err != nil {
		t.Fatalf("fresh result lost: %v", err)
	}
}
