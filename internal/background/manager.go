package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/REHANAMD/InternGenie/internal/config"
	"github.com/REHANAMD/InternGenie/internal/logging"
	"github.com/REHANAMD/InternGenie/pkg/utils"
)

// Task manager configuration constants
const (
	DefaultMaxWorkers   = 4
	DefaultMaxQueueSize = 100

	// Bounds to prevent misconfiguration
	MinWorkers   = 1
	MaxWorkers   = 100
	MinQueueSize = 1
	MaxQueueSize = 10000
)

// Retrainer runs one chatbot keyword-promotion pass
type Retrainer interface {
	Retrain(ctx context.Context) (int, error)
}

// Maintainer exposes the stores the periodic cleanup sweep touches
type Maintainer interface {
	PurgeCache() int
	DeleteExpiredPasswordResets(ctx context.Context) (int64, error)
}

// TaskManager defines the interface for managing background tasks
type TaskManager interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// SubmitRetrainTask queues a chatbot retraining pass
	SubmitRetrainTask(ctx context.Context, processID string, retrainer Retrainer) error

	// SubmitCleanupTask queues a cache/OTP maintenance sweep
	SubmitCleanupTask(ctx context.Context, processID string, maintainer Maintainer) error

	GetTaskResult(ctx context.Context, processID string) (*TaskResult, error)
	GetTaskStatus(ctx context.Context, processID string) (TaskStatus, error)
	ListTasks(ctx context.Context) ([]*TaskResult, error)
	IsHealthy() bool
}

// TaskManagerImpl implements the TaskManager interface
type TaskManagerImpl struct {
	config       *config.Config
	store        TaskStore
	logger       *TaskCompletionLogger
	appLogger    logging.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	mu           sync.RWMutex
	running      bool
	taskChan     chan *TaskExecution
	maxWorkers   int
	maxQueueSize int
}

// TaskExecution represents a task execution context
type TaskExecution struct {
	ProcessID   string
	Type        TaskType
	Context     context.Context
	Cancel      context.CancelFunc
	ExecuteFunc func(context.Context) (*TaskResult, error)
}

// validateTaskManagerConfig validates and returns safe configuration values
func validateTaskManagerConfig(cfg *config.Config) (maxWorkers, maxQueueSize int, err error) {
	maxWorkers = cfg.BackgroundTasks.MaxConcurrentTasks
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	} else if maxWorkers > MaxWorkers {
		return 0, 0, fmt.Errorf("worker pool size (%d) exceeds maximum (%d)", maxWorkers, MaxWorkers)
	}

	maxQueueSize = DefaultMaxQueueSize
	return maxWorkers, maxQueueSize, nil
}

// NewTaskManager creates a new task manager
func NewTaskManager(cfg *config.Config) *TaskManagerImpl {
	logger := logging.GetGlobalLogger()

	maxWorkers, maxQueueSize, err := validateTaskManagerConfig(cfg)
	if err != nil {
		logger.Warn("Task manager configuration validation failed, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		maxWorkers = DefaultMaxWorkers
		maxQueueSize = DefaultMaxQueueSize
	}

	return &TaskManagerImpl{
		config:       cfg,
		store:        NewInMemoryTaskStore(),
		logger:       NewTaskCompletionLogger(),
		appLogger:    logger,
		maxWorkers:   maxWorkers,
		maxQueueSize: maxQueueSize,
		taskChan:     make(chan *TaskExecution, maxQueueSize),
	}
}

// Start starts the task manager
func (tm *TaskManagerImpl) Start(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.running {
		return fmt.Errorf("task manager already running")
	}

	tm.ctx, tm.cancel = context.WithCancel(ctx)
	tm.running = true

	for i := 0; i < tm.maxWorkers; i++ {
		tm.wg.Add(1)
		go tm.worker(i)
	}

	tm.wg.Add(1)
	go tm.cleanupRoutine()

	tm.appLogger.Info("Task manager started", map[string]interface{}{
		"max_workers": tm.maxWorkers,
	})
	return nil
}

// Stop stops the task manager gracefully
func (tm *TaskManagerImpl) Stop(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if !tm.running {
		return nil
	}

	tm.appLogger.Info("Stopping task manager...", map[string]interface{}{})

	tm.cancel()
	close(tm.taskChan)

	done := make(chan struct{})
	go func() {
		tm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		tm.appLogger.Info("Task manager stopped gracefully", map[string]interface{}{})
	case <-ctx.Done():
		tm.appLogger.Warn("Task manager shutdown timed out", map[string]interface{}{})
	}

	tm.running = false
	return nil
}

// SubmitRetrainTask submits a chatbot retraining pass for background processing
func (tm *TaskManagerImpl) SubmitRetrainTask(ctx context.Context, processID string, retrainer Retrainer) error {
	if !tm.IsHealthy() {
		return fmt.Errorf("task manager is not healthy")
	}

	result := &TaskResult{
		ProcessID: processID,
		Type:      TaskTypeRetrain,
		Status:    TaskStatusAccepted,
		CreatedAt: time.Now(),
	}
	if err := tm.store.Store(ctx, result); err != nil {
		return fmt.Errorf("failed to store task result: %w", err)
	}

	tm.logger.LogTaskAccepted(processID, TaskTypeRetrain)

	taskCtx, cancelFunc := context.WithTimeout(tm.ctx, tm.config.BackgroundTasks.TaskTimeout)
	execution := &TaskExecution{
		ProcessID: processID,
		Type:      TaskTypeRetrain,
		Context:   taskCtx,
		Cancel:    cancelFunc,
		ExecuteFunc: func(execCtx context.Context) (*TaskResult, error) {
			return tm.executeRetrainTask(execCtx, processID, retrainer)
		},
	}

	return tm.enqueue(ctx, execution)
}

// SubmitCleanupTask submits a cache/OTP maintenance sweep for background processing
func (tm *TaskManagerImpl) SubmitCleanupTask(ctx context.Context, processID string, maintainer Maintainer) error {
	if !tm.IsHealthy() {
		return fmt.Errorf("task manager is not healthy")
	}

	result := &TaskResult{
		ProcessID: processID,
		Type:      TaskTypeCleanup,
		Status:    TaskStatusAccepted,
		CreatedAt: time.Now(),
	}
	if err := tm.store.Store(ctx, result); err != nil {
		return fmt.Errorf("failed to store task result: %w", err)
	}

	tm.logger.LogTaskAccepted(processID, TaskTypeCleanup)

	taskCtx, cancelFunc := context.WithTimeout(tm.ctx, tm.config.BackgroundTasks.TaskTimeout)
	execution := &TaskExecution{
		ProcessID: processID,
		Type:      TaskTypeCleanup,
		Context:   taskCtx,
		Cancel:    cancelFunc,
		ExecuteFunc: func(execCtx context.Context) (*TaskResult, error) {
			return tm.executeCleanupTask(execCtx, processID, maintainer)
		},
	}

	return tm.enqueue(ctx, execution)
}

func (tm *TaskManagerImpl) enqueue(ctx context.Context, execution *TaskExecution) error {
	select {
	case tm.taskChan <- execution:
		return nil
	case <-ctx.Done():
		execution.Cancel()
		return ctx.Err()
	default:
		execution.Cancel()
		return fmt.Errorf("task queue is full")
	}
}

// GetTaskResult retrieves the result of a task by process ID
func (tm *TaskManagerImpl) GetTaskResult(ctx context.Context, processID string) (*TaskResult, error) {
	return tm.store.Get(ctx, processID)
}

// GetTaskStatus retrieves the status of a task by process ID
func (tm *TaskManagerImpl) GetTaskStatus(ctx context.Context, processID string) (TaskStatus, error) {
	result, err := tm.store.Get(ctx, processID)
	if err != nil {
		return "", err
	}
	return result.Status, nil
}

// ListTasks lists all active tasks (for monitoring)
func (tm *TaskManagerImpl) ListTasks(ctx context.Context) ([]*TaskResult, error) {
	return tm.store.List(ctx)
}

// IsHealthy checks if the task manager is healthy
func (tm *TaskManagerImpl) IsHealthy() bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.running && tm.ctx != nil && tm.ctx.Err() == nil
}

// worker processes tasks from the task channel
func (tm *TaskManagerImpl) worker(workerID int) {
	defer tm.wg.Done()

	for {
		select {
		case <-tm.ctx.Done():
			return
		case task, ok := <-tm.taskChan:
			if !ok {
				return
			}
			tm.processTask(workerID, task)
		}
	}
}

// processTask processes a single task
func (tm *TaskManagerImpl) processTask(workerID int, task *TaskExecution) {
	startTime := time.Now()

	if err := tm.updateTaskStatus(task.ProcessID, TaskStatusProcessing); err != nil {
		tm.appLogger.Error("Failed to update task status to processing", map[string]interface{}{
			"error": err.Error(),
		})
	}

	tm.logger.LogTaskStart(task.ProcessID, task.Type)

	result, err := task.ExecuteFunc(task.Context)
	processingTime := time.Since(startTime)

	if err != nil {
		tm.appLogger.Error("Task execution failed", map[string]interface{}{
			"worker_id":       workerID,
			"process_id":      task.ProcessID,
			"task_type":       task.Type,
			"processing_time": processingTime,
			"error":           err.Error(),
		})

		existingResult, getErr := tm.store.Get(context.Background(), task.ProcessID)
		if getErr != nil {
			result = &TaskResult{
				ProcessID:      task.ProcessID,
				Type:           task.Type,
				Status:         TaskStatusFailure,
				Error:          err.Error(),
				CreatedAt:      time.Now(),
				ProcessingTime: &processingTime,
			}
		} else {
			existingResult.Status = TaskStatusFailure
			existingResult.Error = err.Error()
			existingResult.ProcessingTime = &processingTime
			result = existingResult
		}

		tm.logger.LogTaskError(task.ProcessID, task.Type, err)
	} else {
		result.Status = TaskStatusSuccess
		result.ProcessingTime = &processingTime
		completedAt := time.Now()
		result.CompletedAt = &completedAt

		tm.logger.LogTaskSuccess(task.ProcessID, task.Type, processingTime)
	}

	if err := tm.store.Update(context.Background(), result); err != nil {
		tm.appLogger.Error("Failed to store task result", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if task.Cancel != nil {
		task.Cancel()
	}
}

// updateTaskStatus updates the status of a task
func (tm *TaskManagerImpl) updateTaskStatus(processID string, status TaskStatus) error {
	result, err := tm.store.Get(context.Background(), processID)
	if err != nil {
		return err
	}

	result.Status = status
	return tm.store.Update(context.Background(), result)
}

// cleanupRoutine periodically cleans up old task results
func (tm *TaskManagerImpl) cleanupRoutine() {
	defer tm.wg.Done()

	interval := tm.config.BackgroundTasks.CleanupInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-tm.ctx.Done():
			return
		case <-ticker.C:
			maxAge := tm.config.BackgroundTasks.MaxTaskAge
			if maxAge <= 0 {
				maxAge = 24 * time.Hour
			}
			if err := tm.store.Cleanup(context.Background(), maxAge); err != nil {
				tm.appLogger.Error("Failed to cleanup old task results", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}

// executeRetrainTask runs one keyword-promotion pass over stored feedback
func (tm *TaskManagerImpl) executeRetrainTask(ctx context.Context, processID string, retrainer Retrainer) (*TaskResult, error) {
	existingResult, err := tm.store.Get(ctx, processID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve existing task result: %w", err)
	}

	added, err := retrainer.Retrain(ctx)
	if err != nil {
		return nil, err
	}

	existingResult.Data = &RetrainTaskData{KeywordsAdded: added}
	return existingResult, nil
}

// executeCleanupTask purges stale cache entries and expired OTP rows
func (tm *TaskManagerImpl) executeCleanupTask(ctx context.Context, processID string, maintainer Maintainer) (*TaskResult, error) {
	existingResult, err := tm.store.Get(ctx, processID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve existing task result: %w", err)
	}

	purged := maintainer.PurgeCache()
	removed, err := maintainer.DeleteExpiredPasswordResets(ctx)
	if err != nil {
		return nil, err
	}

	existingResult.Data = &CleanupTaskData{
		CacheEntriesPurged: purged,
		ExpiredOTPsRemoved: removed,
	}
	return existingResult, nil
}

// Scheduler periodically submits the recurring maintenance tasks. It lives
// beside the manager rather than inside it so tests can drive submissions
// directly.
type Scheduler struct {
	manager    TaskManager
	retrainer  Retrainer
	maintainer Maintainer
	cfg        *config.Config
	logger     logging.Logger
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewScheduler wires the recurring retrain and cleanup submissions
func NewScheduler(manager TaskManager, retrainer Retrainer, maintainer Maintainer, cfg *config.Config) *Scheduler {
	return &Scheduler{
		manager:    manager,
		retrainer:  retrainer,
		maintainer: maintainer,
		cfg:        cfg,
		logger:     logging.GetGlobalLogger().WithField("component", "scheduler"),
	}
}

// Start launches the periodic submission loops
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	if s.retrainer != nil && s.cfg.Chatbot.RetrainInterval > 0 {
		s.wg.Add(1)
		go s.loop(ctx, s.cfg.Chatbot.RetrainInterval, func() {
			if err := s.manager.SubmitRetrainTask(ctx, utils.GenerateRequestID(), s.retrainer); err != nil {
				s.logger.Warn("retrain submission failed", map[string]interface{}{"error": err.Error()})
			}
		})
	}

	if s.maintainer != nil && s.cfg.BackgroundTasks.CleanupInterval > 0 {
		s.wg.Add(1)
		go s.loop(ctx, s.cfg.BackgroundTasks.CleanupInterval, func() {
			if err := s.manager.SubmitCleanupTask(ctx, utils.GenerateRequestID(), s.maintainer); err != nil {
				s.logger.Warn("cleanup submission failed", map[string]interface{}{"error": err.Error()})
			}
		})
	}
}

// Stop halts the submission loops
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, submit func()) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			submit()
		}
	}
}
