package background

import (
	"time"

	"github.com/REHANAMD/InternGenie/internal/logging"
	"github.com/REHANAMD/InternGenie/pkg/utils"
)

// TaskCompletionLogger emits the lifecycle log lines of background tasks
// in a consistent shape, so task progress can be grepped out of the
// structured stream.
type TaskCompletionLogger struct {
	logger logging.Logger
}

// NewTaskCompletionLogger creates a task lifecycle logger
func NewTaskCompletionLogger() *TaskCompletionLogger {
	return &TaskCompletionLogger{
		logger: logging.GetGlobalLogger().WithField("component", "background"),
	}
}

// LogTaskAccepted records that a task entered the queue
func (l *TaskCompletionLogger) LogTaskAccepted(processID string, taskType TaskType) {
	l.logger.Info("Task accepted", map[string]interface{}{
		"process_id": processID,
		"task_type":  string(taskType),
		"status":     string(TaskStatusAccepted),
	})
}

// LogTaskStart records that a worker picked a task up
func (l *TaskCompletionLogger) LogTaskStart(processID string, taskType TaskType) {
	l.logger.Info("Task processing started", map[string]interface{}{
		"process_id": processID,
		"task_type":  string(taskType),
		"status":     string(TaskStatusProcessing),
	})
}

// LogTaskSuccess records a completed task with its duration
func (l *TaskCompletionLogger) LogTaskSuccess(processID string, taskType TaskType, processingTime time.Duration) {
	l.logger.Info("Task completed", map[string]interface{}{
		"process_id":      processID,
		"task_type":       string(taskType),
		"status":          string(TaskStatusSuccess),
		"processing_time": utils.FormatDuration(processingTime),
	})
}

// LogTaskError records a failed task
func (l *TaskCompletionLogger) LogTaskError(processID string, taskType TaskType, err error) {
	l.logger.Error("Task failed", map[string]interface{}{
		"process_id": processID,
		"task_type":  string(taskType),
		"status":     string(TaskStatusFailure),
		"error":      err.Error(),
	})
}
