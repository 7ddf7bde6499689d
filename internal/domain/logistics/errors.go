package logistics

import (
	"errors"
	"fmt"
)

// ErrNoActiveTask is returned when progress is reported on a room without a task
var ErrNoActiveTask = errors.New("no active logistics task")

// ErrTaskActive indicates a publish was attempted while an unfulfilled task is still active
type ErrTaskActive struct {
	ActiveID string
}

func (e *ErrTaskActive) Error() string {
	return fmt.Sprintf("logistics task %s is still active", e.ActiveID)
}

// ErrStaleTask indicates progress was reported against a task that is no longer the active one
type ErrStaleTask struct {
	TaskID   string
	ActiveID string
}

func (e *ErrStaleTask) Error() string {
	if e.ActiveID == "" {
		return fmt.Sprintf("stale logistics task %s: no task is active", e.TaskID)
	}
	return fmt.Sprintf("stale logistics task %s: active task is %s", e.TaskID, e.ActiveID)
}

// ErrTaskFulfilled indicates progress was reported against a task that already reached its amount
type ErrTaskFulfilled struct {
	TaskID string
}

func (e *ErrTaskFulfilled) Error() string {
	return fmt.Sprintf("logistics task %s is already fulfilled", e.TaskID)
}

// ErrInvalidProgress indicates a non-positive progress report
type ErrInvalidProgress struct {
	Amount int
}

func (e *ErrInvalidProgress) Error() string {
	return fmt.Sprintf("invalid progress amount %d: must be positive", e.Amount)
}

// IsRejected reports whether err is one of the recoverable rejections a
// reporter may receive (stale, fulfilled, or missing task).
func IsRejected(err error) bool {
	if errors.Is(err, ErrNoActiveTask) {
		return true
	}
	var stale *ErrStaleTask
	var fulfilled *ErrTaskFulfilled
	return errors.As(err, &stale) || errors.As(err, &fulfilled)
}
