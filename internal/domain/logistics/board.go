package logistics

// Board is the single active-task slot of one room. It is not safe for
// concurrent use; the owning room serializes access.
type Board struct {
	active *Task
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{}
}

// RestoreBoard rebuilds a board holding the given task (nil for empty)
func RestoreBoard(task *Task) *Board {
	return &Board{active: task}
}

// Current returns a copy of the active task, or nil. Callers hold onto the
// id and report progress through Report, never by mutating the copy.
func (b *Board) Current() *Task {
	return b.active.Clone()
}

// HasActive reports whether a task is published, fulfilled or not
func (b *Board) HasActive() bool {
	return b.active != nil
}

// Publish installs task as the active one. An unfulfilled active task blocks publishing.
func (b *Board) Publish(task *Task) error {
	if b.active != nil && !b.active.IsFulfilled() {
		return &ErrTaskActive{ActiveID: b.active.id}
	}
	b.active = task
	return nil
}

// Report records moved units against taskID. Reports against anything other
// than the active, unfulfilled task are rejected without accounting.
func (b *Board) Report(taskID string, moved int) error {
	if b.active == nil {
		return ErrNoActiveTask
	}
	if b.active.id != taskID {
		return &ErrStaleTask{TaskID: taskID, ActiveID: b.active.id}
	}
	return b.active.Record(moved)
}

// Retire removes the active task if it is fulfilled and returns it
func (b *Board) Retire() (*Task, bool) {
	if b.active == nil || !b.active.IsFulfilled() {
		return nil, false
	}
	done := b.active
	b.active = nil
	return done, true
}

// Cancel drops the active task regardless of progress and returns it.
// Used by the planner when a task's endpoints no longer exist.
func (b *Board) Cancel() (*Task, bool) {
	if b.active == nil {
		return nil, false
	}
	dropped := b.active
	b.active = nil
	return dropped, true
}
