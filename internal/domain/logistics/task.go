package logistics

import (
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// Task is one bulk transfer job between two structures. Endpoints, resource
// and amount never change after creation; completedAmount only grows and
// never exceeds amount.
type Task struct {
	id              string
	sourceID        string
	targetID        string
	resourceType    compound.Compound
	amount          int
	completedAmount int
	createdAt       time.Time
}

// NewTask creates a task with a fresh id
func NewTask(sourceID, targetID string, resource compound.Compound, amount int, clock shared.Clock) (*Task, error) {
	if sourceID == "" {
		return nil, shared.NewValidationError("sourceID", "must not be empty")
	}
	if targetID == "" {
		return nil, shared.NewValidationError("targetID", "must not be empty")
	}
	if sourceID == targetID {
		return nil, shared.NewValidationError("targetID", "must differ from sourceID")
	}
	if resource == "" {
		return nil, shared.NewValidationError("resourceType", "must not be empty")
	}
	if amount <= 0 {
		return nil, shared.NewValidationError("amount", "must be positive")
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &Task{
		id:           uuid.New().String(),
		sourceID:     sourceID,
		targetID:     targetID,
		resourceType: resource,
		amount:       amount,
		createdAt:    clock.Now(),
	}, nil
}

// Getters

func (t *Task) ID() string                      { return t.id }
func (t *Task) SourceID() string                { return t.sourceID }
func (t *Task) TargetID() string                { return t.targetID }
func (t *Task) ResourceType() compound.Compound { return t.resourceType }
func (t *Task) Amount() int                     { return t.amount }
func (t *Task) CompletedAmount() int            { return t.completedAmount }
func (t *Task) CreatedAt() time.Time            { return t.createdAt }

// Remaining returns how much is still to be delivered
func (t *Task) Remaining() int {
	if t.completedAmount >= t.amount {
		return 0
	}
	return t.amount - t.completedAmount
}

// IsFulfilled returns true once completedAmount reached amount
func (t *Task) IsFulfilled() bool {
	return t.completedAmount >= t.amount
}

// Record adds exactly moved units of progress
func (t *Task) Record(moved int) error {
	if moved <= 0 {
		return &ErrInvalidProgress{Amount: moved}
	}
	if t.IsFulfilled() {
		return &ErrTaskFulfilled{TaskID: t.id}
	}
	if t.completedAmount+moved > t.amount {
		return shared.NewInvariantViolation("logistics task "+t.id,
			"progress %d+%d exceeds amount %d", t.completedAmount, moved, t.amount)
	}
	t.completedAmount += moved
	return nil
}

// Clone returns an independent copy
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// TaskData is the DTO for persisting tasks
type TaskData struct {
	ID              string    `json:"id"`
	SourceID        string    `json:"sourceId"`
	TargetID        string    `json:"targetId"`
	ResourceType    string    `json:"resourceType"`
	Amount          int       `json:"amount"`
	CompletedAmount int       `json:"completedAmount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToData converts the task to a DTO for persistence
func (t *Task) ToData() *TaskData {
	return &TaskData{
		ID:              t.id,
		SourceID:        t.sourceID,
		TargetID:        t.targetID,
		ResourceType:    string(t.resourceType),
		Amount:          t.amount,
		CompletedAmount: t.completedAmount,
		CreatedAt:       t.createdAt,
	}
}

// TaskFromData rebuilds a task from a DTO, rejecting data that breaks task invariants
func TaskFromData(data *TaskData) (*Task, error) {
	if data.ID == "" || data.SourceID == "" || data.TargetID == "" || data.ResourceType == "" {
		return nil, shared.NewInvariantViolation("logistics task", "incomplete persisted task %+v", *data)
	}
	if data.Amount <= 0 || data.CompletedAmount < 0 || data.CompletedAmount > data.Amount {
		return nil, shared.NewInvariantViolation("logistics task "+data.ID,
			"completed %d outside [0, %d]", data.CompletedAmount, data.Amount)
	}
	return &Task{
		id:              data.ID,
		sourceID:        data.SourceID,
		targetID:        data.TargetID,
		resourceType:    compound.Compound(data.ResourceType),
		amount:          data.Amount,
		completedAmount: data.CompletedAmount,
		createdAt:       data.CreatedAt,
	}, nil
}
