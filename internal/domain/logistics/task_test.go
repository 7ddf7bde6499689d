package logistics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/logistics"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

func newTask(t *testing.T, amount int) *logistics.Task {
	t.Helper()
	clock := shared.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	task, err := logistics.NewTask("storage", "terminal", compound.Energy, amount, clock)
	require.NoError(t, err)
	return task
}

func TestNewTask_Validation(t *testing.T) {
	cases := []struct {
		name     string
		source   string
		target   string
		resource compound.Compound
		amount   int
	}{
		{"empty source", "", "T", compound.Energy, 10},
		{"empty target", "S", "", compound.Energy, 10},
		{"same endpoints", "S", "S", compound.Energy, 10},
		{"empty resource", "S", "T", "", 10},
		{"zero amount", "S", "T", compound.Energy, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := logistics.NewTask(tc.source, tc.target, tc.resource, tc.amount, nil)
			var validation *shared.ValidationError
			assert.ErrorAs(t, err, &validation)
		})
	}
}

func TestTask_RecordAccumulatesExactly(t *testing.T) {
	task := newTask(t, 500)

	require.NoError(t, task.Record(120))
	require.NoError(t, task.Record(80))

	assert.Equal(t, 200, task.CompletedAmount())
	assert.Equal(t, 300, task.Remaining())
	assert.False(t, task.IsFulfilled())
}

func TestTask_RecordRejectsNonPositive(t *testing.T) {
	task := newTask(t, 100)

	var invalid *logistics.ErrInvalidProgress
	assert.ErrorAs(t, task.Record(0), &invalid)
	assert.ErrorAs(t, task.Record(-5), &invalid)
	assert.Equal(t, 0, task.CompletedAmount())
}

func TestTask_RecordAfterFulfilledIsRejected(t *testing.T) {
	task := newTask(t, 100)
	require.NoError(t, task.Record(100))

	err := task.Record(10)

	var fulfilled *logistics.ErrTaskFulfilled
	assert.ErrorAs(t, err, &fulfilled)
	assert.Equal(t, 100, task.CompletedAmount())
}

func TestTask_OverflowIsInvariantViolation(t *testing.T) {
	task := newTask(t, 100)
	require.NoError(t, task.Record(60))

	err := task.Record(50)

	assert.True(t, shared.IsInvariantViolation(err))
	assert.Equal(t, 60, task.CompletedAmount())
}

func TestTask_AccountingIsOrderIndependent(t *testing.T) {
	parts := []int{50, 125, 25, 200, 100}
	orders := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
		{3, 1, 4, 0, 2},
	}

	for _, order := range orders {
		task := newTask(t, 500)
		last := 0
		for _, i := range order {
			require.NoError(t, task.Record(parts[i]))
			assert.GreaterOrEqual(t, task.CompletedAmount(), last)
			assert.LessOrEqual(t, task.CompletedAmount(), task.Amount())
			last = task.CompletedAmount()
		}
		assert.Equal(t, 500, task.CompletedAmount(), "order %v", order)
		assert.True(t, task.IsFulfilled())
	}
}

func TestTaskFromData_RejectsOverCompleted(t *testing.T) {
	data := newTask(t, 100).ToData()
	data.CompletedAmount = 150

	_, err := logistics.TaskFromData(data)

	assert.True(t, shared.IsInvariantViolation(err))
}

func TestTaskFromData_PreservesProgress(t *testing.T) {
	task := newTask(t, 100)
	require.NoError(t, task.Record(40))

	restored, err := logistics.TaskFromData(task.ToData())

	require.NoError(t, err)
	assert.Equal(t, task.ID(), restored.ID())
	assert.Equal(t, 40, restored.CompletedAmount())
	assert.Equal(t, task.CreatedAt(), restored.CreatedAt())
}
