package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

func TestAdvisoryLogRepository_DeduplicatesWithinWindow(t *testing.T) {
	clock := shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := persistence.NewGormAdvisoryLogRepository(newTestDB(t), clock)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, "W1N1", "center-1", "INFO", "no task", nil))
	clock.Advance(10 * time.Second)
	require.NoError(t, repo.Record(ctx, "W1N1", "center-1", "INFO", "no task", nil))
	require.NoError(t, repo.Record(ctx, "W1N1", "center-2", "INFO", "no task", nil))
	clock.Advance(61 * time.Second)
	require.NoError(t, repo.Record(ctx, "W1N1", "center-1", "INFO", "no task", nil))

	entries, err := repo.Recent(ctx, "W1N1", 10, nil)

	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, "center-1", entries[0].Source)
}

func TestAdvisoryLogRepository_FiltersByLevelAndKeepsMetadata(t *testing.T) {
	repo := persistence.NewGormAdvisoryLogRepository(newTestDB(t), nil)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, "W1N1", "planner", "WARNING", "task cancelled", map[string]interface{}{"task_id": "abc"}))
	require.NoError(t, repo.Record(ctx, "W1N1", "lab-1", "INFO", "deposited", nil))
	require.NoError(t, repo.Record(ctx, "W2N2", "planner", "WARNING", "task cancelled", nil))

	level := "WARNING"
	entries, err := repo.Recent(ctx, "W1N1", 10, &level)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0].Metadata["task_id"])
}
