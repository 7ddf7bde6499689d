package structure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/structure"
)

func TestStore_AddIsBoundedByCapacity(t *testing.T) {
	store := structure.NewStore(100)

	accepted, err := store.Add(compound.Oxygen, 70)
	require.NoError(t, err)
	assert.Equal(t, 70, accepted)

	accepted, err = store.Add(compound.Hydrogen, 50)
	require.NoError(t, err)
	assert.Equal(t, 30, accepted)

	assert.Equal(t, 100, store.Used())
	assert.Equal(t, 0, store.Free())
}

func TestStore_RemoveNeverGoesNegative(t *testing.T) {
	store := structure.NewStore(structure.Unlimited)
	_, err := store.Add(compound.Keanium, 20)
	require.NoError(t, err)

	removed, err := store.Remove(compound.Keanium, 50)

	require.NoError(t, err)
	assert.Equal(t, 20, removed)
	assert.Equal(t, 0, store.Amount(compound.Keanium))
	assert.Empty(t, store.Compounds())
}

func TestStore_NegativeAmountsAreInvariantViolations(t *testing.T) {
	store := structure.NewStore(10)

	_, err := store.Add(compound.Oxygen, -1)
	assert.True(t, shared.IsInvariantViolation(err))

	_, err = store.Remove(compound.Oxygen, -1)
	assert.True(t, shared.IsInvariantViolation(err))
}

func TestRestoreStore(t *testing.T) {
	store, err := structure.RestoreStore(500, map[compound.Compound]int{
		compound.Oxygen:   200,
		compound.Hydrogen: 0,
	})

	require.NoError(t, err)
	assert.Equal(t, 200, store.Amount(compound.Oxygen))
	assert.Equal(t, []compound.Compound{compound.Oxygen}, store.Compounds())

	_, err = structure.RestoreStore(100, map[compound.Compound]int{compound.Oxygen: 200})
	assert.True(t, shared.IsInvariantViolation(err))
}

func TestStore_UnlimitedFree(t *testing.T) {
	store := structure.NewStore(structure.Unlimited)

	accepted, err := store.Add(compound.Energy, 1_000_000)

	require.NoError(t, err)
	assert.Equal(t, 1_000_000, accepted)
	assert.Equal(t, -1, store.Free())
}
