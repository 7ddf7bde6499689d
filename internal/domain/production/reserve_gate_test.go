package production_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/production"
)

func TestReserveGate_Boundary(t *testing.T) {
	gate := production.NewReserveGate(production.ReserveThresholds{compound.Oxygen: 1000}, compound.NewDefaultResolver())

	cases := []struct {
		name    string
		amount  int
		stock   int
		allowed bool
	}{
		{"leaves exactly the threshold", 500, 1500, false},
		{"leaves one above the threshold", 499, 1500, true},
		{"leaves one below the threshold", 501, 1500, false},
		{"stock already below threshold", 10, 900, false},
		{"zero amount at threshold", 0, 1000, false},
		{"zero amount above threshold", 0, 1001, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, gate.CanConsume(compound.Oxygen, tc.amount, tc.stock))
		})
	}
}

func TestReserveGate_NoThresholdAlwaysAllows(t *testing.T) {
	gate := production.NewReserveGate(production.ReserveThresholds{compound.Oxygen: 1000}, compound.NewDefaultResolver())

	assert.True(t, gate.CanConsume(compound.Hydrogen, 5000, 0))
}

func TestReserveGate_IntermediatesAreNeverGated(t *testing.T) {
	gate := production.NewReserveGate(production.ReserveThresholds{
		compound.Hydroxide: 1000,
		compound.Ghodium:   5000,
	}, compound.NewDefaultResolver())

	assert.True(t, gate.CanConsume(compound.Hydroxide, 500, 600))
	assert.True(t, gate.CanConsume(compound.Ghodium, 100, 100))
	_, ok := gate.Threshold(compound.Ghodium)
	assert.False(t, ok)
}

func TestDefaultReserveThresholds(t *testing.T) {
	thresholds := production.DefaultReserveThresholds()

	for _, c := range []compound.Compound{"H", "O", "U", "L", "K", "Z", "X"} {
		assert.Equal(t, 40000, thresholds[c], c)
	}
	assert.NotContains(t, thresholds, compound.Energy)
	// ghodium is synthesized here, so a threshold for it would never apply
	assert.NotContains(t, thresholds, compound.Ghodium)
	assert.False(t, compound.NewDefaultResolver().IsRaw(compound.Ghodium))
}
