package setup_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/application/setup"
	"github.com/andrescamacho/colony-go/internal/application/simulation"
	"github.com/andrescamacho/colony-go/internal/domain/agent/roles"
	"github.com/andrescamacho/colony-go/internal/domain/colony"
	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/production"
	"github.com/andrescamacho/colony-go/internal/infrastructure/config"
)

func roomConfig() *config.Config {
	return &config.Config{
		Production: config.ProductionConfig{
			ReserveAmount:  1000,
			Reserve:        []config.StockConfig{{Compound: "X", Amount: 50}},
			BatchSize:      100,
			ReactionAmount: 5,
		},
		Simulation: config.SimulationConfig{
			TickInterval: time.Second,
			Rooms: []config.RoomConfig{{
				Name:         "W1N1",
				StorageID:    "W1N1-storage",
				StoragePos:   config.PositionConfig{X: 10, Y: 10},
				InitialStock: []config.StockConfig{{Compound: "H", Amount: 1200}, {Compound: "O", Amount: 1200}},
				Structures: []config.StructureConfig{{
					ID:       "link",
					Kind:     "link",
					Pos:      config.PositionConfig{X: 12, Y: 10},
					Capacity: 800,
					Inflow:   []config.StockConfig{{Compound: "energy", Amount: 100}},
				}},
				Agents: []config.AgentConfig{{
					Name:     "center-1",
					Role:     roles.CenterTransferName,
					Capacity: 100,
					Pos:      config.PositionConfig{X: 11, Y: 10},
					Anchor:   config.PositionConfig{X: 11, Y: 10},
				}},
				DrainRules: []config.DrainRuleConfig{{
					SourceID:  "link",
					TargetID:  "W1N1-storage",
					Resource:  "energy",
					Threshold: 400,
				}},
				Facility: &config.FacilitySiteConfig{ID: "lab-1", Pos: config.PositionConfig{X: 11, Y: 11}},
			}},
		},
	}
}

func TestColonyBuilder_BuildsRoomWorldAndAgents(t *testing.T) {
	rt, err := setup.NewColonyBuilder().Build(roomConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"W1N1"}, rt.Colony.Names())
	for _, id := range []string{"W1N1-storage", "link", "lab-1"} {
		_, ok := rt.World.Structure(id)
		assert.True(t, ok, id)
	}
	units := rt.World.Units("W1N1")
	require.Len(t, units, 1)
	assert.Equal(t, roles.CenterTransferName, units[0].Role.Name())

	require.NoError(t, rt.Colony.WithRoom("W1N1", func(room *colony.Room) error {
		assert.Equal(t, 1200, room.Storage().Amount(compound.Hydrogen))
		require.NotNil(t, room.Facility())
		lab, _ := rt.World.Structure("lab-1")
		assert.Same(t, room.Facility().Inputs(), lab.Store())
		return nil
	}))
}

func TestColonyBuilder_DefaultsToBuiltInPlan(t *testing.T) {
	plan, err := setup.NewColonyBuilder().BuildPlan(config.ProductionConfig{})

	require.NoError(t, err)
	assert.Equal(t, production.DefaultPlan(), plan.Entries())
}

func TestColonyBuilder_RejectsRawPlanTarget(t *testing.T) {
	_, err := setup.NewColonyBuilder().BuildPlan(config.ProductionConfig{
		Plan: []config.TargetConfig{{Target: "H", Number: 10}},
	})

	var invalid *production.ErrInvalidPlan
	assert.ErrorAs(t, err, &invalid)
}

func TestColonyBuilder_ThresholdOverrides(t *testing.T) {
	thresholds := setup.NewColonyBuilder().BuildThresholds(roomConfig().Production)

	assert.Equal(t, 1000, thresholds[compound.Hydrogen])
	assert.Equal(t, 50, thresholds[compound.Catalyst])
}

func TestColonyBuilder_UnknownRole(t *testing.T) {
	cfg := roomConfig()
	cfg.Simulation.Rooms[0].Agents[0].Role = "harvester"

	_, err := setup.NewColonyBuilder().Build(cfg)

	var unknown *roles.ErrUnknownRole
	assert.ErrorAs(t, err, &unknown)
}

func TestColonyBuilder_InitialStockOverCapacity(t *testing.T) {
	cfg := roomConfig()
	cfg.Simulation.Rooms[0].StorageCapacity = 2000

	_, err := setup.NewColonyBuilder().Build(cfg)

	assert.Error(t, err)
}

func TestColonyBuilder_RuntimeDrivesSchedulerEndToEnd(t *testing.T) {
	cfg := roomConfig()
	cfg.Production.Plan = []config.TargetConfig{{Target: "OH", Number: 100}}
	cfg.Simulation.Rooms[0].Structures[0].Inflow = nil
	rt, err := setup.NewColonyBuilder().Build(cfg)
	require.NoError(t, err)

	sched := simulation.NewScheduler(rt.Colony, rt.World, rt.Planner, nil, nil, simulation.Config{})
	for i := 0; i < 200; i++ {
		_, err := sched.Tick(context.Background())
		require.NoError(t, err)
	}

	require.NoError(t, rt.Colony.WithRoom("W1N1", func(room *colony.Room) error {
		assert.Equal(t, 100, room.Storage().Amount(compound.Hydroxide))
		assert.Equal(t, 1100, room.Storage().Amount(compound.Hydrogen))
		return nil
	}))
}
