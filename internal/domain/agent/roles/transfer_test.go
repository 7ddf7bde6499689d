package roles_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/domain/agent"
	"github.com/andrescamacho/colony-go/internal/domain/agent/agenttest"
	"github.com/andrescamacho/colony-go/internal/domain/agent/roles"
	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/structure"
)

func TestTransfer_RefillsClosestConsumer(t *testing.T) {
	storage := structure.NewStore(structure.Unlimited)
	_, err := storage.Add(compound.Energy, 1000)
	require.NoError(t, err)
	near := structure.NewStore(50)
	far := structure.NewStore(50)
	full := structure.NewStore(50)
	_, err = full.Add(compound.Energy, 50)
	require.NoError(t, err)

	host := agenttest.NewHost(
		&agenttest.Structure{ID: "storage", Kind: agent.KindStorage, Pos: agent.Position{X: 5, Y: 5}, Store: storage},
		&agenttest.Structure{ID: "ext-full", Kind: agent.KindExtension, Pos: agent.Position{X: 6, Y: 6}, Store: full},
		&agenttest.Structure{ID: "ext-near", Kind: agent.KindExtension, Pos: agent.Position{X: 8, Y: 5}, Store: near},
		&agenttest.Structure{ID: "tower-far", Kind: agent.KindTower, Pos: agent.Position{X: 20, Y: 20}, Store: far},
	)
	engine := agent.NewEngine()
	a := agenttest.NewAgent("filler", "W1N1", roles.TransferName, 100)
	a.Pos = agent.Position{X: 4, Y: 5}
	unit := agent.Unit{Agent: a, Role: roles.NewTransfer(host, "storage")}

	// withdraw from storage
	res := engine.Step(context.Background(), unit)
	require.NoError(t, res.Err)
	assert.Equal(t, 100, a.Carried(compound.Energy))

	// out of range of ext-near: walk there
	res = engine.Step(context.Background(), unit)
	require.NoError(t, res.Err)
	assert.Equal(t, agent.PhaseDelivering, res.Phase)
	assert.Contains(t, host.Moves, "ext-near")

	// fill it
	engine.Step(context.Background(), unit)
	assert.Equal(t, 50, near.Amount(compound.Energy))
	assert.Equal(t, 50, a.Carried(compound.Energy))
	assert.Equal(t, 50, full.Amount(compound.Energy))
}

func TestTransfer_EmptySourceWaits(t *testing.T) {
	host := agenttest.NewHost(
		&agenttest.Structure{ID: "storage", Kind: agent.KindStorage, Store: structure.NewStore(structure.Unlimited)},
	)
	a := agenttest.NewAgent("filler", "W1N1", roles.TransferName, 100)

	res := agent.NewEngine().Step(context.Background(), agent.Unit{Agent: a, Role: roles.NewTransfer(host, "storage")})

	require.NoError(t, res.Err)
	assert.Empty(t, a.Said)
	assert.Equal(t, 0, a.CarriedTotal())
}

func TestRegistry_Build(t *testing.T) {
	registry := roles.NewRegistry()
	deps := roles.Deps{Host: agenttest.NewHost(), Board: agenttest.NewBoard()}

	role, err := registry.Build(deps, roles.Spec{Role: roles.TransferName, SourceID: "storage"})
	require.NoError(t, err)
	assert.Equal(t, roles.TransferName, role.Name())

	role, err = registry.Build(deps, roles.Spec{Role: roles.CenterTransferName, Anchor: agent.Position{X: 1, Y: 1}})
	require.NoError(t, err)
	_, isPreparer := role.(agent.Preparer)
	assert.True(t, isPreparer)

	_, err = registry.Build(deps, roles.Spec{Role: "harvester"})
	var unknown *roles.ErrUnknownRole
	assert.ErrorAs(t, err, &unknown)

	assert.Equal(t, []string{roles.CenterTransferName, roles.TransferName}, registry.Names())
}
