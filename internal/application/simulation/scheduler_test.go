package simulation_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/adapters/host"
	"github.com/andrescamacho/colony-go/internal/application/common"
	"github.com/andrescamacho/colony-go/internal/application/logistics"
	"github.com/andrescamacho/colony-go/internal/application/simulation"
	"github.com/andrescamacho/colony-go/internal/domain/agent"
	"github.com/andrescamacho/colony-go/internal/domain/agent/roles"
	"github.com/andrescamacho/colony-go/internal/domain/colony"
	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/production"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/structure"
)

// memoryStates is an in-memory RoomStateRepository
type memoryStates struct {
	mu    sync.Mutex
	saved map[string]common.RoomState
	saves int
}

func newMemoryStates() *memoryStates {
	return &memoryStates{saved: make(map[string]common.RoomState)}
}

func (m *memoryStates) Save(_ context.Context, tick int64, snap colony.RoomSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[snap.Name] = common.RoomState{Tick: tick, UpdatedAt: time.Now(), Snapshot: snap}
	m.saves++
	return nil
}

func (m *memoryStates) Load(_ context.Context, room string) (*colony.RoomSnapshot, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.saved[room]
	if !ok {
		return nil, 0, nil
	}
	snap := state.Snapshot
	return &snap, state.Tick, nil
}

func (m *memoryStates) List(context.Context) ([]common.RoomState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]common.RoomState, 0, len(m.saved))
	for _, s := range m.saved {
		out = append(out, s)
	}
	return out, nil
}

type advisory struct {
	room, source, level, message string
}

type memoryAdvisories struct {
	mu      sync.Mutex
	records []advisory
}

func (m *memoryAdvisories) Record(_ context.Context, room, source, level, message string, _ map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, advisory{room, source, level, message})
	return nil
}

type levelLogger struct {
	mu      sync.Mutex
	entries []advisory
}

func (l *levelLogger) Log(level, message string, _ map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, advisory{level: level, message: message})
}

func (l *levelLogger) count(level, message string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level && e.message == message {
			n++
		}
	}
	return n
}

type logisticsFixture struct {
	colony    *colony.Colony
	world     *host.World
	storage   *structure.Store
	link      *host.Structure
	states    *memoryStates
	scheduler *simulation.Scheduler
}

// newLogisticsFixture builds one room where a link next to storage is
// drained by center transfer agents parked between the two
func newLogisticsFixture(t *testing.T, capacities map[string]int) *logisticsFixture {
	t.Helper()
	c := colony.New()
	world := host.NewWorld()
	storage := structure.NewStore(structure.Unlimited)
	require.NoError(t, c.Add(colony.NewRoom("W1N1", "storage", storage, nil)))

	_, err := world.BindStructure(host.StructureSpec{ID: "storage", Room: "W1N1", Kind: agent.KindStorage, Pos: agent.Position{X: 10, Y: 10}}, storage)
	require.NoError(t, err)
	link, err := world.AddStructure(host.StructureSpec{ID: "link", Room: "W1N1", Kind: agent.KindLink, Pos: agent.Position{X: 12, Y: 10}, Capacity: 800})
	require.NoError(t, err)

	registry := roles.NewRegistry()
	anchor := agent.Position{X: 11, Y: 10}
	for name, capacity := range capacities {
		role, err := registry.Build(roles.Deps{Host: world, Board: c.TaskBoard()}, roles.Spec{Role: roles.CenterTransferName, Anchor: anchor, HomeID: "storage"})
		require.NoError(t, err)
		_, err = world.AddCreep(name, "W1N1", capacity, anchor, role)
		require.NoError(t, err)
	}

	planner := logistics.NewPlanner(world, []logistics.DrainRule{{
		Room: "W1N1", SourceID: "link", TargetID: "storage", Resource: compound.Energy, Threshold: 500,
	}}, nil)
	states := newMemoryStates()
	sched := simulation.NewScheduler(c, world, planner, states, &memoryAdvisories{}, simulation.Config{SnapshotEvery: 2})

	return &logisticsFixture{colony: c, world: world, storage: storage, link: link, states: states, scheduler: sched}
}

func TestScheduler_TwoAgentsCompleteTaskExactly(t *testing.T) {
	f := newLogisticsFixture(t, map[string]int{"A": 300, "B": 200})
	_, err := f.link.Store().Add(compound.Energy, 500)
	require.NoError(t, err)

	var retired bool
	for i := 0; i < 6 && !retired; i++ {
		report, err := f.scheduler.Tick(context.Background())
		require.NoError(t, err)
		if done := report.Rooms[0].Planner.Retired; done != nil {
			retired = true
			assert.Equal(t, 500, done.CompletedAmount())
			assert.Equal(t, 500, done.Amount())
		}
	}

	require.True(t, retired)
	assert.Equal(t, 500, f.storage.Amount(compound.Energy))
	assert.Equal(t, 0, f.link.Store().Amount(compound.Energy))
	for _, name := range []string{"A", "B"} {
		creep, ok := f.world.Creep(name)
		require.True(t, ok)
		assert.Equal(t, 0, creep.CarriedTotal(), name)
	}
}

func TestScheduler_SurplusCargoIsNeverOverReported(t *testing.T) {
	f := newLogisticsFixture(t, map[string]int{"A": 400, "B": 400})
	_, err := f.link.Store().Add(compound.Energy, 500)
	require.NoError(t, err)
	_, err = f.scheduler.Tick(context.Background())
	require.NoError(t, err)

	// more energy arrives after the 500 task was published
	_, err = f.link.Store().Add(compound.Energy, 300)
	require.NoError(t, err)

	var completed []int
	for i := 0; i < 8; i++ {
		report, err := f.scheduler.Tick(context.Background())
		require.NoError(t, err)
		if done := report.Rooms[0].Planner.Retired; done != nil {
			completed = append(completed, done.CompletedAmount())
		}
	}

	assert.Equal(t, []int{500}, completed)
	// the surplus is stashed back into storage rather than reported
	assert.Equal(t, 800, f.storage.Amount(compound.Energy))
}

func TestScheduler_PersistsSnapshotsEveryNTicks(t *testing.T) {
	f := newLogisticsFixture(t, map[string]int{"A": 300})

	for i := 0; i < 5; i++ {
		_, err := f.scheduler.Tick(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 2, f.states.saves)
	snap, tick, err := f.states.Load(context.Background(), "W1N1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, int64(4), tick)
	assert.Equal(t, int64(5), f.scheduler.CurrentTick())
}

func TestScheduler_RestoreResumesTaskProgressAndTick(t *testing.T) {
	f := newLogisticsFixture(t, map[string]int{"A": 300, "B": 200})
	_, err := f.link.Store().Add(compound.Energy, 500)
	require.NoError(t, err)

	// publish, then let both agents withdraw
	for i := 0; i < 2; i++ {
		_, err := f.scheduler.Tick(context.Background())
		require.NoError(t, err)
	}
	require.NoError(t, f.colony.WithRoom("W1N1", func(r *colony.Room) error {
		require.True(t, r.Board().HasActive())
		return nil
	}))

	restoredStorage := structure.NewStore(structure.Unlimited)
	_, err = restoredStorage.Add(compound.Energy, 42)
	require.NoError(t, err)
	f.states.saved["W1N1"] = common.RoomState{Tick: 2, Snapshot: f.snapshotWithStorage(t, restoredStorage)}

	n, err := f.scheduler.Restore(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	view, ok := f.world.StoreOf("storage")
	require.True(t, ok)
	assert.Equal(t, 42, view.Amount(compound.Energy))

	_, err = f.scheduler.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), f.scheduler.CurrentTick())
	view, _ = f.world.StoreOf("storage")
	assert.Equal(t, 542, view.Amount(compound.Energy))
}

func (f *logisticsFixture) snapshotWithStorage(t *testing.T, store *structure.Store) colony.RoomSnapshot {
	t.Helper()
	var snap colony.RoomSnapshot
	require.NoError(t, f.colony.WithRoom("W1N1", func(r *colony.Room) error {
		snap = r.Snapshot()
		return nil
	}))
	snap.Stock = make(map[string]int)
	for c, n := range store.Contents() {
		snap.Stock[string(c)] = n
	}
	return snap
}

func TestScheduler_RunStopsAfterMaxTicks(t *testing.T) {
	c := colony.New()
	require.NoError(t, c.Add(colony.NewRoom("W1N1", "storage", structure.NewStore(structure.Unlimited), nil)))
	world := host.NewWorld()
	sched := simulation.NewScheduler(c, world, logistics.NewPlanner(world, nil, nil), nil, nil, simulation.Config{
		TickInterval: time.Millisecond,
		MaxTicks:     3,
	})

	require.NoError(t, sched.Run(context.Background()))
	assert.Equal(t, int64(3), sched.CurrentTick())
}

func TestScheduler_RunReturnsOnCancel(t *testing.T) {
	c := colony.New()
	world := host.NewWorld()
	sched := simulation.NewScheduler(c, world, logistics.NewPlanner(world, nil, nil), nil, nil, simulation.Config{TickInterval: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, sched.Run(ctx))
}

// brokenRole fails with whatever error it was given
type brokenRole struct {
	err error
}

func (r brokenRole) Name() string                               { return "broken" }
func (r brokenRole) BodyType() string                           { return "none" }
func (r brokenRole) IsDelivering(agent.Agent) bool              { return false }
func (r brokenRole) Deliver(context.Context, agent.Agent) error { return nil }
func (r brokenRole) Acquire(context.Context, agent.Agent) error { return r.err }

func TestScheduler_InvariantViolationsStopTheTick(t *testing.T) {
	c := colony.New()
	require.NoError(t, c.Add(colony.NewRoom("W1N1", "storage", structure.NewStore(structure.Unlimited), nil)))
	world := host.NewWorld()
	_, err := world.AddCreep("bad", "W1N1", 10, agent.Position{}, brokenRole{err: shared.NewInvariantViolation("cargo", "negative")})
	require.NoError(t, err)
	sched := simulation.NewScheduler(c, world, logistics.NewPlanner(world, nil, nil), nil, nil, simulation.Config{})

	_, err = sched.Tick(context.Background())

	assert.True(t, shared.IsInvariantViolation(err))
}

func TestScheduler_LogicalErrorsBecomeAdvisories(t *testing.T) {
	c := colony.New()
	require.NoError(t, c.Add(colony.NewRoom("W1N1", "storage", structure.NewStore(structure.Unlimited), nil)))
	world := host.NewWorld()
	_, err := world.AddCreep("bad", "W1N1", 10, agent.Position{}, brokenRole{err: assert.AnError})
	require.NoError(t, err)
	advisories := &memoryAdvisories{}
	sched := simulation.NewScheduler(c, world, logistics.NewPlanner(world, nil, nil), nil, advisories, simulation.Config{})

	_, err = sched.Tick(context.Background())

	require.NoError(t, err)
	require.Len(t, advisories.records, 1)
	assert.Equal(t, "bad", advisories.records[0].source)
	assert.Equal(t, common.LevelError, advisories.records[0].level)
}

func TestScheduler_FacilityProducesThroughLogistics(t *testing.T) {
	c := colony.New()
	world := host.NewWorld()
	resolver := compound.NewDefaultResolver()

	plan, err := production.NewPlan([]production.TargetEntry{{Target: compound.Hydroxide, Number: 100}}, resolver)
	require.NoError(t, err)
	gate := production.NewReserveGate(production.ReserveThresholds{compound.Hydrogen: 100, compound.Oxygen: 100}, resolver)
	facility, err := production.NewFacility(production.FacilityConfig{ID: "lab-1", BatchSize: 100, ReactionAmount: 10}, plan, resolver, gate)
	require.NoError(t, err)

	storage := structure.NewStore(structure.Unlimited)
	_, err = storage.Add(compound.Hydrogen, 1000)
	require.NoError(t, err)
	_, err = storage.Add(compound.Oxygen, 1000)
	require.NoError(t, err)
	require.NoError(t, c.Add(colony.NewRoom("W1N1", "storage", storage, facility)))

	_, err = world.BindStructure(host.StructureSpec{ID: "storage", Room: "W1N1", Kind: agent.KindStorage, Pos: agent.Position{X: 10, Y: 10}}, storage)
	require.NoError(t, err)
	_, err = world.BindStructure(host.StructureSpec{ID: "lab-1", Room: "W1N1", Kind: agent.KindLab, Pos: agent.Position{X: 12, Y: 10}}, facility.Inputs())
	require.NoError(t, err)
	role := roles.NewCenterTransfer(world, c.TaskBoard(), agent.Position{X: 11, Y: 10}, "storage")
	_, err = world.AddCreep("mover", "W1N1", 50, agent.Position{X: 11, Y: 14}, role)
	require.NoError(t, err)

	sched := simulation.NewScheduler(c, world, logistics.NewPlanner(world, nil, nil), nil, nil, simulation.Config{})
	for i := 0; i < 100; i++ {
		_, err := sched.Tick(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 100, storage.Amount(compound.Hydroxide))
	assert.Equal(t, 900, storage.Amount(compound.Hydrogen))
	assert.Equal(t, 900, storage.Amount(compound.Oxygen))
	assert.Equal(t, production.StateSelectTarget, facility.State())
	assert.Equal(t, 0, facility.Inputs().Used())
}

func TestScheduler_CheckpointSavesEveryRoomAtCurrentTick(t *testing.T) {
	f := newLogisticsFixture(t, map[string]int{"A": 300})
	for i := 0; i < 3; i++ {
		_, err := f.scheduler.Tick(context.Background())
		require.NoError(t, err)
	}

	require.NoError(t, f.scheduler.Checkpoint(context.Background()))

	_, tick, err := f.states.Load(context.Background(), "W1N1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), tick)
}

func TestScheduler_IdleSpeechStaysOutOfInfoLog(t *testing.T) {
	f := newLogisticsFixture(t, map[string]int{"A": 300})
	advisories := &memoryAdvisories{}
	sched := simulation.NewScheduler(f.colony, f.world, logistics.NewPlanner(f.world, nil, nil), nil, advisories, simulation.Config{})
	logger := &levelLogger{}
	ctx := common.WithLogger(context.Background(), logger)

	for i := 0; i < 3; i++ {
		_, err := sched.Tick(ctx)
		require.NoError(t, err)
	}

	assert.Equal(t, 0, logger.count(common.LevelInfo, "no task"))
	assert.Equal(t, 3, logger.count(common.LevelDebug, "no task"))
	require.Len(t, advisories.records, 3)
	assert.Equal(t, common.LevelInfo, advisories.records[0].level)
	assert.Equal(t, "A", advisories.records[0].source)
}
