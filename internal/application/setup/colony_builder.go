// Package setup turns configuration into a wired colony: rooms, facilities,
// host structures, agents and the logistics planner.
package setup

import (
	"fmt"

	"github.com/andrescamacho/colony-go/internal/adapters/host"
	"github.com/andrescamacho/colony-go/internal/application/logistics"
	"github.com/andrescamacho/colony-go/internal/domain/agent"
	"github.com/andrescamacho/colony-go/internal/domain/agent/roles"
	"github.com/andrescamacho/colony-go/internal/domain/colony"
	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/production"
	"github.com/andrescamacho/colony-go/internal/domain/structure"
	"github.com/andrescamacho/colony-go/internal/infrastructure/config"
)

// ColonyRuntime holds everything the scheduler and the CLI need
type ColonyRuntime struct {
	Colony     *colony.Colony
	World      *host.World
	Planner    *logistics.Planner
	Resolver   *compound.Resolver
	Plan       *production.Plan
	Gate       *production.ReserveGate
	Facilities colony.FacilityFactory
}

// ColonyBuilder maps configuration onto domain objects
type ColonyBuilder struct {
	resolver *compound.Resolver
	roles    *roles.Registry
}

// NewColonyBuilder creates a builder with the default reaction table and
// the built-in roles
func NewColonyBuilder() *ColonyBuilder {
	return &ColonyBuilder{
		resolver: compound.NewDefaultResolver(),
		roles:    roles.NewRegistry(),
	}
}

// Roles exposes the role registry so callers can register custom roles
func (b *ColonyBuilder) Roles() *roles.Registry {
	return b.roles
}

// BuildPlan returns the configured plan, or the built-in one when none is set
func (b *ColonyBuilder) BuildPlan(cfg config.ProductionConfig) (*production.Plan, error) {
	entries := production.DefaultPlan()
	if len(cfg.Plan) > 0 {
		entries = make([]production.TargetEntry, 0, len(cfg.Plan))
		for _, t := range cfg.Plan {
			entries = append(entries, production.TargetEntry{Target: compound.Compound(t.Target), Number: t.Number})
		}
	}
	plan, err := production.NewPlan(entries, b.resolver)
	if err != nil {
		return nil, fmt.Errorf("invalid production plan: %w", err)
	}
	return plan, nil
}

// BuildThresholds applies ReserveAmount to every mineral, then the overrides
func (b *ColonyBuilder) BuildThresholds(cfg config.ProductionConfig) production.ReserveThresholds {
	thresholds := production.DefaultReserveThresholds()
	for c := range thresholds {
		thresholds[c] = cfg.ReserveAmount
	}
	for _, r := range cfg.Reserve {
		thresholds[compound.Compound(r.Compound)] = r.Amount
	}
	return thresholds
}

// Build wires every configured room
func (b *ColonyBuilder) Build(cfg *config.Config) (*ColonyRuntime, error) {
	plan, err := b.BuildPlan(cfg.Production)
	if err != nil {
		return nil, err
	}
	gate := production.NewReserveGate(b.BuildThresholds(cfg.Production), b.resolver)

	facilityConfig := func(id string) production.FacilityConfig {
		return production.FacilityConfig{
			ID:             id,
			BatchSize:      cfg.Production.BatchSize,
			ReactionAmount: cfg.Production.ReactionAmount,
			InputCapacity:  cfg.Production.InputCapacity,
		}
	}

	rt := &ColonyRuntime{
		Colony:   colony.New(),
		World:    host.NewWorld(),
		Resolver: b.resolver,
		Plan:     plan,
		Gate:     gate,
		Facilities: func(snap production.FacilitySnapshot) (*production.Facility, error) {
			return production.RestoreFacility(snap, facilityConfig(snap.ID), plan, b.resolver, gate)
		},
	}

	var rules []logistics.DrainRule
	for _, rc := range cfg.Simulation.Rooms {
		if err := b.buildRoom(rt, rc, facilityConfig); err != nil {
			return nil, fmt.Errorf("room %s: %w", rc.Name, err)
		}
		for _, dr := range rc.DrainRules {
			rules = append(rules, logistics.DrainRule{
				Room:      rc.Name,
				SourceID:  dr.SourceID,
				TargetID:  dr.TargetID,
				Resource:  compound.Compound(dr.Resource),
				Threshold: dr.Threshold,
			})
		}
	}
	rt.Planner = logistics.NewPlanner(rt.World, rules, nil).WithReserveGate(rt.Gate)

	deps := roles.Deps{Host: rt.World, Board: rt.Colony.TaskBoard()}
	for _, rc := range cfg.Simulation.Rooms {
		for _, ac := range rc.Agents {
			if err := b.spawnAgent(rt.World, deps, rc, ac); err != nil {
				return nil, fmt.Errorf("room %s: %w", rc.Name, err)
			}
		}
	}
	return rt, nil
}

func (b *ColonyBuilder) buildRoom(rt *ColonyRuntime, rc config.RoomConfig, facilityConfig func(string) production.FacilityConfig) error {
	storage := structure.NewStore(rc.StorageCapacity)
	if err := fill(storage, rc.InitialStock); err != nil {
		return err
	}

	var facility *production.Facility
	if rc.Facility != nil {
		f, err := production.NewFacility(facilityConfig(rc.Facility.ID), rt.Plan, b.resolver, rt.Gate)
		if err != nil {
			return fmt.Errorf("facility %s: %w", rc.Facility.ID, err)
		}
		_, err = rt.World.BindStructure(host.StructureSpec{
			ID:   rc.Facility.ID,
			Room: rc.Name,
			Kind: agent.KindLab,
			Pos:  position(rc.Facility.Pos),
		}, f.Inputs())
		if err != nil {
			return err
		}
		facility = f
	}

	if err := rt.Colony.Add(colony.NewRoom(rc.Name, rc.StorageID, storage, facility)); err != nil {
		return err
	}
	_, err := rt.World.BindStructure(host.StructureSpec{
		ID:   rc.StorageID,
		Room: rc.Name,
		Kind: agent.KindStorage,
		Pos:  position(rc.StoragePos),
	}, storage)
	if err != nil {
		return err
	}

	for _, sc := range rc.Structures {
		s, err := rt.World.AddStructure(host.StructureSpec{
			ID:       sc.ID,
			Room:     rc.Name,
			Kind:     agent.StructureKind(sc.Kind),
			Pos:      position(sc.Pos),
			Capacity: sc.Capacity,
			Inflow:   flows(sc.Inflow),
			Drain:    flows(sc.Drain),
		})
		if err != nil {
			return err
		}
		if err := fill(s.Store(), sc.Stock); err != nil {
			return fmt.Errorf("structure %s: %w", sc.ID, err)
		}
	}
	return nil
}

func (b *ColonyBuilder) spawnAgent(world *host.World, deps roles.Deps, rc config.RoomConfig, ac config.AgentConfig) error {
	spec := roles.Spec{
		Role:     ac.Role,
		SourceID: ac.SourceID,
		HomeID:   ac.HomeID,
		Anchor:   position(ac.Anchor),
	}
	if spec.SourceID == "" {
		spec.SourceID = rc.StorageID
	}
	if spec.HomeID == "" {
		spec.HomeID = rc.StorageID
	}
	role, err := b.roles.Build(deps, spec)
	if err != nil {
		return fmt.Errorf("agent %s: %w", ac.Name, err)
	}
	_, err = world.AddCreep(ac.Name, rc.Name, ac.Capacity, position(ac.Pos), role)
	return err
}

func position(p config.PositionConfig) agent.Position {
	return agent.Position{X: p.X, Y: p.Y}
}

func flows(in []config.StockConfig) map[compound.Compound]int {
	out := make(map[compound.Compound]int, len(in))
	for _, s := range in {
		out[compound.Compound(s.Compound)] += s.Amount
	}
	return out
}

func fill(store *structure.Store, stock []config.StockConfig) error {
	for _, s := range stock {
		if s.Amount == 0 {
			continue
		}
		added, err := store.Add(compound.Compound(s.Compound), s.Amount)
		if err != nil {
			return err
		}
		if added < s.Amount {
			return fmt.Errorf("%d %s exceeds capacity %d", s.Amount, s.Compound, store.Capacity())
		}
	}
	return nil
}
