package logistics

import (
	"context"
	"fmt"

	"github.com/andrescamacho/colony-go/internal/domain/agent"
	"github.com/andrescamacho/colony-go/internal/domain/colony"
	"github.com/andrescamacho/colony-go/internal/domain/compound"
	domain "github.com/andrescamacho/colony-go/internal/domain/logistics"
	"github.com/andrescamacho/colony-go/internal/domain/production"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// DrainRule empties a structure into another once it holds at least Threshold
// of Resource, e.g. the center link into storage.
type DrainRule struct {
	Room      string            `mapstructure:"room"`
	SourceID  string            `mapstructure:"source_id"`
	TargetID  string            `mapstructure:"target_id"`
	Resource  compound.Compound `mapstructure:"resource"`
	Threshold int               `mapstructure:"threshold"`
}

// StoreLookup resolves structure ids to their stores
type StoreLookup interface {
	StoreOf(structureID string) (agent.StoreView, bool)
}

// ConsumptionGate decides whether a raw material may leave storage
type ConsumptionGate interface {
	CanConsume(c compound.Compound, amount, currentStock int) bool
}

// StepResult describes what the planner changed in a room this tick
type StepResult struct {
	Retired   *domain.Task
	Cancelled *domain.Task
	Published *domain.Task
	// Withheld are storage requests dropped at publish time because the
	// reserve no longer allows them; facilities re-request once it does
	Withheld []domain.Request
	Enqueued int
	Pending  int
}

// Planner publishes and retires logistics tasks. It owns every room's
// request queue and feeds the room board one task at a time.
type Planner struct {
	stores StoreLookup
	rules  map[string][]DrainRule
	clock  shared.Clock
	gate   ConsumptionGate
}

// NewPlanner creates a planner; rules are grouped by room
func NewPlanner(stores StoreLookup, rules []DrainRule, clock shared.Clock) *Planner {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	byRoom := make(map[string][]DrainRule)
	for _, r := range rules {
		byRoom[r.Room] = append(byRoom[r.Room], r)
	}
	return &Planner{stores: stores, rules: byRoom, clock: clock}
}

// WithReserveGate makes the planner re-check storage withdrawals against gate
// right before publishing them
func (p *Planner) WithReserveGate(gate ConsumptionGate) *Planner {
	p.gate = gate
	return p
}

// Enqueue adds req to the room queue unless the active task already covers
// the same target and resource. Returns whether a new entry was queued.
func (p *Planner) Enqueue(room *colony.Room, req domain.Request) bool {
	if active := room.Board().Current(); active != nil && !active.IsFulfilled() &&
		active.TargetID() == req.TargetID && active.ResourceType() == req.ResourceType {
		return false
	}
	return room.Queue().Push(req)
}

// Step retires a fulfilled task, applies drain rules and publishes the next
// queued request when the board is free. The room lock must be held.
func (p *Planner) Step(ctx context.Context, room *colony.Room) (StepResult, error) {
	var res StepResult

	if done, ok := room.Board().Retire(); ok {
		res.Retired = done
	}

	if active := room.Board().Current(); active != nil && p.stores != nil {
		_, srcOK := p.stores.StoreOf(active.SourceID())
		_, dstOK := p.stores.StoreOf(active.TargetID())
		if !srcOK || !dstOK {
			res.Cancelled, _ = room.Board().Cancel()
		}
	}

	for _, rule := range p.rules[room.Name()] {
		if p.stores == nil {
			break
		}
		store, ok := p.stores.StoreOf(rule.SourceID)
		if !ok {
			continue
		}
		if amount := store.Amount(rule.Resource); amount >= rule.Threshold && amount > 0 {
			if p.Enqueue(room, domain.Request{
				SourceID:     rule.SourceID,
				TargetID:     rule.TargetID,
				ResourceType: rule.Resource,
				Amount:       amount,
			}) {
				res.Enqueued++
			}
		}
	}

	for !room.Board().HasActive() {
		req, ok := room.Queue().Pop()
		if !ok {
			break
		}
		if p.withheld(room, req) {
			res.Withheld = append(res.Withheld, req)
			continue
		}
		task, err := req.ToTask(p.clock)
		if err != nil {
			// the malformed request is already popped so the queue keeps moving
			res.Pending = room.Queue().Len()
			return res, fmt.Errorf("failed to publish request %+v: %w", req, err)
		}
		if err := room.Board().Publish(task); err != nil {
			return res, err
		}
		res.Published = task.Clone()
	}

	res.Pending = room.Queue().Len()
	return res, nil
}

// withheld reports whether req draws from room storage past the reserve.
// Stock may have dropped since the facility raised the request.
func (p *Planner) withheld(room *colony.Room, req domain.Request) bool {
	if p.gate == nil || req.SourceID != room.StorageID() {
		return false
	}
	return !p.gate.CanConsume(req.ResourceType, req.Amount, room.Storage().Amount(req.ResourceType))
}

// RequesterFor returns the substrate requester facilities in room use.
// Substrates are fetched from the room's bulk storage.
func (p *Planner) RequesterFor(room *colony.Room) production.SubstrateRequester {
	return &roomRequester{planner: p, room: room}
}

type roomRequester struct {
	planner *Planner
	room    *colony.Room
}

func (r *roomRequester) RequestSubstrate(_ context.Context, facilityID string, c compound.Compound, amount int) error {
	if amount <= 0 {
		return shared.NewValidationError("amount", "must be positive")
	}
	r.planner.Enqueue(r.room, domain.Request{
		SourceID:     r.room.StorageID(),
		TargetID:     facilityID,
		ResourceType: c,
		Amount:       amount,
	})
	return nil
}
