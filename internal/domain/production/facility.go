package production

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/structure"
)

// FacilityConfig holds the static sizing of a facility
type FacilityConfig struct {
	ID             string
	BatchSize      int
	ReactionAmount int
	// InputCapacity bounds the local input store; zero means unbounded
	InputCapacity int
}

func (c FacilityConfig) validate() error {
	if c.ID == "" {
		return shared.NewValidationError("id", "must not be empty")
	}
	if c.BatchSize <= 0 {
		return shared.NewValidationError("batchSize", "must be positive")
	}
	if c.ReactionAmount <= 0 {
		return shared.NewValidationError("reactionAmount", "must be positive")
	}
	if c.InputCapacity < 0 {
		return shared.NewValidationError("inputCapacity", "must not be negative")
	}
	return nil
}

// perSubstrateCap is the most of one substrate the input store may hold
func (c FacilityConfig) perSubstrateCap() int {
	if c.InputCapacity == structure.Unlimited {
		return 0
	}
	return c.InputCapacity / 2
}

// Transition describes what one tick did
type Transition struct {
	From      FacilityState
	To        FacilityState
	Target    compound.Compound
	Produced  int
	Requested map[compound.Compound]int
	// Gated lists raw substrates whose request the reserve gate blocked
	Gated []compound.Compound
	Note  string
}

// Changed reports whether the tick moved the facility to another phase
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Facility runs the select → acquire → synthesize → deposit cycle for one
// production cluster. It is not safe for concurrent use; the owning room
// serializes ticks.
type Facility struct {
	config   FacilityConfig
	plan     *Plan
	resolver *compound.Resolver
	gate     *ReserveGate

	state        FacilityState
	target       compound.Compound
	substrates   compound.Substrates
	batch        int
	produced     int
	deposited    int
	cycleID      string
	ticksInState int
	inputs       *structure.Store
}

// NewFacility creates an idle facility waiting to select a target
func NewFacility(config FacilityConfig, plan *Plan, resolver *compound.Resolver, gate *ReserveGate) (*Facility, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &Facility{
		config:   config,
		plan:     plan,
		resolver: resolver,
		gate:     gate,
		state:    StateSelectTarget,
		inputs:   structure.NewStore(config.InputCapacity),
	}, nil
}

// Getters

func (f *Facility) ID() string                      { return f.config.ID }
func (f *Facility) State() FacilityState            { return f.state }
func (f *Facility) Target() compound.Compound       { return f.target }
func (f *Facility) Substrates() compound.Substrates { return f.substrates }
func (f *Facility) Batch() int                      { return f.batch }
func (f *Facility) Produced() int                   { return f.produced }
func (f *Facility) Deposited() int                  { return f.deposited }
func (f *Facility) CycleID() string                 { return f.cycleID }
func (f *Facility) TicksInState() int               { return f.ticksInState }

// Inputs is the facility-local store that logistics deliveries land in
func (f *Facility) Inputs() *structure.Store { return f.inputs }

// Tick advances the cycle by at most one phase
func (f *Facility) Tick(ctx context.Context, env TickEnv) (Transition, error) {
	from := f.state
	var (
		tr  Transition
		err error
	)
	switch f.state {
	case StateSelectTarget:
		tr, err = f.selectTarget(env)
	case StateAcquireSubstrates:
		tr, err = f.acquireSubstrates(ctx, env)
	case StateSynthesizing:
		tr, err = f.synthesize()
	case StateDepositOutput:
		tr, err = f.depositOutput(ctx, env)
	default:
		return Transition{From: from, To: from}, shared.NewInvariantViolation("facility "+f.config.ID, "unknown state %q", f.state)
	}
	tr.From = from
	tr.To = f.state
	tr.Target = f.target
	tr.Produced = f.produced
	if tr.Changed() {
		f.ticksInState = 0
	} else {
		f.ticksInState++
	}
	return tr, err
}

func (f *Facility) transition(to FacilityState) error {
	if !f.state.CanTransitionTo(to) {
		return &ErrInvalidStateTransition{From: f.state, To: to}
	}
	f.state = to
	return nil
}

func (f *Facility) selectTarget(env TickEnv) (Transition, error) {
	entry, deficit, ok := f.plan.Select(env.Stock)
	if !ok {
		return Transition{Note: "all targets at quota"}, nil
	}
	subs, err := f.resolver.Resolve(entry.Target)
	if err != nil {
		return Transition{Note: "cannot resolve " + string(entry.Target)}, fmt.Errorf("failed to resolve target %s: %w", entry.Target, err)
	}
	if subs.Leaf {
		return Transition{}, shared.NewInvariantViolation("facility "+f.config.ID, "plan target %s is raw", entry.Target)
	}

	batch := deficit
	if batch > f.config.BatchSize {
		batch = f.config.BatchSize
	}
	if limit := f.config.perSubstrateCap(); limit > 0 && batch > limit {
		batch = limit
	}

	f.target = entry.Target
	f.substrates = subs
	f.batch = batch
	f.produced = 0
	f.deposited = 0
	f.cycleID = uuid.New().String()
	if err := f.transition(StateAcquireSubstrates); err != nil {
		return Transition{}, err
	}
	return Transition{Note: fmt.Sprintf("selected %s x%d", entry.Target, batch)}, nil
}

func (f *Facility) acquireSubstrates(ctx context.Context, env TickEnv) (Transition, error) {
	tr := Transition{Requested: make(map[compound.Compound]int)}
	remaining := f.batch - f.produced
	ready := true

	for _, s := range f.substrates.Pair() {
		have := f.inputs.Amount(s)
		if have >= remaining {
			continue
		}
		ready = false
		missing := remaining - have

		stock := env.Stock.Amount(s)
		if f.resolver.IsRaw(s) {
			if !f.gate.CanConsume(s, missing, stock) {
				tr.Gated = append(tr.Gated, s)
				continue
			}
		} else if stock < missing {
			// intermediates come from earlier plan entries; wait for them
			continue
		}

		if err := env.Requester.RequestSubstrate(ctx, f.config.ID, s, missing); err != nil {
			return tr, fmt.Errorf("failed to request %d %s for facility %s: %w", missing, s, f.config.ID, err)
		}
		tr.Requested[s] = missing
	}

	if len(tr.Gated) > 0 {
		tr.Note = "substrates held by reserve"
	}
	if !ready {
		return tr, nil
	}
	if err := f.transition(StateSynthesizing); err != nil {
		return tr, err
	}
	return tr, nil
}

func (f *Facility) synthesize() (Transition, error) {
	step := f.config.ReactionAmount
	if remaining := f.batch - f.produced; step > remaining {
		step = remaining
	}

	for _, s := range f.substrates.Pair() {
		if f.inputs.Amount(s) < step {
			if err := f.transition(StateAcquireSubstrates); err != nil {
				return Transition{}, err
			}
			return Transition{Note: fmt.Sprintf("%s ran out mid-batch", s)}, nil
		}
	}

	for _, s := range f.substrates.Pair() {
		removed, err := f.inputs.Remove(s, step)
		if err != nil {
			return Transition{}, err
		}
		if removed != step {
			return Transition{}, shared.NewInvariantViolation("facility "+f.config.ID, "removed %d of %s, expected %d", removed, s, step)
		}
	}
	f.produced += step

	if f.produced >= f.batch {
		if err := f.transition(StateDepositOutput); err != nil {
			return Transition{}, err
		}
	}
	return Transition{}, nil
}

// depositOutput hands the product and any leftover substrates back to bulk storage
func (f *Facility) depositOutput(ctx context.Context, env TickEnv) (Transition, error) {
	if pending := f.produced - f.deposited; pending > 0 {
		accepted, err := env.Sink.Deposit(ctx, f.target, pending)
		if err != nil {
			return Transition{}, fmt.Errorf("failed to deposit %s: %w", f.target, err)
		}
		if accepted < 0 || accepted > pending {
			return Transition{}, shared.NewInvariantViolation("facility "+f.config.ID, "sink accepted %d of %d", accepted, pending)
		}
		f.deposited += accepted
	}

	for _, c := range f.inputs.Compounds() {
		held := f.inputs.Amount(c)
		accepted, err := env.Sink.Deposit(ctx, c, held)
		if err != nil {
			return Transition{}, fmt.Errorf("failed to return %s: %w", c, err)
		}
		if accepted > 0 {
			if _, err := f.inputs.Remove(c, accepted); err != nil {
				return Transition{}, err
			}
		}
	}

	if f.deposited < f.produced || f.inputs.Used() > 0 {
		return Transition{Note: "storage full, holding output"}, nil
	}

	done := fmt.Sprintf("deposited %s x%d", f.target, f.deposited)
	if err := f.transition(StateSelectTarget); err != nil {
		return Transition{}, err
	}
	f.target = ""
	f.substrates = compound.Substrates{}
	f.batch = 0
	f.produced = 0
	f.deposited = 0
	f.cycleID = ""
	return Transition{Note: done}, nil
}

// FacilitySnapshot is the persisted form of a facility
type FacilitySnapshot struct {
	ID           string         `json:"id"`
	State        string         `json:"state"`
	Target       string         `json:"target,omitempty"`
	SubstrateA   string         `json:"substrateA,omitempty"`
	SubstrateB   string         `json:"substrateB,omitempty"`
	Batch        int            `json:"batch"`
	Produced     int            `json:"produced"`
	Deposited    int            `json:"deposited"`
	CycleID      string         `json:"cycleId,omitempty"`
	TicksInState int            `json:"ticksInState"`
	Inputs       map[string]int `json:"inputs,omitempty"`
}

// Snapshot captures the facility's mutable state
func (f *Facility) Snapshot() FacilitySnapshot {
	inputs := make(map[string]int)
	for c, v := range f.inputs.Contents() {
		inputs[string(c)] = v
	}
	return FacilitySnapshot{
		ID:           f.config.ID,
		State:        string(f.state),
		Target:       string(f.target),
		SubstrateA:   string(f.substrates.A),
		SubstrateB:   string(f.substrates.B),
		Batch:        f.batch,
		Produced:     f.produced,
		Deposited:    f.deposited,
		CycleID:      f.cycleID,
		TicksInState: f.ticksInState,
		Inputs:       inputs,
	}
}

// RestoreFacility rebuilds a facility from a snapshot
func RestoreFacility(snap FacilitySnapshot, config FacilityConfig, plan *Plan, resolver *compound.Resolver, gate *ReserveGate) (*Facility, error) {
	f, err := NewFacility(config, plan, resolver, gate)
	if err != nil {
		return nil, err
	}
	state, err := ParseFacilityState(snap.State)
	if err != nil {
		return nil, err
	}
	if snap.Produced < 0 || snap.Deposited < 0 || snap.Deposited > snap.Produced {
		return nil, shared.NewInvariantViolation("facility "+config.ID, "produced %d deposited %d", snap.Produced, snap.Deposited)
	}

	contents := make(map[compound.Compound]int, len(snap.Inputs))
	for c, v := range snap.Inputs {
		contents[compound.Compound(c)] = v
	}
	inputs, err := structure.RestoreStore(config.InputCapacity, contents)
	if err != nil {
		return nil, err
	}

	f.state = state
	f.target = compound.Compound(snap.Target)
	if snap.SubstrateA != "" {
		f.substrates = compound.Substrates{A: compound.Compound(snap.SubstrateA), B: compound.Compound(snap.SubstrateB)}
	}
	f.batch = snap.Batch
	f.produced = snap.Produced
	f.deposited = snap.Deposited
	f.cycleID = snap.CycleID
	f.ticksInState = snap.TicksInState
	f.inputs = inputs
	return f, nil
}
