// Package host is an in-memory rendition of the game world the agents act in.
// It backs the daemon and the end-to-end tests; a live game client would
// implement the same agent.Host port.
package host

import (
	"fmt"
	"sort"
	"sync"

	"github.com/andrescamacho/colony-go/internal/domain/agent"
	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/structure"
)

// Structure is a positioned store in a room
type Structure struct {
	id    string
	room  string
	kind  agent.StructureKind
	pos   agent.Position
	store *structure.Store
	// inflow is added every tick, e.g. energy pushed in by a remote link
	inflow map[compound.Compound]int
	// drain is consumed every tick, e.g. spawns spending energy
	drain map[compound.Compound]int
}

func (s *Structure) ID() string                { return s.id }
func (s *Structure) Room() string              { return s.room }
func (s *Structure) Kind() agent.StructureKind { return s.kind }
func (s *Structure) Pos() agent.Position       { return s.pos }
func (s *Structure) Store() *structure.Store   { return s.store }

// StructureSpec describes a structure to place
type StructureSpec struct {
	ID       string
	Room     string
	Kind     agent.StructureKind
	Pos      agent.Position
	Capacity int
	Inflow   map[compound.Compound]int
	Drain    map[compound.Compound]int
}

// World holds every room's structures and creeps. Structures and creeps are
// only mutated by the tick of the room they live in; the maps themselves are
// guarded by mu.
type World struct {
	mu         sync.RWMutex
	structures map[string]*Structure
	creeps     map[string]*Creep
}

func NewWorld() *World {
	return &World{
		structures: make(map[string]*Structure),
		creeps:     make(map[string]*Creep),
	}
}

// AddStructure places a structure with its own store
func (w *World) AddStructure(spec StructureSpec) (*Structure, error) {
	return w.place(spec, structure.NewStore(spec.Capacity))
}

// BindStructure places a structure backed by an existing store, such as room
// storage or a facility's input store
func (w *World) BindStructure(spec StructureSpec, store *structure.Store) (*Structure, error) {
	if store == nil {
		return nil, fmt.Errorf("structure %s: nil store", spec.ID)
	}
	return w.place(spec, store)
}

// Rebind swaps the store behind an existing structure, used after a room is
// restored from a snapshot
func (w *World) Rebind(id string, store *structure.Store) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.structures[id]
	if !ok {
		return fmt.Errorf("structure %s not found", id)
	}
	s.store = store
	return nil
}

func (w *World) place(spec StructureSpec, store *structure.Store) (*Structure, error) {
	if spec.ID == "" || spec.Room == "" {
		return nil, fmt.Errorf("structure requires id and room")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.structures[spec.ID]; exists {
		return nil, fmt.Errorf("structure %s already exists", spec.ID)
	}
	s := &Structure{
		id:     spec.ID,
		room:   spec.Room,
		kind:   spec.Kind,
		pos:    spec.Pos,
		store:  store,
		inflow: copyFlows(spec.Inflow),
		drain:  copyFlows(spec.Drain),
	}
	w.structures[spec.ID] = s
	return s, nil
}

func copyFlows(in map[compound.Compound]int) map[compound.Compound]int {
	out := make(map[compound.Compound]int, len(in))
	for c, n := range in {
		if n > 0 {
			out[c] = n
		}
	}
	return out
}

// AddCreep spawns a creep bound to role
func (w *World) AddCreep(name, room string, capacity int, pos agent.Position, role agent.Role) (*Creep, error) {
	if role == nil {
		return nil, fmt.Errorf("creep %s: nil role", name)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.creeps[name]; exists {
		return nil, fmt.Errorf("creep %s already exists", name)
	}
	c := newCreep(name, room, capacity, pos, role)
	w.creeps[name] = c
	return c, nil
}

// Creep returns a creep by name
func (w *World) Creep(name string) (*Creep, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.creeps[name]
	return c, ok
}

// Structure returns a structure by id
func (w *World) Structure(id string) (*Structure, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.structures[id]
	return s, ok
}

// Units returns the creeps of room with their roles, sorted by name
func (w *World) Units(room string) []agent.Unit {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0)
	for name, c := range w.creeps {
		if c.room == room {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	units := make([]agent.Unit, 0, len(names))
	for _, name := range names {
		c := w.creeps[name]
		units = append(units, agent.Unit{Agent: c, Role: c.role})
	}
	return units
}

// Advance applies the room's per-tick inflows and drains
func (w *World) Advance(room string) {
	for _, s := range w.roomStructures(room) {
		for c, n := range s.inflow {
			_, _ = s.store.Add(c, n)
		}
		for c, n := range s.drain {
			_, _ = s.store.Remove(c, n)
		}
	}
}

// DrainSpeech returns and clears everything the room's creeps said
func (w *World) DrainSpeech(room string) []agent.Speech {
	var out []agent.Speech
	for _, u := range w.Units(room) {
		c := u.Agent.(*Creep)
		for _, msg := range c.said {
			out = append(out, agent.Speech{Agent: c.name, Message: msg})
		}
		c.said = nil
	}
	return out
}

func (w *World) roomStructures(room string) []*Structure {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]string, 0)
	for id, s := range w.structures {
		if s.room == room {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]*Structure, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.structures[id])
	}
	return out
}

func (w *World) creepOf(a agent.Agent) (*Creep, bool) {
	c, ok := a.(*Creep)
	return c, ok
}

// reach resolves the structure an agent acts on, checking room and range
func (w *World) reach(a agent.Agent, structureID string) (*Creep, *Structure, agent.Status) {
	c, ok := w.creepOf(a)
	if !ok {
		return nil, nil, agent.ErrNotOwner
	}
	s, ok := w.Structure(structureID)
	if !ok || s.room != c.room {
		return c, nil, agent.ErrInvalidTarget
	}
	if c.pos.Range(s.pos) > 1 {
		return c, s, agent.ErrNotInRange
	}
	return c, s, agent.OK
}

// MoveTo steps one tile toward the structure, stopping once in range
func (w *World) MoveTo(a agent.Agent, structureID string) agent.Status {
	c, ok := w.creepOf(a)
	if !ok {
		return agent.ErrNotOwner
	}
	s, ok := w.Structure(structureID)
	if !ok || s.room != c.room {
		return agent.ErrInvalidTarget
	}
	if c.pos.Range(s.pos) <= 1 {
		return agent.OK
	}
	c.step(s.pos)
	return agent.OK
}

// MoveToPosition steps one tile toward pos
func (w *World) MoveToPosition(a agent.Agent, pos agent.Position) agent.Status {
	c, ok := w.creepOf(a)
	if !ok {
		return agent.ErrNotOwner
	}
	if c.pos != pos {
		c.step(pos)
	}
	return agent.OK
}

func (w *World) At(a agent.Agent, pos agent.Position) bool {
	c, ok := w.creepOf(a)
	return ok && c.pos == pos
}

// Withdraw moves up to amount of c from the structure into the creep
func (w *World) Withdraw(a agent.Agent, structureID string, c compound.Compound, amount int) agent.Status {
	if amount <= 0 {
		return agent.ErrInvalidArgs
	}
	creep, s, status := w.reach(a, structureID)
	if status != agent.OK {
		return status
	}
	if creep.cargo.Free() == 0 {
		return agent.ErrFull
	}
	if s.store.Amount(c) == 0 {
		return agent.ErrNotEnough
	}
	if free := creep.cargo.Free(); amount > free {
		amount = free
	}
	removed, err := s.store.Remove(c, amount)
	if err != nil {
		return agent.ErrInvalidArgs
	}
	if _, err := creep.cargo.Add(c, removed); err != nil {
		return agent.ErrInvalidArgs
	}
	return agent.OK
}

// Transfer moves up to amount of c from the creep into the structure
func (w *World) Transfer(a agent.Agent, structureID string, c compound.Compound, amount int) agent.Status {
	if amount <= 0 {
		return agent.ErrInvalidArgs
	}
	creep, s, status := w.reach(a, structureID)
	if status != agent.OK {
		return status
	}
	have := creep.cargo.Amount(c)
	if have == 0 {
		return agent.ErrNotEnough
	}
	if s.store.Free() == 0 {
		return agent.ErrFull
	}
	if amount > have {
		amount = have
	}
	accepted, err := s.store.Add(c, amount)
	if err != nil {
		return agent.ErrInvalidArgs
	}
	if _, err := creep.cargo.Remove(c, accepted); err != nil {
		return agent.ErrInvalidArgs
	}
	return agent.OK
}

// FindClosest returns the nearest structure in the creep's room that passes
// filter. Ties go to the smallest id.
func (w *World) FindClosest(a agent.Agent, filter func(agent.StructureInfo) bool) (string, bool) {
	c, ok := w.creepOf(a)
	if !ok {
		return "", false
	}
	best, bestRange := "", -1
	for _, s := range w.roomStructures(c.room) {
		info := agent.StructureInfo{ID: s.id, Kind: s.kind, Pos: s.pos, Store: s.store}
		if !filter(info) {
			continue
		}
		if r := c.pos.Range(s.pos); bestRange < 0 || r < bestRange {
			best, bestRange = s.id, r
		}
	}
	return best, bestRange >= 0
}

// StoreOf returns the store behind a structure
func (w *World) StoreOf(structureID string) (agent.StoreView, bool) {
	s, ok := w.Structure(structureID)
	if !ok {
		return nil, false
	}
	return s.store, true
}
