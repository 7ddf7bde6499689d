// Package agenttest provides in-memory agents, hosts and task boards for role tests.
package agenttest

import (
	"sort"

	"github.com/andrescamacho/colony-go/internal/domain/agent"
	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/logistics"
	"github.com/andrescamacho/colony-go/internal/domain/structure"
)

// Agent is a scriptable agent.Agent
type Agent struct {
	name   string
	room   string
	memory agent.Memory
	Cargo  *structure.Store
	Pos    agent.Position
	Said   []string
}

func NewAgent(name, room, role string, capacity int) *Agent {
	return &Agent{
		name:   name,
		room:   room,
		memory: agent.DefaultMemory(role),
		Cargo:  structure.NewStore(capacity),
	}
}

func (a *Agent) Name() string                          { return a.name }
func (a *Agent) Room() string                          { return a.room }
func (a *Agent) Memory() *agent.Memory                 { return &a.memory }
func (a *Agent) Carried(c compound.Compound) int       { return a.Cargo.Amount(c) }
func (a *Agent) CarriedTotal() int                     { return a.Cargo.Used() }
func (a *Agent) FreeCapacity() int                     { return a.Cargo.Free() }
func (a *Agent) CarriedCompounds() []compound.Compound { return a.Cargo.Compounds() }
func (a *Agent) Say(msg string)                        { a.Said = append(a.Said, msg) }

// Drop simulates an external loss of cargo
func (a *Agent) Drop(c compound.Compound, amount int) {
	_, _ = a.Cargo.Remove(c, amount)
}

// Structure is a fake host structure
type Structure struct {
	ID    string
	Kind  agent.StructureKind
	Pos   agent.Position
	Store *structure.Store
	// Override forces Withdraw and Transfer against this structure to return a status
	Override *agent.Status
}

// Host resolves primitives against fake structures. Agents are in range of a
// structure when their Chebyshev distance is at most 1; MoveTo teleports
// next to the target.
type Host struct {
	Structures map[string]*Structure
	Moves      []string
}

func NewHost(structures ...*Structure) *Host {
	h := &Host{Structures: make(map[string]*Structure)}
	for _, s := range structures {
		h.Structures[s.ID] = s
	}
	return h
}

func (h *Host) agentOf(a agent.Agent) *Agent {
	return a.(*Agent)
}

func (h *Host) MoveTo(a agent.Agent, structureID string) agent.Status {
	s, ok := h.Structures[structureID]
	if !ok {
		return agent.ErrInvalidTarget
	}
	h.Moves = append(h.Moves, structureID)
	h.agentOf(a).Pos = agent.Position{X: s.Pos.X + 1, Y: s.Pos.Y}
	return agent.OK
}

func (h *Host) MoveToPosition(a agent.Agent, pos agent.Position) agent.Status {
	h.Moves = append(h.Moves, "pos")
	h.agentOf(a).Pos = pos
	return agent.OK
}

func (h *Host) At(a agent.Agent, pos agent.Position) bool {
	return h.agentOf(a).Pos == pos
}

func (h *Host) Withdraw(a agent.Agent, structureID string, c compound.Compound, amount int) agent.Status {
	s, ok := h.Structures[structureID]
	if !ok {
		return agent.ErrInvalidTarget
	}
	if s.Override != nil {
		return *s.Override
	}
	fa := h.agentOf(a)
	if fa.Pos.Range(s.Pos) > 1 {
		return agent.ErrNotInRange
	}
	if fa.Cargo.Free() == 0 {
		return agent.ErrFull
	}
	if s.Store.Amount(c) == 0 {
		return agent.ErrNotEnough
	}
	if free := fa.Cargo.Free(); amount > free {
		amount = free
	}
	removed, _ := s.Store.Remove(c, amount)
	_, _ = fa.Cargo.Add(c, removed)
	return agent.OK
}

func (h *Host) Transfer(a agent.Agent, structureID string, c compound.Compound, amount int) agent.Status {
	s, ok := h.Structures[structureID]
	if !ok {
		return agent.ErrInvalidTarget
	}
	if s.Override != nil {
		return *s.Override
	}
	fa := h.agentOf(a)
	if fa.Pos.Range(s.Pos) > 1 {
		return agent.ErrNotInRange
	}
	if fa.Cargo.Amount(c) == 0 {
		return agent.ErrNotEnough
	}
	if s.Store.Free() == 0 {
		return agent.ErrFull
	}
	if have := fa.Cargo.Amount(c); amount > have {
		amount = have
	}
	accepted, _ := s.Store.Add(c, amount)
	_, _ = fa.Cargo.Remove(c, accepted)
	return agent.OK
}

func (h *Host) FindClosest(a agent.Agent, filter func(agent.StructureInfo) bool) (string, bool) {
	fa := h.agentOf(a)
	ids := make([]string, 0, len(h.Structures))
	for id := range h.Structures {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	best, bestRange := "", -1
	for _, id := range ids {
		s := h.Structures[id]
		info := agent.StructureInfo{ID: s.ID, Kind: s.Kind, Pos: s.Pos, Store: s.Store}
		if !filter(info) {
			continue
		}
		if r := fa.Pos.Range(s.Pos); bestRange < 0 || r < bestRange {
			best, bestRange = id, r
		}
	}
	return best, bestRange >= 0
}

func (h *Host) StoreOf(structureID string) (agent.StoreView, bool) {
	s, ok := h.Structures[structureID]
	if !ok {
		return nil, false
	}
	return s.Store, true
}

// Board is a single-room agent.TaskBoard over a logistics.Board
type Board struct {
	Inner   *logistics.Board
	Reports []int
}

func NewBoard() *Board {
	return &Board{Inner: logistics.NewBoard()}
}

func (b *Board) Task(string) *logistics.Task {
	return b.Inner.Current()
}

func (b *Board) HandleTask(_ string, taskID string, amount int) error {
	if err := b.Inner.Report(taskID, amount); err != nil {
		return err
	}
	b.Reports = append(b.Reports, amount)
	return nil
}
