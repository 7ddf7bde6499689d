package agent

import (
	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/logistics"
)

// Agent is the view role code has of a mobile worker
type Agent interface {
	Name() string
	Room() string
	Memory() *Memory
	Carried(c compound.Compound) int
	CarriedTotal() int
	FreeCapacity() int
	// CarriedCompounds lists what the agent holds, sorted by name
	CarriedCompounds() []compound.Compound
	Say(msg string)
}

// StructureKind classifies host structures
type StructureKind string

const (
	KindSpawn     StructureKind = "spawn"
	KindExtension StructureKind = "extension"
	KindTower     StructureKind = "tower"
	KindStorage   StructureKind = "storage"
	KindLink      StructureKind = "link"
	KindLab       StructureKind = "lab"
	KindTerminal  StructureKind = "terminal"
)

// StoreView is a read-only store
type StoreView interface {
	Amount(c compound.Compound) int
	Free() int
	Capacity() int
}

// StructureInfo describes a structure for FindClosest filters
type StructureInfo struct {
	ID    string
	Kind  StructureKind
	Pos   Position
	Store StoreView
}

// Host is the set of world primitives role code may call. Every call is a
// single action for the current tick.
type Host interface {
	MoveTo(a Agent, structureID string) Status
	MoveToPosition(a Agent, pos Position) Status
	At(a Agent, pos Position) bool
	Withdraw(a Agent, structureID string, c compound.Compound, amount int) Status
	Transfer(a Agent, structureID string, c compound.Compound, amount int) Status
	FindClosest(a Agent, filter func(StructureInfo) bool) (string, bool)
	StoreOf(structureID string) (StoreView, bool)
}

// TaskBoard is the room-level logistics accessor used by roles
type TaskBoard interface {
	Task(room string) *logistics.Task
	HandleTask(room, taskID string, amount int) error
}

// Speech is a message an agent said during a tick
type Speech struct {
	Agent   string
	Message string
}
