package colony

import (
	"fmt"
	"sort"
	"sync"

	"github.com/andrescamacho/colony-go/internal/domain/logistics"
)

// ErrUnknownRoom indicates a lookup for a room that was never added
type ErrUnknownRoom struct {
	Name string
}

func (e *ErrUnknownRoom) Error() string {
	return fmt.Sprintf("unknown room: %s", e.Name)
}

type roomSlot struct {
	mu   sync.Mutex
	room *Room
}

// Colony is the arena of rooms. Each room has its own lock so rooms can be
// ticked in parallel while work inside one room stays serialized.
type Colony struct {
	mu    sync.RWMutex
	rooms map[string]*roomSlot
}

func New() *Colony {
	return &Colony{rooms: make(map[string]*roomSlot)}
}

// Add registers a room; names must be unique
func (c *Colony) Add(room *Room) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.rooms[room.name]; exists {
		return fmt.Errorf("room %s already exists", room.name)
	}
	c.rooms[room.name] = &roomSlot{room: room}
	return nil
}

// Replace swaps the room stored under room.Name(), e.g. after a restore
func (c *Colony) Replace(room *Room) error {
	c.mu.RLock()
	slot, ok := c.rooms[room.name]
	c.mu.RUnlock()
	if !ok {
		return &ErrUnknownRoom{Name: room.name}
	}
	slot.mu.Lock()
	slot.room = room
	slot.mu.Unlock()
	return nil
}

// WithRoom runs fn while holding the room's lock
func (c *Colony) WithRoom(name string, fn func(*Room) error) error {
	c.mu.RLock()
	slot, ok := c.rooms[name]
	c.mu.RUnlock()
	if !ok {
		return &ErrUnknownRoom{Name: name}
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return fn(slot.room)
}

// Names returns all room names, sorted
func (c *Colony) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.rooms))
	for name := range c.rooms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TaskBoard returns an agent.TaskBoard that routes each call to the named
// room. Callers must already hold that room's lock, as the scheduler does
// while stepping the room's agents.
func (c *Colony) TaskBoard() *ColonyTaskBoard {
	return &ColonyTaskBoard{colony: c}
}

// ColonyTaskBoard resolves rooms on every call so a restored room is picked up
type ColonyTaskBoard struct {
	colony *Colony
}

func (b *ColonyTaskBoard) lookup(name string) *Room {
	b.colony.mu.RLock()
	slot, ok := b.colony.rooms[name]
	b.colony.mu.RUnlock()
	if !ok {
		return nil
	}
	return slot.room
}

func (b *ColonyTaskBoard) Task(room string) *logistics.Task {
	r := b.lookup(room)
	if r == nil {
		return nil
	}
	return r.board.Current()
}

func (b *ColonyTaskBoard) HandleTask(room, taskID string, amount int) error {
	r := b.lookup(room)
	if r == nil {
		return &ErrUnknownRoom{Name: room}
	}
	return r.board.Report(taskID, amount)
}
