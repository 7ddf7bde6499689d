package colony

import (
	"context"
	"fmt"

	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/logistics"
	"github.com/andrescamacho/colony-go/internal/domain/production"
	"github.com/andrescamacho/colony-go/internal/domain/structure"
)

// Room owns everything one room's agents and facility share: bulk storage,
// the logistics task slot, pending transfer requests and the facility.
// A Room is only ever touched while its Colony slot lock is held.
type Room struct {
	name      string
	storageID string
	storage   *structure.Store
	board     *logistics.Board
	queue     *logistics.Queue
	facility  *production.Facility
}

// NewRoom creates a room with empty logistics state. facility may be nil.
func NewRoom(name, storageID string, storage *structure.Store, facility *production.Facility) *Room {
	return &Room{
		name:      name,
		storageID: storageID,
		storage:   storage,
		board:     logistics.NewBoard(),
		queue:     logistics.NewQueue(),
		facility:  facility,
	}
}

func (r *Room) Name() string                   { return r.name }
func (r *Room) StorageID() string              { return r.storageID }
func (r *Room) Storage() *structure.Store      { return r.storage }
func (r *Room) Board() *logistics.Board        { return r.board }
func (r *Room) Queue() *logistics.Queue        { return r.queue }
func (r *Room) Facility() *production.Facility { return r.facility }

// TaskBoard returns the agent-facing accessor for this room's task
func (r *Room) TaskBoard() *RoomTaskBoard {
	return &RoomTaskBoard{room: r}
}

// StorageSink returns an output sink that deposits into bulk storage
func (r *Room) StorageSink() *StorageSink {
	return &StorageSink{store: r.storage}
}

// RoomTaskBoard adapts a room's board to the agent.TaskBoard port. It must
// only be used while the room lock is held.
type RoomTaskBoard struct {
	room *Room
}

func (b *RoomTaskBoard) Task(room string) *logistics.Task {
	if room != b.room.name {
		return nil
	}
	return b.room.board.Current()
}

func (b *RoomTaskBoard) HandleTask(room, taskID string, amount int) error {
	if room != b.room.name {
		return fmt.Errorf("task board for %s cannot account work in %s", b.room.name, room)
	}
	return b.room.board.Report(taskID, amount)
}

// StorageSink deposits facility output into a store
type StorageSink struct {
	store *structure.Store
}

func (s *StorageSink) Deposit(_ context.Context, c compound.Compound, amount int) (int, error) {
	return s.store.Add(c, amount)
}
