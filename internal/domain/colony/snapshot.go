package colony

import (
	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/logistics"
	"github.com/andrescamacho/colony-go/internal/domain/production"
	"github.com/andrescamacho/colony-go/internal/domain/structure"
)

// RoomSnapshot is the persisted state of a room
type RoomSnapshot struct {
	Name            string                       `json:"name"`
	StorageID       string                       `json:"storageId"`
	StorageCapacity int                          `json:"storageCapacity"`
	Stock           map[string]int               `json:"stock"`
	Task            *logistics.TaskData          `json:"task,omitempty"`
	Queue           []logistics.Request          `json:"queue,omitempty"`
	Facility        *production.FacilitySnapshot `json:"facility,omitempty"`
}

// Snapshot captures the room
func (r *Room) Snapshot() RoomSnapshot {
	stock := make(map[string]int)
	for c, v := range r.storage.Contents() {
		stock[string(c)] = v
	}
	snap := RoomSnapshot{
		Name:            r.name,
		StorageID:       r.storageID,
		StorageCapacity: r.storage.Capacity(),
		Stock:           stock,
		Queue:           r.queue.Items(),
	}
	if task := r.board.Current(); task != nil {
		snap.Task = task.ToData()
	}
	if r.facility != nil {
		fs := r.facility.Snapshot()
		snap.Facility = &fs
	}
	return snap
}

// FacilityFactory rebuilds a facility from its snapshot; it supplies the
// static configuration a snapshot does not carry.
type FacilityFactory func(snap production.FacilitySnapshot) (*production.Facility, error)

// RestoreRoom rebuilds a room from a snapshot. A snapshot with a facility
// requires a factory.
func RestoreRoom(snap RoomSnapshot, facilities FacilityFactory) (*Room, error) {
	contents := make(map[compound.Compound]int, len(snap.Stock))
	for c, v := range snap.Stock {
		contents[compound.Compound(c)] = v
	}
	storage, err := structure.RestoreStore(snap.StorageCapacity, contents)
	if err != nil {
		return nil, err
	}

	var facility *production.Facility
	if snap.Facility != nil && facilities != nil {
		facility, err = facilities(*snap.Facility)
		if err != nil {
			return nil, err
		}
	}

	room := NewRoom(snap.Name, snap.StorageID, storage, facility)
	if snap.Task != nil {
		task, err := logistics.TaskFromData(snap.Task)
		if err != nil {
			return nil, err
		}
		room.board = logistics.RestoreBoard(task)
	}
	room.queue = logistics.RestoreQueue(snap.Queue)
	return room, nil
}
