package common

import (
	"context"
	"time"

	"github.com/andrescamacho/colony-go/internal/domain/colony"
)

// RoomStateRepository persists room snapshots between ticks
type RoomStateRepository interface {
	// Save stores the latest snapshot of a room, replacing any previous one
	Save(ctx context.Context, tick int64, snapshot colony.RoomSnapshot) error

	// Load returns the latest snapshot of a room and the tick it was taken at
	Load(ctx context.Context, room string) (*colony.RoomSnapshot, int64, error)

	// List returns the latest snapshot of every room
	List(ctx context.Context) ([]RoomState, error)
}

// RoomState is a stored snapshot with its bookkeeping
type RoomState struct {
	Tick      int64
	UpdatedAt time.Time
	Snapshot  colony.RoomSnapshot
}

// AdvisoryLog records the side-channel messages agents and facilities emit
type AdvisoryLog interface {
	Record(ctx context.Context, room, source, level, message string, metadata map[string]interface{}) error
}
