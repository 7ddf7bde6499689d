package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/colony-go/internal/application/common"
	"github.com/andrescamacho/colony-go/internal/domain/colony"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// GormRoomStateRepository stores room snapshots as JSON documents
type GormRoomStateRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormRoomStateRepository creates a new room state repository.
// If clock is nil, uses RealClock.
func NewGormRoomStateRepository(db *gorm.DB, clock shared.Clock) *GormRoomStateRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormRoomStateRepository{db: db, clock: clock}
}

// Save upserts the snapshot of a room
func (r *GormRoomStateRepository) Save(ctx context.Context, tick int64, snapshot colony.RoomSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot of room %s: %w", snapshot.Name, err)
	}

	now := r.clock.Now()
	model := RoomStateModel{
		Room:      snapshot.Name,
		Tick:      tick,
		Snapshot:  string(data),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room"}},
			DoUpdates: clause.AssignmentColumns([]string{"tick", "snapshot", "updated_at"}),
		}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to save room state: %w", err)
	}
	return nil
}

// Load returns the stored snapshot of a room, or nil if none was saved
func (r *GormRoomStateRepository) Load(ctx context.Context, room string) (*colony.RoomSnapshot, int64, error) {
	var model RoomStateModel
	err := r.db.WithContext(ctx).Where("room = ?", room).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to load room state: %w", err)
	}

	snap, err := decodeSnapshot(model)
	if err != nil {
		return nil, 0, err
	}
	return &snap, model.Tick, nil
}

// List returns every stored room state ordered by room name
func (r *GormRoomStateRepository) List(ctx context.Context) ([]common.RoomState, error) {
	var models []RoomStateModel
	if err := r.db.WithContext(ctx).Order("room ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list room states: %w", err)
	}

	states := make([]common.RoomState, 0, len(models))
	for _, model := range models {
		snap, err := decodeSnapshot(model)
		if err != nil {
			return nil, err
		}
		states = append(states, common.RoomState{
			Tick:      model.Tick,
			UpdatedAt: model.UpdatedAt,
			Snapshot:  snap,
		})
	}
	return states, nil
}

func decodeSnapshot(model RoomStateModel) (colony.RoomSnapshot, error) {
	var snap colony.RoomSnapshot
	if err := json.Unmarshal([]byte(model.Snapshot), &snap); err != nil {
		return snap, fmt.Errorf("failed to unmarshal snapshot of room %s: %w", model.Room, err)
	}
	return snap, nil
}
