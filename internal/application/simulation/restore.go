package simulation

import (
	"context"
	"fmt"

	"github.com/andrescamacho/colony-go/internal/adapters/metrics"
	"github.com/andrescamacho/colony-go/internal/application/common"
	"github.com/andrescamacho/colony-go/internal/domain/colony"
)

// Restore replaces every room that has a persisted snapshot and resumes the
// tick counter from the newest one. Rooms without a snapshot keep their
// fresh state.
func (s *Scheduler) Restore(ctx context.Context, facilities colony.FacilityFactory) (int, error) {
	if s.states == nil {
		return 0, nil
	}
	logger := common.LoggerFromContext(ctx)

	restored := 0
	var latest int64
	for _, name := range s.colony.Names() {
		snap, tick, err := s.states.Load(ctx, name)
		if err != nil {
			return restored, fmt.Errorf("failed to load snapshot for room %s: %w", name, err)
		}
		if snap == nil {
			continue
		}
		room, err := colony.RestoreRoom(*snap, facilities)
		if err != nil {
			return restored, fmt.Errorf("failed to restore room %s: %w", name, err)
		}
		if err := s.colony.Replace(room); err != nil {
			return restored, err
		}
		if err := s.rebind(room); err != nil {
			return restored, err
		}
		if tick > latest {
			latest = tick
		}
		restored++

		logger.Log(common.LevelInfo, "Room restored from snapshot", map[string]interface{}{
			"room":     name,
			"tick":     tick,
			"has_task": room.Board().HasActive(),
		})
	}
	if latest > s.tick.Load() {
		s.tick.Store(latest)
	}
	return restored, nil
}

// Checkpoint saves every room at the current tick, used on shutdown
func (s *Scheduler) Checkpoint(ctx context.Context) error {
	if s.states == nil {
		return nil
	}
	tick := s.CurrentTick()
	for _, name := range s.colony.Names() {
		err := s.colony.WithRoom(name, func(room *colony.Room) error {
			return s.states.Save(ctx, tick, room.Snapshot())
		})
		if err != nil {
			return fmt.Errorf("failed to checkpoint room %s: %w", name, err)
		}
	}
	return nil
}

// rebind points the world's structures at the restored room's stores
func (s *Scheduler) rebind(room *colony.Room) error {
	binder, ok := s.world.(StoreBinder)
	if !ok {
		return nil
	}
	if err := binder.Rebind(room.StorageID(), room.Storage()); err != nil {
		return fmt.Errorf("failed to rebind storage of room %s: %w", room.Name(), err)
	}
	if f := room.Facility(); f != nil {
		if err := binder.Rebind(f.ID(), f.Inputs()); err != nil {
			return fmt.Errorf("failed to rebind facility %s: %w", f.ID(), err)
		}
	}
	return nil
}

// RoomInfos reads every room for the metrics poller and the status service
func (s *Scheduler) RoomInfos() []metrics.RoomInfo {
	names := s.colony.Names()
	infos := make([]metrics.RoomInfo, 0, len(names))
	for _, name := range names {
		_ = s.colony.WithRoom(name, func(room *colony.Room) error {
			info := metrics.RoomInfo{
				Name:       name,
				Stock:      make(map[string]int),
				QueueDepth: room.Queue().Len(),
			}
			for c, n := range room.Storage().Contents() {
				info.Stock[string(c)] = n
			}
			if t := room.Board().Current(); t != nil {
				info.HasTask = true
				info.TaskID = t.ID()
				info.TaskSourceID = t.SourceID()
				info.TaskTargetID = t.TargetID()
				info.TaskResource = string(t.ResourceType())
				info.TaskAmount = t.Amount()
				info.TaskCompleted = t.CompletedAmount()
				info.TaskRemaining = t.Remaining()
			}
			if f := room.Facility(); f != nil {
				info.FacilityID = f.ID()
				info.FacilityState = string(f.State())
				info.FacilityTarget = string(f.Target())
				info.FacilityBatch = f.Batch()
				info.FacilityProduced = f.Produced()
			}
			infos = append(infos, info)
			return nil
		})
	}
	return infos
}
