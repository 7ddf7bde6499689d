package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// AdvisoryEntry is one stored advisory message
type AdvisoryEntry struct {
	ID        int
	Room      string
	Source    string
	Timestamp time.Time
	Level     string
	Message   string
	Metadata  map[string]interface{}
}

// GormAdvisoryLogRepository persists agent and facility advisories. Identical
// messages from the same source are written at most once per dedup window,
// since an idle agent repeats itself every tick.
type GormAdvisoryLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	dedupCache   map[string]time.Time // key: room|source|message, value: last logged time
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

// NewGormAdvisoryLogRepository creates a new advisory log repository.
// If clock is nil, uses RealClock.
func NewGormAdvisoryLogRepository(db *gorm.DB, clock shared.Clock) *GormAdvisoryLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormAdvisoryLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  60 * time.Second,
		dedupMaxSize: 10000,
	}
}

// Record writes an advisory unless the same one was written within the window
func (r *GormAdvisoryLogRepository) Record(ctx context.Context, room, source, level, message string, metadata map[string]interface{}) error {
	now := r.clock.Now()
	cacheKey := room + "|" + source + "|" + message

	r.dedupMu.Lock()
	if lastLogged, exists := r.dedupCache[cacheKey]; exists && now.Sub(lastLogged) < r.dedupWindow {
		r.dedupMu.Unlock()
		return nil
	}
	if len(r.dedupCache) >= r.dedupMaxSize {
		r.cleanupDedupCache(now)
	}
	r.dedupCache[cacheKey] = now
	r.dedupMu.Unlock()

	var metadataJSON string
	if len(metadata) > 0 {
		// metadata is optional; an unencodable value drops it rather than the entry
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	entry := &AdvisoryLogModel{
		Room:      room,
		Source:    source,
		Timestamp: now,
		Level:     level,
		Message:   message,
		Metadata:  metadataJSON,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record advisory: %w", err)
	}
	return nil
}

// cleanupDedupCache drops entries older than the window. Caller holds dedupMu.
func (r *GormAdvisoryLogRepository) cleanupDedupCache(now time.Time) {
	cutoff := now.Add(-r.dedupWindow)
	for key, ts := range r.dedupCache {
		if ts.Before(cutoff) {
			delete(r.dedupCache, key)
		}
	}
}

// Recent returns the newest advisories of a room, optionally filtered by level
func (r *GormAdvisoryLogRepository) Recent(ctx context.Context, room string, limit int, level *string) ([]AdvisoryEntry, error) {
	var models []AdvisoryLogModel

	query := r.db.WithContext(ctx).Where("room = ?", room)
	if level != nil {
		query = query.Where("level = ?", *level)
	}
	if err := query.Order("timestamp DESC, id DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query advisories: %w", err)
	}

	entries := make([]AdvisoryEntry, len(models))
	for i, model := range models {
		var metadata map[string]interface{}
		if model.Metadata != "" {
			if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
				metadata = nil
			}
		}
		entries[i] = AdvisoryEntry{
			ID:        model.ID,
			Room:      model.Room,
			Source:    model.Source,
			Timestamp: model.Timestamp,
			Level:     model.Level,
			Message:   model.Message,
			Metadata:  metadata,
		}
	}
	return entries, nil
}
