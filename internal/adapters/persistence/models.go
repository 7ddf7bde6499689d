package persistence

import "time"

// RoomStateModel represents the room_states table: the latest snapshot of
// each room, overwritten in place
type RoomStateModel struct {
	Room      string    `gorm:"column:room;primaryKey;not null"`
	Tick      int64     `gorm:"column:tick;not null"`
	Snapshot  string    `gorm:"column:snapshot;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (RoomStateModel) TableName() string {
	return "room_states"
}

// AdvisoryLogModel represents the advisory_logs table
type AdvisoryLogModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Room      string    `gorm:"column:room;not null;index:idx_advisory_room_time"`
	Source    string    `gorm:"column:source;not null"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index:idx_advisory_room_time"`
	Level     string    `gorm:"column:level;not null;default:'INFO'"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Metadata  string    `gorm:"column:metadata;type:text"`
}

func (AdvisoryLogModel) TableName() string {
	return "advisory_logs"
}
