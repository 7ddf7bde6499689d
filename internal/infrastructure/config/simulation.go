package config

import "time"

// SimulationConfig describes the tick loop and the rooms it drives
type SimulationConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"required"`

	// Maximum rooms ticked concurrently (0 = one goroutine per room)
	Workers int `mapstructure:"workers" validate:"min=0"`

	// Persist room snapshots every N ticks (0 = never)
	SnapshotEvery int64 `mapstructure:"snapshot_every" validate:"min=0"`

	Rooms []RoomConfig `mapstructure:"rooms" validate:"dive"`
}

// RoomConfig is one room's layout, agents and standing transfer rules
type RoomConfig struct {
	Name            string `mapstructure:"name" validate:"required"`
	StorageID       string `mapstructure:"storage_id" validate:"required"`
	StorageCapacity int    `mapstructure:"storage_capacity" validate:"min=0"`
	// Position of the storage structure
	StoragePos PositionConfig `mapstructure:"storage_pos"`

	InitialStock []StockConfig     `mapstructure:"initial_stock" validate:"dive"`
	Structures   []StructureConfig `mapstructure:"structures" validate:"dive"`
	Agents       []AgentConfig     `mapstructure:"agents" validate:"dive"`
	DrainRules   []DrainRuleConfig `mapstructure:"drain_rules" validate:"dive"`

	// Facility is optional; rooms without one only run logistics
	Facility *FacilitySiteConfig `mapstructure:"facility"`
}

// PositionConfig is a tile in a room
type PositionConfig struct {
	X int `mapstructure:"x"`
	Y int `mapstructure:"y"`
}

// StockConfig is an amount of one compound. Lists are used instead of maps
// because viper lowercases map keys and compound names are case-sensitive.
type StockConfig struct {
	Compound string `mapstructure:"compound" validate:"required,compound"`
	Amount   int    `mapstructure:"amount" validate:"min=0"`
}

// StructureConfig places a host structure
type StructureConfig struct {
	ID       string         `mapstructure:"id" validate:"required"`
	Kind     string         `mapstructure:"kind" validate:"required,oneof=spawn extension tower storage link lab terminal"`
	Pos      PositionConfig `mapstructure:"pos"`
	Capacity int            `mapstructure:"capacity" validate:"min=0"`
	Stock    []StockConfig  `mapstructure:"stock" validate:"dive"`
	Inflow   []StockConfig  `mapstructure:"inflow" validate:"dive"`
	Drain    []StockConfig  `mapstructure:"drain" validate:"dive"`
}

// AgentConfig spawns one agent with its role arguments
type AgentConfig struct {
	Name     string         `mapstructure:"name" validate:"required"`
	Role     string         `mapstructure:"role" validate:"required"`
	Capacity int            `mapstructure:"capacity" validate:"min=1"`
	Pos      PositionConfig `mapstructure:"pos"`
	SourceID string         `mapstructure:"source_id"`
	HomeID   string         `mapstructure:"home_id"`
	Anchor   PositionConfig `mapstructure:"anchor"`
}

// DrainRuleConfig empties Source into Target once it holds Threshold of Resource
type DrainRuleConfig struct {
	SourceID  string `mapstructure:"source_id" validate:"required"`
	TargetID  string `mapstructure:"target_id" validate:"required,nefield=SourceID"`
	Resource  string `mapstructure:"resource" validate:"required,compound"`
	Threshold int    `mapstructure:"threshold" validate:"min=1"`
}

// FacilitySiteConfig places a production facility in a room
type FacilitySiteConfig struct {
	ID  string         `mapstructure:"id" validate:"required"`
	Pos PositionConfig `mapstructure:"pos"`
}
