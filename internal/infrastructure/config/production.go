package config

// ProductionConfig holds facility tuning shared by every room
type ProductionConfig struct {
	// Ordered target list; empty means the built-in plan
	Plan []TargetConfig `mapstructure:"plan" validate:"dive"`

	// Stock every raw mineral keeps before synthesis may draw on it
	ReserveAmount int `mapstructure:"reserve_amount" validate:"min=0"`

	// Per-compound overrides of ReserveAmount
	Reserve []StockConfig `mapstructure:"reserve" validate:"dive"`

	BatchSize      int `mapstructure:"batch_size" validate:"min=1"`
	ReactionAmount int `mapstructure:"reaction_amount" validate:"min=1"`

	// Capacity of a facility's input store (0 = unlimited)
	InputCapacity int `mapstructure:"input_capacity" validate:"min=0"`
}

// TargetConfig is one plan entry
type TargetConfig struct {
	Target string `mapstructure:"target" validate:"required,compound"`
	Number int    `mapstructure:"number" validate:"min=1"`
}
