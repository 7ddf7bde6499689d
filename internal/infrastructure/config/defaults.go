package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" && cfg.Database.URL == "" {
		cfg.Database.Path = "colony.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "colony"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "colony"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.PollInterval == 0 {
		cfg.Metrics.PollInterval = 10 * time.Second
	}

	// Simulation defaults
	if cfg.Simulation.TickInterval == 0 {
		cfg.Simulation.TickInterval = time.Second
	}
	if cfg.Simulation.SnapshotEvery == 0 {
		cfg.Simulation.SnapshotEvery = 10
	}
	for i := range cfg.Simulation.Rooms {
		room := &cfg.Simulation.Rooms[i]
		if room.StorageID == "" {
			room.StorageID = room.Name + "-storage"
		}
		for j := range room.Agents {
			if room.Agents[j].Capacity == 0 {
				room.Agents[j].Capacity = 50
			}
		}
	}

	// Production defaults
	if cfg.Production.ReserveAmount == 0 {
		cfg.Production.ReserveAmount = 40000
	}
	if cfg.Production.BatchSize == 0 {
		cfg.Production.BatchSize = 1000
	}
	if cfg.Production.ReactionAmount == 0 {
		cfg.Production.ReactionAmount = 5
	}

	// Daemon defaults
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/colony-daemon.pid"
	}
	if cfg.Daemon.SocketPath == "" {
		cfg.Daemon.SocketPath = "/tmp/colony-daemon.sock"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 30 * time.Second
	}
}
