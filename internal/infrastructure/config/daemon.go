package config

import "time"

// DaemonConfig holds settings for the long-running tick loop process
type DaemonConfig struct {
	// PID file location
	PIDFile string `mapstructure:"pid_file"`

	// Unix socket the live status service listens on
	SocketPath string `mapstructure:"socket_path"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
