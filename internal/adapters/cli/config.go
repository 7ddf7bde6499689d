package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colony-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage Colony configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (COLONY_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (default room) are stored in ~/.colony/config.json

Examples:
  colony config show
  colony config set-room W1N1
  colony config clear-room`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetRoomCommand())
	cmd.AddCommand(newConfigClearRoomCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Fprintln(out, "Colony Configuration")
			fmt.Fprintln(out, "====================")

			fmt.Fprintln(out, "User Preferences:")
			fmt.Fprintf(out, "  Config file:      %s\n", userConfigHandler.GetConfigPath())
			if userCfg.DefaultRoom != "" {
				fmt.Fprintf(out, "  Default Room:     %s\n", userCfg.DefaultRoom)
			} else {
				fmt.Fprintln(out, "  Default Room:     (not set)")
			}

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Fprintf(out, "  Host:             %s:%d\n", cfg.Database.Host, cfg.Database.Port)
				fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
				fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
			}

			fmt.Fprintln(out, "\nSimulation:")
			fmt.Fprintf(out, "  Tick Interval:    %s\n", cfg.Simulation.TickInterval)
			fmt.Fprintf(out, "  Workers:          %d\n", cfg.Simulation.Workers)
			fmt.Fprintf(out, "  Snapshot Every:   %d ticks\n", cfg.Simulation.SnapshotEvery)
			for _, rc := range cfg.Simulation.Rooms {
				facility := "none"
				if rc.Facility != nil {
					facility = rc.Facility.ID
				}
				fmt.Fprintf(out, "  Room %-12s storage=%s agents=%d structures=%d rules=%d facility=%s\n",
					rc.Name, rc.StorageID, len(rc.Agents), len(rc.Structures), len(rc.DrainRules), facility)
			}

			fmt.Fprintln(out, "\nProduction:")
			fmt.Fprintf(out, "  Plan Entries:     %d (0 = built-in plan)\n", len(cfg.Production.Plan))
			fmt.Fprintf(out, "  Reserve:          %d per mineral, %d overrides\n", cfg.Production.ReserveAmount, len(cfg.Production.Reserve))
			fmt.Fprintf(out, "  Batch Size:       %d\n", cfg.Production.BatchSize)
			fmt.Fprintf(out, "  Reaction Amount:  %d per tick\n", cfg.Production.ReactionAmount)

			fmt.Fprintln(out, "\nMetrics:")
			fmt.Fprintf(out, "  Enabled:          %v\n", cfg.Metrics.Enabled)
			fmt.Fprintf(out, "  Endpoint:         %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)

			fmt.Fprintln(out, "\nDaemon:")
			fmt.Fprintf(out, "  PID File:         %s\n", cfg.Daemon.PIDFile)
			fmt.Fprintf(out, "  Status Socket:    %s\n", cfg.Daemon.SocketPath)
			fmt.Fprintf(out, "  Shutdown Timeout: %s\n", cfg.Daemon.ShutdownTimeout)

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}
}

func newConfigSetRoomCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-room <room>",
		Short: "Set the default room for status and plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := handler.SetDefaultRoom(args[0]); err != nil {
				return fmt.Errorf("failed to set default room: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Default room set to %s\n", args[0])
			return nil
		},
	}
}

func newConfigClearRoomCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-room",
		Short: "Clear the default room",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := handler.ClearDefaultRoom(); err != nil {
				return fmt.Errorf("failed to clear default room: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Default room cleared")
			return nil
		},
	}
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
