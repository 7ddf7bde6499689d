package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	daemongrpc "github.com/andrescamacho/colony-go/internal/adapters/grpc"
	"github.com/andrescamacho/colony-go/internal/adapters/logging"
	"github.com/andrescamacho/colony-go/internal/adapters/metrics"
	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/application/common"
	"github.com/andrescamacho/colony-go/internal/application/setup"
	"github.com/andrescamacho/colony-go/internal/application/simulation"
	"github.com/andrescamacho/colony-go/internal/infrastructure/config"
	"github.com/andrescamacho/colony-go/internal/infrastructure/database"
	"github.com/andrescamacho/colony-go/internal/infrastructure/pidfile"
)

// NewRunCommand starts the tick loop daemon
func NewRunCommand() *cobra.Command {
	var (
		maxTicks int64
		noPID    bool
		noSocket bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the colony tick loop",
		Long: `Run the colony: restore persisted rooms, then tick every room until
interrupted. Room snapshots are saved every simulation.snapshot_every ticks
and once more on shutdown. Live status is served on daemon.socket_path for
'colony status --live'.

Examples:
  colony run
  colony run --config configs/colony.yaml --max-ticks 500`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !noPID {
				pf := pidfile.New(cfg.Daemon.PIDFile)
				if err := pf.Acquire(); err != nil {
					return fmt.Errorf("failed to acquire PID file lock: %w", err)
				}
				defer func() { _ = pf.Release() }()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runColony(ctx, cfg, maxTicks, !noSocket)
		},
	}

	cmd.Flags().Int64Var(&maxTicks, "max-ticks", 0, "Stop after N ticks (0 = run until interrupted)")
	cmd.Flags().BoolVar(&noPID, "no-pid-file", false, "Skip the single-instance PID file")
	cmd.Flags().BoolVar(&noSocket, "no-socket", false, "Do not serve live status on the daemon socket")

	return cmd
}

func runColony(ctx context.Context, cfg *config.Config, maxTicks int64, serveStatus bool) error {
	logger, err := logging.NewZapLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	ctx = common.WithLogger(ctx, logger)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	rt, err := setup.NewColonyBuilder().Build(cfg)
	if err != nil {
		return fmt.Errorf("failed to build colony: %w", err)
	}

	sched := simulation.NewScheduler(
		rt.Colony,
		rt.World,
		rt.Planner,
		persistence.NewGormRoomStateRepository(db, nil),
		persistence.NewGormAdvisoryLogRepository(db, nil),
		simulation.Config{
			TickInterval:  cfg.Simulation.TickInterval,
			Workers:       cfg.Simulation.Workers,
			SnapshotEvery: cfg.Simulation.SnapshotEvery,
			MaxTicks:      maxTicks,
		},
	)

	restored, err := sched.Restore(ctx, rt.Facilities)
	if err != nil {
		return err
	}
	logger.Log(common.LevelInfo, "Colony ready", map[string]interface{}{
		"rooms":    rt.Colony.Names(),
		"restored": restored,
		"tick":     sched.CurrentTick(),
	})

	if cfg.Metrics.Enabled {
		stopMetrics, err := startMetrics(ctx, cfg.Metrics, sched)
		if err != nil {
			return err
		}
		defer stopMetrics()
	}

	if serveStatus {
		stopStatus, err := startStatusService(ctx, cfg.Daemon.SocketPath, sched)
		if err != nil {
			return err
		}
		defer stopStatus()
	}

	runErr := sched.Run(ctx)

	// the run context may already be cancelled; give the final save its own budget
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Daemon.ShutdownTimeout)
	defer cancel()
	if err := sched.Checkpoint(saveCtx); err != nil {
		logger.Log(common.LevelError, "Failed to checkpoint rooms on shutdown", map[string]interface{}{
			"error": err.Error(),
		})
		runErr = errors.Join(runErr, err)
	}
	logger.Log(common.LevelInfo, "Colony stopped", map[string]interface{}{"tick": sched.CurrentTick()})
	return runErr
}

func startMetrics(ctx context.Context, cfg config.MetricsConfig, sched *simulation.Scheduler) (func(), error) {
	logger := common.LoggerFromContext(ctx)

	metrics.InitRegistry()
	collector := metrics.NewColonyMetricsCollector(sched.RoomInfos, cfg.PollInterval)
	if err := collector.Register(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	metrics.SetGlobalColonyCollector(collector)
	collector.Start(ctx)

	server, err := metrics.NewServer(cfg.Host, cfg.Port, cfg.Path)
	if err != nil {
		collector.Stop()
		return nil, err
	}
	if err := server.Start(ctx); err != nil {
		collector.Stop()
		return nil, err
	}
	logger.Log(common.LevelInfo, "Metrics server listening", map[string]interface{}{
		"addr": server.Addr(),
		"path": cfg.Path,
	})

	return func() {
		collector.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}, nil
}

func startStatusService(ctx context.Context, socketPath string, sched *simulation.Scheduler) (func(), error) {
	server, err := daemongrpc.NewDaemonServer(sched, socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to start status service: %w", err)
	}

	serveCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := server.Serve(serveCtx); err != nil {
			common.LoggerFromContext(ctx).Log(common.LevelError, "Status service failed", map[string]interface{}{
				"socket": socketPath,
				"error":  err.Error(),
			})
		}
	}()

	return func() {
		cancel()
		<-done
	}, nil
}
