package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	daemongrpc "github.com/andrescamacho/colony-go/internal/adapters/grpc"
	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/application/common"
	"github.com/andrescamacho/colony-go/internal/infrastructure/database"
)

// NewStatusCommand prints persisted room state and recent advisories
func NewStatusCommand() *cobra.Command {
	var (
		limit int
		level string
		live  bool
	)

	cmd := &cobra.Command{
		Use:   "status [room]",
		Short: "Show persisted or live room state",
		Long: `Show the latest snapshot of every room, or of one room together with its
most recent advisories. With --live the running daemon is asked over its
status socket instead, giving the current tick, facility progress and the
active task.

The room defaults to the one set with 'colony config set-room'.

Examples:
  colony status
  colony status W1N1 --limit 50 --level WARNING
  colony status --live`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			room, err := resolveRoom(args)
			if err != nil {
				return err
			}
			if live {
				return printLiveStatus(cmd, cfg.Daemon.SocketPath, room)
			}

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			ctx := cmd.Context()
			states, err := persistence.NewGormRoomStateRepository(db, nil).List(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			shown := 0
			for _, st := range states {
				if room != "" && st.Snapshot.Name != room {
					continue
				}
				printRoomState(out, st)
				shown++
			}
			if shown == 0 {
				if room != "" {
					fmt.Fprintf(out, "No snapshot stored for room %s\n", room)
				} else {
					fmt.Fprintln(out, "No room snapshots stored yet")
				}
			}
			if room == "" {
				return nil
			}

			var levelFilter *string
			if level != "" {
				upper := strings.ToUpper(level)
				levelFilter = &upper
			}
			entries, err := persistence.NewGormAdvisoryLogRepository(db, nil).Recent(ctx, room, limit, levelFilter)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nRecent advisories (%d):\n", len(entries))
			for _, e := range entries {
				fmt.Fprintf(out, "  %s [%-7s] %-12s %s\n",
					e.Timestamp.Format("2006-01-02 15:04:05"), e.Level, e.Source, e.Message)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of advisories to show")
	cmd.Flags().StringVar(&level, "level", "", "Only show advisories of this level (DEBUG, INFO, WARNING, ERROR)")
	cmd.Flags().BoolVar(&live, "live", false, "Query the running daemon instead of the database")

	return cmd
}

func printRoomState(out io.Writer, st common.RoomState) {
	snap := st.Snapshot
	fmt.Fprintf(out, "Room %s (tick %d, saved %s)\n", snap.Name, st.Tick, st.UpdatedAt.Format("2006-01-02 15:04:05"))

	compounds := make([]string, 0, len(snap.Stock))
	for c := range snap.Stock {
		compounds = append(compounds, c)
	}
	sort.Strings(compounds)
	fmt.Fprintf(out, "  Storage %s:\n", snap.StorageID)
	for _, c := range compounds {
		fmt.Fprintf(out, "    %-8s %d\n", c, snap.Stock[c])
	}

	if t := snap.Task; t != nil {
		fmt.Fprintf(out, "  Task:     %s %d/%d %s -> %s\n",
			t.ResourceType, t.CompletedAmount, t.Amount, t.SourceID, t.TargetID)
	} else {
		fmt.Fprintln(out, "  Task:     (none)")
	}
	fmt.Fprintf(out, "  Queue:    %d pending\n", len(snap.Queue))

	if f := snap.Facility; f != nil {
		fmt.Fprintf(out, "  Facility: %s %s", f.ID, f.State)
		if f.Target != "" {
			fmt.Fprintf(out, " target=%s batch=%d produced=%d deposited=%d", f.Target, f.Batch, f.Produced, f.Deposited)
		}
		fmt.Fprintln(out)
	}
}

func printLiveStatus(cmd *cobra.Command, socketPath, room string) error {
	client, err := daemongrpc.NewDaemonClient(socketPath)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	report, err := client.Status(ctx, room)
	if err != nil {
		return fmt.Errorf("is the daemon running? %w", err)
	}
	printLiveReport(cmd.OutOrStdout(), report)
	return nil
}

func printLiveReport(out io.Writer, report daemongrpc.StatusReport) {
	fmt.Fprintf(out, "Daemon at tick %d\n", report.Tick)
	for _, r := range report.Rooms {
		fmt.Fprintf(out, "Room %s\n", r.Name)
		if f := r.Facility; f != nil {
			fmt.Fprintf(out, "  Facility: %s %s", f.ID, f.State)
			if f.Target != "" {
				fmt.Fprintf(out, " target=%s produced=%d/%d", f.Target, f.Produced, f.Batch)
			}
			fmt.Fprintln(out)
		}
		if t := r.Task; t != nil {
			fmt.Fprintf(out, "  Task:     %s %d/%d %s -> %s (%d left)\n",
				t.Resource, t.Completed, t.Amount, t.SourceID, t.TargetID, t.Remaining())
		} else {
			fmt.Fprintln(out, "  Task:     (none)")
		}
		fmt.Fprintf(out, "  Queue:    %d pending\n", r.QueueDepth)
	}
}
