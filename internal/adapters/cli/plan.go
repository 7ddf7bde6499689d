package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/application/setup"
	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/production"
	"github.com/andrescamacho/colony-go/internal/domain/structure"
	"github.com/andrescamacho/colony-go/internal/infrastructure/config"
	"github.com/andrescamacho/colony-go/internal/infrastructure/database"
)

// NewPlanCommand shows the production plan and what a room would build next
func NewPlanCommand() *cobra.Command {
	var room string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the production plan",
		Long: `Show the ordered production targets and, for a room, the target the
facility would pick next from the room's stock.

Stock comes from the room's latest snapshot, or from its configured initial
stock when nothing was persisted yet.

Examples:
  colony plan
  colony plan --room W1N1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			builder := setup.NewColonyBuilder()
			plan, err := builder.BuildPlan(cfg.Production)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Production Plan")
			fmt.Fprintln(out, "===============")
			for i, e := range plan.Entries() {
				fmt.Fprintf(out, "  %2d. %-8s %d\n", i+1, e.Target, e.Number)
			}

			if room == "" {
				room, err = resolveRoom(nil)
				if err != nil || room == "" {
					return nil
				}
			}

			stock, source, err := roomStock(cmd.Context(), cfg, room)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nRoom %s (stock from %s):\n", room, source)

			entry, missing, ok := plan.Select(stock)
			if !ok {
				fmt.Fprintln(out, "  all targets met, facility idles")
				return nil
			}
			fmt.Fprintf(out, "  next target: %s (have %d, missing %d)\n",
				entry.Target, stock.Amount(entry.Target), missing)

			batch := min(missing, cfg.Production.BatchSize)
			resolver := compound.NewDefaultResolver()
			gate := production.NewReserveGate(builder.BuildThresholds(cfg.Production), resolver)
			subs, err := resolver.Resolve(entry.Target)
			if err != nil {
				return err
			}
			for _, s := range subs.Pair() {
				status := "ok"
				if !gate.CanConsume(s, batch, stock.Amount(s)) {
					status = "held by reserve"
				}
				fmt.Fprintf(out, "  %-8s have %-7d need %-6d %s\n", s, stock.Amount(s), batch, status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&room, "room", "", "Room to evaluate (default: user default room)")

	return cmd
}

// roomStock reads the persisted stock of room, falling back to config
func roomStock(ctx context.Context, cfg *config.Config, room string) (*structure.Store, string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := openDatabase(cfg)
	if err == nil {
		defer database.Close(db)
		snap, tick, err := persistence.NewGormRoomStateRepository(db, nil).Load(ctx, room)
		if err != nil {
			return nil, "", err
		}
		if snap != nil {
			store := structure.NewStore(structure.Unlimited)
			for c, n := range snap.Stock {
				if _, err := store.Add(compound.Compound(c), n); err != nil {
					return nil, "", err
				}
			}
			return store, fmt.Sprintf("snapshot at tick %d", tick), nil
		}
	}

	for _, rc := range cfg.Simulation.Rooms {
		if rc.Name != room {
			continue
		}
		store := structure.NewStore(structure.Unlimited)
		for _, s := range rc.InitialStock {
			if _, err := store.Add(compound.Compound(s.Compound), s.Amount); err != nil {
				return nil, "", err
			}
		}
		return store, "config", nil
	}
	return nil, "", fmt.Errorf("room %s is neither persisted nor configured", room)
}
