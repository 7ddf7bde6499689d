package simulation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/colony-go/internal/adapters/metrics"
	"github.com/andrescamacho/colony-go/internal/application/common"
	"github.com/andrescamacho/colony-go/internal/application/logistics"
	"github.com/andrescamacho/colony-go/internal/domain/agent"
	"github.com/andrescamacho/colony-go/internal/domain/colony"
	"github.com/andrescamacho/colony-go/internal/domain/production"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/structure"
)

// World is the host side of a tick: the agents living in a room, the
// room's passive per-tick effects and what the agents said
type World interface {
	Units(room string) []agent.Unit
	Advance(room string)
	DrainSpeech(room string) []agent.Speech
}

// StoreBinder is implemented by worlds whose structures must follow a room
// that was replaced by a restored copy
type StoreBinder interface {
	Rebind(structureID string, store *structure.Store) error
}

// Config controls tick pacing and fan-out
type Config struct {
	TickInterval time.Duration
	// Workers bounds how many rooms tick concurrently; 0 means one per room
	Workers int
	// SnapshotEvery persists room state every N ticks; 0 disables it
	SnapshotEvery int64
	// MaxTicks stops Run after N ticks; 0 runs until the context ends
	MaxTicks int64
}

// RoomReport is what one room did in a tick
type RoomReport struct {
	Room     string
	Steps    []agent.StepResult
	Facility *production.Transition
	Planner  logistics.StepResult
	Saved    bool
}

// TickReport collects every room's report for one tick
type TickReport struct {
	Tick  int64
	Rooms []RoomReport
}

// Scheduler drives the colony one tick at a time. Rooms tick in parallel;
// everything inside a room runs under that room's lock.
type Scheduler struct {
	colony     *colony.Colony
	world      World
	planner    *logistics.Planner
	engine     *agent.Engine
	states     common.RoomStateRepository
	advisories common.AdvisoryLog
	config     Config
	tick       atomic.Int64
}

// NewScheduler creates a scheduler. states and advisories may be nil.
func NewScheduler(
	c *colony.Colony,
	world World,
	planner *logistics.Planner,
	states common.RoomStateRepository,
	advisories common.AdvisoryLog,
	config Config,
) *Scheduler {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	return &Scheduler{
		colony:     c,
		world:      world,
		planner:    planner,
		engine:     agent.NewEngine(),
		states:     states,
		advisories: advisories,
		config:     config,
	}
}

// CurrentTick returns the number of the last completed tick
func (s *Scheduler) CurrentTick() int64 {
	return s.tick.Load()
}

// Run ticks until ctx is cancelled, MaxTicks is reached or an invariant
// violation surfaces
func (s *Scheduler) Run(ctx context.Context) error {
	logger := common.LoggerFromContext(ctx)
	limiter := rate.NewLimiter(rate.Every(s.config.TickInterval), 1)

	logger.Log(common.LevelInfo, "Scheduler started", map[string]interface{}{
		"tick_interval": s.config.TickInterval.String(),
		"rooms":         s.colony.Names(),
		"start_tick":    s.CurrentTick(),
	})

	var ran int64
	for s.config.MaxTicks == 0 || ran < s.config.MaxTicks {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				logger.Log(common.LevelInfo, "Scheduler stopped", map[string]interface{}{"tick": s.CurrentTick()})
				return nil
			}
			return fmt.Errorf("rate limiter error: %w", err)
		}
		if _, err := s.Tick(ctx); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return nil
			}
			return err
		}
		ran++
	}
	logger.Log(common.LevelInfo, "Scheduler finished", map[string]interface{}{"tick": s.CurrentTick()})
	return nil
}

// Tick advances every room by one tick. Only invariant violations are
// returned; everything else is logged and recorded as an advisory.
func (s *Scheduler) Tick(ctx context.Context) (TickReport, error) {
	tick := s.tick.Add(1)
	names := s.colony.Names()
	reports := make([]RoomReport, len(names))

	g, gctx := errgroup.WithContext(ctx)
	if s.config.Workers > 0 {
		g.SetLimit(s.config.Workers)
	}
	for i, name := range names {
		g.Go(func() error {
			start := time.Now()
			err := s.colony.WithRoom(name, func(room *colony.Room) error {
				rep, err := s.tickRoom(gctx, tick, room)
				reports[i] = rep
				return err
			})
			metrics.RecordTickDuration(name, time.Since(start).Seconds())
			return err
		})
	}
	err := g.Wait()
	return TickReport{Tick: tick, Rooms: reports}, err
}

func (s *Scheduler) tickRoom(ctx context.Context, tick int64, room *colony.Room) (RoomReport, error) {
	logger := common.LoggerFromContext(ctx)
	rep := RoomReport{Room: room.Name()}

	s.world.Advance(room.Name())

	for _, u := range rotate(s.world.Units(room.Name()), tick) {
		res := s.engine.Step(ctx, u)
		rep.Steps = append(rep.Steps, res)
		metrics.RecordAgentStep(room.Name(), res.Role, string(res.Phase), res.Switched, res.Err != nil)

		if res.Switched {
			logger.Log(common.LevelDebug, "Agent switched mode", map[string]interface{}{
				"room":       room.Name(),
				"agent":      res.Agent,
				"role":       res.Role,
				"delivering": res.Phase == agent.PhaseDelivering,
			})
		}
		if res.Err != nil {
			if shared.IsInvariantViolation(res.Err) {
				return rep, fmt.Errorf("agent %s in room %s: %w", res.Agent, room.Name(), res.Err)
			}
			s.report(ctx, room.Name(), res.Agent, res.Err)
		}
	}

	for _, sp := range s.world.DrainSpeech(room.Name()) {
		if strings.HasPrefix(sp.Message, "ERROR") {
			s.advise(ctx, room.Name(), sp.Agent, common.LevelWarn, sp.Message, nil)
			continue
		}
		// idle agents repeat themselves every tick; the advisory log dedupes
		logger.Log(common.LevelDebug, sp.Message, map[string]interface{}{"room": room.Name(), "source": sp.Agent})
		s.record(ctx, room.Name(), sp.Agent, common.LevelInfo, sp.Message, nil)
	}

	if f := room.Facility(); f != nil {
		tr, err := f.Tick(ctx, production.TickEnv{
			Stock:     room.Storage(),
			Requester: s.planner.RequesterFor(room),
			Sink:      room.StorageSink(),
		})
		rep.Facility = &tr
		s.recordTransition(ctx, room.Name(), f.ID(), tr)
		if err != nil {
			if shared.IsInvariantViolation(err) {
				return rep, fmt.Errorf("facility %s in room %s: %w", f.ID(), room.Name(), err)
			}
			s.report(ctx, room.Name(), f.ID(), err)
		}
	}

	pres, err := s.planner.Step(ctx, room)
	rep.Planner = pres
	s.recordPlanner(ctx, room.Name(), pres)
	if err != nil {
		if shared.IsInvariantViolation(err) {
			return rep, fmt.Errorf("planner in room %s: %w", room.Name(), err)
		}
		s.report(ctx, room.Name(), "planner", err)
	}

	if s.states != nil && s.config.SnapshotEvery > 0 && tick%s.config.SnapshotEvery == 0 {
		if err := s.states.Save(ctx, tick, room.Snapshot()); err != nil {
			logger.Log(common.LevelWarn, "Failed to persist room snapshot", map[string]interface{}{
				"room":  room.Name(),
				"tick":  tick,
				"error": err.Error(),
			})
		} else {
			rep.Saved = true
		}
	}

	return rep, nil
}

func (s *Scheduler) recordTransition(ctx context.Context, room, facilityID string, tr production.Transition) {
	logger := common.LoggerFromContext(ctx)

	if len(tr.Gated) > 0 {
		metrics.RecordReserveGated(room, facilityID, string(tr.Target))
		logger.Log(common.LevelDebug, "Reserve gate held substrates", map[string]interface{}{
			"room":     room,
			"facility": facilityID,
			"target":   string(tr.Target),
			"gated":    tr.Gated,
		})
	}
	if !tr.Changed() {
		return
	}

	metrics.RecordFacilityTransition(room, facilityID, string(tr.From), string(tr.To))
	if tr.From == production.StateSynthesizing && tr.To == production.StateDepositOutput {
		metrics.RecordProduced(room, facilityID, string(tr.Target), tr.Produced)
	}
	logger.Log(common.LevelInfo, "Facility state changed", map[string]interface{}{
		"room":     room,
		"facility": facilityID,
		"from":     string(tr.From),
		"to":       string(tr.To),
		"target":   string(tr.Target),
		"note":     tr.Note,
	})
}

func (s *Scheduler) recordPlanner(ctx context.Context, room string, res logistics.StepResult) {
	logger := common.LoggerFromContext(ctx)

	if t := res.Retired; t != nil {
		metrics.RecordTaskRetired(room, string(t.ResourceType()), t.CompletedAmount())
		logger.Log(common.LevelInfo, "Logistics task completed", map[string]interface{}{
			"room":     room,
			"task_id":  t.ID(),
			"resource": string(t.ResourceType()),
			"amount":   t.Amount(),
		})
	}
	if t := res.Cancelled; t != nil {
		metrics.RecordTaskCancelled(room, string(t.ResourceType()))
		s.advise(ctx, room, "planner", common.LevelWarn, "task cancelled: endpoint missing", map[string]interface{}{
			"task_id":   t.ID(),
			"source_id": t.SourceID(),
			"target_id": t.TargetID(),
		})
	}
	for _, req := range res.Withheld {
		logger.Log(common.LevelInfo, "Queued request withheld by reserve", map[string]interface{}{
			"room":      room,
			"target_id": req.TargetID,
			"resource":  string(req.ResourceType),
			"amount":    req.Amount,
		})
	}
	if t := res.Published; t != nil {
		metrics.RecordTaskPublished(room, string(t.ResourceType()), t.Amount())
		logger.Log(common.LevelInfo, "Logistics task published", map[string]interface{}{
			"room":      room,
			"task_id":   t.ID(),
			"source_id": t.SourceID(),
			"target_id": t.TargetID(),
			"resource":  string(t.ResourceType()),
			"amount":    t.Amount(),
			"pending":   res.Pending,
		})
	}
}

// report logs a recoverable error and stores it as an advisory
func (s *Scheduler) report(ctx context.Context, room, source string, err error) {
	s.advise(ctx, room, source, common.LevelError, err.Error(), nil)
}

func (s *Scheduler) advise(ctx context.Context, room, source, level, message string, metadata map[string]interface{}) {
	logger := common.LoggerFromContext(ctx)

	fields := map[string]interface{}{"room": room, "source": source}
	for k, v := range metadata {
		fields[k] = v
	}
	logger.Log(level, message, fields)
	s.record(ctx, room, source, level, message, metadata)
}

// record stores an advisory without logging it
func (s *Scheduler) record(ctx context.Context, room, source, level, message string, metadata map[string]interface{}) {
	if s.advisories == nil {
		return
	}
	logger := common.LoggerFromContext(ctx)
	if err := s.advisories.Record(ctx, room, source, level, message, metadata); err != nil {
		logger.Log(common.LevelWarn, "Failed to record advisory", map[string]interface{}{
			"room":  room,
			"error": err.Error(),
		})
	}
}

// rotate starts the unit order at a different agent every tick so no agent
// always acts first on a shared task
func rotate(units []agent.Unit, tick int64) []agent.Unit {
	n := len(units)
	if n < 2 {
		return units
	}
	offset := int(tick % int64(n))
	out := make([]agent.Unit, 0, n)
	out = append(out, units[offset:]...)
	return append(out, units[:offset]...)
}
