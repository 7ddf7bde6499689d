package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RoomInfo is the polled view of a room
type RoomInfo struct {
	Name          string
	Stock         map[string]int
	QueueDepth    int
	HasTask       bool
	TaskID        string
	TaskSourceID  string
	TaskTargetID  string
	TaskResource  string
	TaskAmount    int
	TaskCompleted int
	TaskRemaining int

	FacilityID       string
	FacilityState    string
	FacilityTarget   string
	FacilityBatch    int
	FacilityProduced int
}

// ColonyMetricsCollector handles agent, logistics and production metrics
type ColonyMetricsCollector struct {
	// Dependencies
	getRooms func() []RoomInfo
	interval time.Duration

	// Agent metrics
	agentStepsTotal    *prometheus.CounterVec
	agentSwitchesTotal *prometheus.CounterVec
	agentFailuresTotal *prometheus.CounterVec

	// Logistics metrics
	tasksPublishedTotal *prometheus.CounterVec
	tasksRetiredTotal   *prometheus.CounterVec
	tasksCancelledTotal *prometheus.CounterVec
	unitsDeliveredTotal *prometheus.CounterVec
	taskRemaining       *prometheus.GaugeVec
	queueDepth          *prometheus.GaugeVec

	// Production metrics
	facilityState            *prometheus.GaugeVec
	facilityTransitionsTotal *prometheus.CounterVec
	producedTotal            *prometheus.CounterVec
	reserveGatedTotal        *prometheus.CounterVec
	stockAmount              *prometheus.GaugeVec

	tickDuration *prometheus.HistogramVec

	// Lifecycle
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewColonyMetricsCollector creates a collector that polls getRooms every interval
func NewColonyMetricsCollector(getRooms func() []RoomInfo, interval time.Duration) *ColonyMetricsCollector {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &ColonyMetricsCollector{
		getRooms: getRooms,
		interval: interval,

		agentStepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "agent_steps_total",
				Help:      "Engine steps executed, by role and phase",
			},
			[]string{"room", "role", "phase"},
		),
		agentSwitchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "agent_switches_total",
				Help:      "Acquire/deliver mode flips",
			},
			[]string{"room", "role"},
		),
		agentFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "agent_failures_total",
				Help:      "Engine steps that ended in an error",
			},
			[]string{"room", "role"},
		),
		tasksPublishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tasks_published_total",
				Help:      "Logistics tasks published",
			},
			[]string{"room", "resource"},
		),
		tasksRetiredTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tasks_retired_total",
				Help:      "Logistics tasks retired after completion",
			},
			[]string{"room", "resource"},
		),
		tasksCancelledTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tasks_cancelled_total",
				Help:      "Logistics tasks cancelled before completion",
			},
			[]string{"room", "resource"},
		),
		unitsDeliveredTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "units_delivered_total",
				Help:      "Units moved by retired logistics tasks",
			},
			[]string{"room", "resource"},
		),
		taskRemaining: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "task_remaining_units",
				Help:      "Units still to move for the active task",
			},
			[]string{"room", "resource"},
		),
		queueDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_queue_depth",
				Help:      "Transfer requests waiting for the board",
			},
			[]string{"room"},
		),
		facilityState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "facility_state",
				Help:      "Current facility state (1 = active)",
			},
			[]string{"room", "facility", "state"},
		),
		facilityTransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "facility_transitions_total",
				Help:      "Facility state transitions",
			},
			[]string{"room", "facility", "from", "to"},
		),
		producedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "produced_units_total",
				Help:      "Compound units synthesized",
			},
			[]string{"room", "facility", "compound"},
		),
		reserveGatedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reserve_gated_total",
				Help:      "Target selections held back by the reserve gate",
			},
			[]string{"room", "facility", "target"},
		),
		stockAmount: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stock_units",
				Help:      "Units held in room storage",
			},
			[]string{"room", "compound"},
		),
		tickDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "room_tick_duration_seconds",
				Help:      "Time spent ticking one room",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"room"},
		),
	}
}

// Register registers all metrics with the Prometheus registry
func (c *ColonyMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.agentStepsTotal,
		c.agentSwitchesTotal,
		c.agentFailuresTotal,
		c.tasksPublishedTotal,
		c.tasksRetiredTotal,
		c.tasksCancelledTotal,
		c.unitsDeliveredTotal,
		c.taskRemaining,
		c.queueDepth,
		c.facilityState,
		c.facilityTransitionsTotal,
		c.producedTotal,
		c.reserveGatedTotal,
		c.stockAmount,
		c.tickDuration,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// Start begins polling room state
func (c *ColonyMetricsCollector) Start(ctx context.Context) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.collectRoomMetrics()
}

// Stop gracefully stops the metrics collection
func (c *ColonyMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *ColonyMetricsCollector) collectRoomMetrics() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.UpdateRoomMetrics()
		}
	}
}

// UpdateRoomMetrics refreshes the polled gauges from getRooms
func (c *ColonyMetricsCollector) UpdateRoomMetrics() {
	if c.getRooms == nil {
		return
	}

	rooms := c.getRooms()

	// Reset gauges so vanished rooms, tasks and states drop out
	c.stockAmount.Reset()
	c.taskRemaining.Reset()
	c.facilityState.Reset()

	for _, room := range rooms {
		for compound, amount := range room.Stock {
			c.stockAmount.WithLabelValues(room.Name, compound).Set(float64(amount))
		}
		c.queueDepth.WithLabelValues(room.Name).Set(float64(room.QueueDepth))
		if room.HasTask {
			c.taskRemaining.WithLabelValues(room.Name, room.TaskResource).Set(float64(room.TaskRemaining))
		}
		if room.FacilityID != "" {
			c.facilityState.WithLabelValues(room.Name, room.FacilityID, room.FacilityState).Set(1)
		}
	}
}

// RecordAgentStep records one engine step
func (c *ColonyMetricsCollector) RecordAgentStep(room, role, phase string, switched, failed bool) {
	c.agentStepsTotal.WithLabelValues(room, role, phase).Inc()
	if switched {
		c.agentSwitchesTotal.WithLabelValues(room, role).Inc()
	}
	if failed {
		c.agentFailuresTotal.WithLabelValues(room, role).Inc()
	}
}

// RecordTaskPublished records a task becoming active
func (c *ColonyMetricsCollector) RecordTaskPublished(room, resource string, amount int) {
	c.tasksPublishedTotal.WithLabelValues(room, resource).Inc()
	c.taskRemaining.WithLabelValues(room, resource).Set(float64(amount))
}

// RecordTaskRetired records a fulfilled task leaving the board
func (c *ColonyMetricsCollector) RecordTaskRetired(room, resource string, amount int) {
	c.tasksRetiredTotal.WithLabelValues(room, resource).Inc()
	c.unitsDeliveredTotal.WithLabelValues(room, resource).Add(float64(amount))
	c.taskRemaining.DeleteLabelValues(room, resource)
}

// RecordTaskCancelled records a task dropped before completion
func (c *ColonyMetricsCollector) RecordTaskCancelled(room, resource string) {
	c.tasksCancelledTotal.WithLabelValues(room, resource).Inc()
	c.taskRemaining.DeleteLabelValues(room, resource)
}

// RecordFacilityTransition records a facility state change
func (c *ColonyMetricsCollector) RecordFacilityTransition(room, facility, from, to string) {
	c.facilityTransitionsTotal.WithLabelValues(room, facility, from, to).Inc()
	c.facilityState.DeleteLabelValues(room, facility, from)
	c.facilityState.WithLabelValues(room, facility, to).Set(1)
}

// RecordProduced records synthesized units
func (c *ColonyMetricsCollector) RecordProduced(room, facility, compound string, amount int) {
	if amount <= 0 {
		return
	}
	c.producedTotal.WithLabelValues(room, facility, compound).Add(float64(amount))
}

// RecordReserveGated records a gated target selection
func (c *ColonyMetricsCollector) RecordReserveGated(room, facility, target string) {
	c.reserveGatedTotal.WithLabelValues(room, facility, target).Inc()
}

// RecordTickDuration records how long a room tick took
func (c *ColonyMetricsCollector) RecordTickDuration(room string, seconds float64) {
	c.tickDuration.WithLabelValues(room).Observe(seconds)
}
