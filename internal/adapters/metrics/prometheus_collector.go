package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "colony"
	// Subsystem for tick loop metrics
	subsystem = "sim"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalColonyCollector is set by SetGlobalColonyCollector when metrics are enabled
	globalColonyCollector ColonyMetricsRecorder
)

// ColonyMetricsRecorder defines the events the tick loop reports
type ColonyMetricsRecorder interface {
	RecordAgentStep(room, role, phase string, switched, failed bool)
	RecordTaskPublished(room, resource string, amount int)
	RecordTaskRetired(room, resource string, amount int)
	RecordTaskCancelled(room, resource string)
	RecordFacilityTransition(room, facility, from, to string)
	RecordProduced(room, facility, compound string, amount int)
	RecordReserveGated(room, facility, target string)
	RecordTickDuration(room string, seconds float64)
}

// InitRegistry initializes the Prometheus registry.
// Call once at startup when metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global registry, nil when metrics are disabled
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalColonyCollector sets the collector the Record functions forward to
func SetGlobalColonyCollector(collector ColonyMetricsRecorder) {
	globalColonyCollector = collector
}

// RecordAgentStep records one engine step of an agent
func RecordAgentStep(room, role, phase string, switched, failed bool) {
	if globalColonyCollector != nil {
		globalColonyCollector.RecordAgentStep(room, role, phase, switched, failed)
	}
}

// RecordTaskPublished records a logistics task becoming active
func RecordTaskPublished(room, resource string, amount int) {
	if globalColonyCollector != nil {
		globalColonyCollector.RecordTaskPublished(room, resource, amount)
	}
}

// RecordTaskRetired records a fulfilled logistics task leaving the board
func RecordTaskRetired(room, resource string, amount int) {
	if globalColonyCollector != nil {
		globalColonyCollector.RecordTaskRetired(room, resource, amount)
	}
}

// RecordTaskCancelled records an active task dropped before completion
func RecordTaskCancelled(room, resource string) {
	if globalColonyCollector != nil {
		globalColonyCollector.RecordTaskCancelled(room, resource)
	}
}

// RecordFacilityTransition records a facility state change
func RecordFacilityTransition(room, facility, from, to string) {
	if globalColonyCollector != nil {
		globalColonyCollector.RecordFacilityTransition(room, facility, from, to)
	}
}

// RecordProduced records compound units synthesized by a facility
func RecordProduced(room, facility, compound string, amount int) {
	if globalColonyCollector != nil {
		globalColonyCollector.RecordProduced(room, facility, compound, amount)
	}
}

// RecordReserveGated records a tick where the reserve gate held a facility back
func RecordReserveGated(room, facility, target string) {
	if globalColonyCollector != nil {
		globalColonyCollector.RecordReserveGated(room, facility, target)
	}
}

// RecordTickDuration records how long a room tick took
func RecordTickDuration(room string, seconds float64) {
	if globalColonyCollector != nil {
		globalColonyCollector.RecordTickDuration(room, seconds)
	}
}
