package agent

import "context"

// Role is the behavior attached to an agent. Acquire and Deliver perform one
// tick of work; IsDelivering must be a pure function of observable agent state.
// Transient host failures are handled inside the hooks and never returned;
// an error return means a logical or invariant problem.
type Role interface {
	Name() string
	BodyType() string
	Acquire(ctx context.Context, a Agent) error
	Deliver(ctx context.Context, a Agent) error
	IsDelivering(a Agent) bool
}

// Preparer is implemented by roles that position themselves before working
type Preparer interface {
	Prepare(ctx context.Context, a Agent)
}

// ReadinessChecker is implemented by roles that gate work on a readiness check.
// Roles without it are ready as soon as they are prepared.
type ReadinessChecker interface {
	IsReady(a Agent) bool
}

// Unit binds an agent to its role for a tick
type Unit struct {
	Agent Agent
	Role  Role
}
