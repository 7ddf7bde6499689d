package agent

import (
	"context"
	"fmt"
)

// Phase is what an agent did during a step
type Phase string

const (
	PhasePreparing  Phase = "PREPARING"
	PhaseAcquiring  Phase = "ACQUIRING"
	PhaseDelivering Phase = "DELIVERING"
)

// StepResult reports one agent step
type StepResult struct {
	Agent    string
	Role     string
	Phase    Phase
	Switched bool
	Err      error
}

// ErrRolePanic wraps a panic raised inside a role hook
type ErrRolePanic struct {
	Agent string
	Role  string
	Value interface{}
}

func (e *ErrRolePanic) Error() string {
	return fmt.Sprintf("role %s panicked for agent %s: %v", e.Role, e.Agent, e.Value)
}

// Engine drives agents through their roles one tick at a time
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Step runs one tick of u. Until the agent is ready it only prepares. Once
// ready, the delivering predicate is evaluated fresh and either Deliver or
// Acquire runs. A panicking hook is reported in the result and never
// escapes to the caller.
func (e *Engine) Step(ctx context.Context, u Unit) (res StepResult) {
	a, role := u.Agent, u.Role
	res.Agent = a.Name()
	res.Role = role.Name()

	defer func() {
		if r := recover(); r != nil {
			res.Err = &ErrRolePanic{Agent: res.Agent, Role: res.Role, Value: r}
		}
	}()

	mem := a.Memory()
	if !mem.Ready {
		res.Phase = PhasePreparing
		if p, ok := role.(Preparer); ok {
			p.Prepare(ctx, a)
		}
		mem.Ready = true
		if rc, ok := role.(ReadinessChecker); ok {
			mem.Ready = rc.IsReady(a)
		}
		if !mem.Ready {
			return res
		}
	}

	working := role.IsDelivering(a)
	if working != mem.Working {
		res.Switched = true
		mem.Working = working
	}

	if working {
		res.Phase = PhaseDelivering
		res.Err = role.Deliver(ctx, a)
	} else {
		res.Phase = PhaseAcquiring
		res.Err = role.Acquire(ctx, a)
	}
	return res
}
