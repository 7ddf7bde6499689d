package roles

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/colony-go/internal/domain/agent"
)

// Spec carries the per-agent arguments a role is built from
type Spec struct {
	Role     string         `mapstructure:"role" json:"role"`
	SourceID string         `mapstructure:"source_id" json:"sourceId,omitempty"`
	HomeID   string         `mapstructure:"home_id" json:"homeId,omitempty"`
	Anchor   agent.Position `mapstructure:"anchor" json:"anchor"`
}

// Deps are the shared collaborators roles are wired to
type Deps struct {
	Host  agent.Host
	Board agent.TaskBoard
}

// Constructor builds a role from its spec
type Constructor func(deps Deps, spec Spec) (agent.Role, error)

// ErrUnknownRole indicates a spec names a role nobody registered
type ErrUnknownRole struct {
	Role string
}

func (e *ErrUnknownRole) Error() string {
	return fmt.Sprintf("unknown role: %s", e.Role)
}

// Registry maps role names to constructors
type Registry struct {
	constructors map[string]Constructor
}

// NewRegistry returns a registry with the built-in roles
func NewRegistry() *Registry {
	r := &Registry{constructors: make(map[string]Constructor)}
	r.Register(TransferName, func(deps Deps, spec Spec) (agent.Role, error) {
		if spec.SourceID == "" {
			return nil, fmt.Errorf("%s requires a source id", TransferName)
		}
		return NewTransfer(deps.Host, spec.SourceID), nil
	})
	r.Register(CenterTransferName, func(deps Deps, spec Spec) (agent.Role, error) {
		if deps.Board == nil {
			return nil, fmt.Errorf("%s requires a task board", CenterTransferName)
		}
		return NewCenterTransfer(deps.Host, deps.Board, spec.Anchor, spec.HomeID), nil
	})
	return r
}

// Register adds or replaces a constructor
func (r *Registry) Register(name string, c Constructor) {
	r.constructors[name] = c
}

// Build creates the role named by spec
func (r *Registry) Build(deps Deps, spec Spec) (agent.Role, error) {
	c, ok := r.constructors[spec.Role]
	if !ok {
		return nil, &ErrUnknownRole{Role: spec.Role}
	}
	return c(deps, spec)
}

// Names returns the registered role names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
