package agent

// Memory is the per-agent state persisted between ticks
type Memory struct {
	Role    string     `json:"role"`
	Ready   bool       `json:"ready"`
	Working bool       `json:"working"`
	Path    []Position `json:"path"`
}

// DefaultMemory is the state an agent starts with when it is spawned
func DefaultMemory(role string) Memory {
	return Memory{
		Role:    role,
		Ready:   false,
		Working: false,
		Path:    []Position{},
	}
}

// Position is a tile in a room
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Range returns the Chebyshev distance between two positions
func (p Position) Range(other Position) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
