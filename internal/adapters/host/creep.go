package host

import (
	"github.com/andrescamacho/colony-go/internal/domain/agent"
	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/structure"
)

// Creep is a mobile worker with a bounded cargo hold
type Creep struct {
	name   string
	room   string
	memory agent.Memory
	cargo  *structure.Store
	pos    agent.Position
	role   agent.Role
	said   []string
}

func newCreep(name, room string, capacity int, pos agent.Position, role agent.Role) *Creep {
	return &Creep{
		name:   name,
		room:   room,
		memory: agent.DefaultMemory(role.Name()),
		cargo:  structure.NewStore(capacity),
		pos:    pos,
		role:   role,
	}
}

func (c *Creep) Name() string                          { return c.name }
func (c *Creep) Room() string                          { return c.room }
func (c *Creep) Memory() *agent.Memory                 { return &c.memory }
func (c *Creep) Carried(r compound.Compound) int       { return c.cargo.Amount(r) }
func (c *Creep) CarriedTotal() int                     { return c.cargo.Used() }
func (c *Creep) FreeCapacity() int                     { return c.cargo.Free() }
func (c *Creep) CarriedCompounds() []compound.Compound { return c.cargo.Compounds() }
func (c *Creep) Pos() agent.Position                   { return c.pos }
func (c *Creep) Role() agent.Role                      { return c.role }

func (c *Creep) Say(msg string) {
	c.said = append(c.said, msg)
}

// step moves one tile toward dst along both axes and records it in the path
func (c *Creep) step(dst agent.Position) {
	c.pos.X += sign(dst.X - c.pos.X)
	c.pos.Y += sign(dst.Y - c.pos.Y)
	c.memory.Path = append(c.memory.Path, c.pos)
	if len(c.memory.Path) > maxPath {
		c.memory.Path = c.memory.Path[len(c.memory.Path)-maxPath:]
	}
}

const maxPath = 16

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
