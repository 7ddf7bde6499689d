package roles

import (
	"context"
	"fmt"

	"github.com/andrescamacho/colony-go/internal/domain/agent"
	"github.com/andrescamacho/colony-go/internal/domain/compound"
)

const TransferName = "transfer"

// Transfer keeps spawns, extensions and towers topped up with energy drawn
// from a source structure (the room storage unless configured otherwise).
type Transfer struct {
	host     agent.Host
	sourceID string
}

func NewTransfer(host agent.Host, sourceID string) *Transfer {
	return &Transfer{host: host, sourceID: sourceID}
}

func (r *Transfer) Name() string     { return TransferName }
func (r *Transfer) BodyType() string { return "transfer" }

func (r *Transfer) IsDelivering(a agent.Agent) bool {
	return a.Carried(compound.Energy) > 0
}

func (r *Transfer) Acquire(_ context.Context, a agent.Agent) error {
	free := a.FreeCapacity()
	if free <= 0 {
		return nil
	}
	status := r.host.Withdraw(a, r.sourceID, compound.Energy, free)
	switch status {
	case agent.OK, agent.ErrNotEnough:
		// an empty source is waited out
	case agent.ErrNotInRange:
		r.host.MoveTo(a, r.sourceID)
	default:
		a.Say(fmt.Sprintf("ERROR %s", status))
	}
	return nil
}

func (r *Transfer) Deliver(_ context.Context, a agent.Agent) error {
	target, ok := r.host.FindClosest(a, needsEnergy)
	if !ok {
		return nil
	}
	status := r.host.Transfer(a, target, compound.Energy, a.Carried(compound.Energy))
	if status == agent.ErrNotInRange {
		r.host.MoveTo(a, target)
	}
	return nil
}

func needsEnergy(s agent.StructureInfo) bool {
	switch s.Kind {
	case agent.KindSpawn, agent.KindExtension, agent.KindTower:
		return s.Store != nil && s.Store.Free() > 0
	}
	return false
}
