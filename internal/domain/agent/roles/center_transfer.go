package roles

import (
	"context"
	"fmt"

	"github.com/andrescamacho/colony-go/internal/domain/agent"
	"github.com/andrescamacho/colony-go/internal/domain/logistics"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

const CenterTransferName = "centerTransfer"

// CenterTransfer works the room's logistics task: it parks at an anchor tile,
// withdraws the task resource from the task source and carries it to the task
// target, reporting exactly what each transfer moved.
type CenterTransfer struct {
	host   agent.Host
	board  agent.TaskBoard
	anchor agent.Position
	// homeID receives cargo that does not match the active task
	homeID string
}

func NewCenterTransfer(host agent.Host, board agent.TaskBoard, anchor agent.Position, homeID string) *CenterTransfer {
	return &CenterTransfer{host: host, board: board, anchor: anchor, homeID: homeID}
}

func (r *CenterTransfer) Name() string     { return CenterTransferName }
func (r *CenterTransfer) BodyType() string { return "transfer" }

func (r *CenterTransfer) Prepare(_ context.Context, a agent.Agent) {
	r.host.MoveToPosition(a, r.anchor)
}

func (r *CenterTransfer) IsReady(a agent.Agent) bool {
	return r.host.At(a, r.anchor)
}

func (r *CenterTransfer) IsDelivering(a agent.Agent) bool {
	return a.CarriedTotal() > 0
}

func (r *CenterTransfer) Acquire(_ context.Context, a agent.Agent) error {
	task := r.board.Task(a.Room())
	if task == nil || task.IsFulfilled() {
		a.Say("no task")
		return nil
	}

	amount := task.Remaining()
	if free := a.FreeCapacity(); free < amount {
		amount = free
	}
	if amount <= 0 {
		return nil
	}

	status := r.host.Withdraw(a, task.SourceID(), task.ResourceType(), amount)
	switch status {
	case agent.OK:
	case agent.ErrNotInRange:
		r.host.MoveTo(a, task.SourceID())
	default:
		a.Say(fmt.Sprintf("ERROR %s", status))
	}
	return nil
}

func (r *CenterTransfer) Deliver(_ context.Context, a agent.Agent) error {
	task := r.board.Task(a.Room())
	if task == nil || task.IsFulfilled() || a.Carried(task.ResourceType()) == 0 {
		return r.stash(a)
	}
	resource := task.ResourceType()

	// capture the carried amount before transferring
	before := a.Carried(resource)
	amount := before
	if remaining := task.Remaining(); remaining < amount {
		amount = remaining
	}

	status := r.host.Transfer(a, task.TargetID(), resource, amount)
	switch status {
	case agent.OK:
	case agent.ErrNotInRange:
		r.host.MoveTo(a, task.TargetID())
		return nil
	default:
		a.Say(fmt.Sprintf("ERROR %s", status))
		return nil
	}

	moved := before - a.Carried(resource)
	if moved <= 0 {
		return nil
	}
	if err := r.board.HandleTask(a.Room(), task.ID(), moved); err != nil {
		if shared.IsInvariantViolation(err) {
			return err
		}
		if logistics.IsRejected(err) {
			a.Say("task gone")
			return nil
		}
		return fmt.Errorf("failed to report %d %s for %s: %w", moved, resource, a.Name(), err)
	}
	return nil
}

// stash returns cargo the active task does not want to the home store
func (r *CenterTransfer) stash(a agent.Agent) error {
	carried := a.CarriedCompounds()
	if r.homeID == "" || len(carried) == 0 {
		return nil
	}
	// one transfer per tick
	c := carried[0]
	status := r.host.Transfer(a, r.homeID, c, a.Carried(c))
	switch status {
	case agent.OK:
	case agent.ErrNotInRange:
		r.host.MoveTo(a, r.homeID)
	default:
		a.Say(fmt.Sprintf("ERROR %s", status))
	}
	return nil
}
