package production

import "fmt"

// ErrInvalidStateTransition indicates a facility phase change outside the cycle
type ErrInvalidStateTransition struct {
	From FacilityState
	To   FacilityState
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid facility transition from %s to %s", e.From, e.To)
}

// ErrInvalidPlan indicates a production plan entry that cannot be synthesized
type ErrInvalidPlan struct {
	Index  int
	Reason string
}

func (e *ErrInvalidPlan) Error() string {
	return fmt.Sprintf("invalid production plan entry %d: %s", e.Index, e.Reason)
}
