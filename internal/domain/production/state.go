package production

import "fmt"

// FacilityState is the phase of a facility's synthesis cycle
type FacilityState string

const (
	StateSelectTarget      FacilityState = "SELECT_TARGET"
	StateAcquireSubstrates FacilityState = "ACQUIRE_SUBSTRATES"
	StateSynthesizing      FacilityState = "SYNTHESIZING"
	StateDepositOutput     FacilityState = "DEPOSIT_OUTPUT"
)

// Next returns the fixed successor of s
func (s FacilityState) Next() FacilityState {
	switch s {
	case StateSelectTarget:
		return StateAcquireSubstrates
	case StateAcquireSubstrates:
		return StateSynthesizing
	case StateSynthesizing:
		return StateDepositOutput
	default:
		return StateSelectTarget
	}
}

// CanTransitionTo reports whether moving from s to next is allowed. Besides
// the fixed cycle, a synthesis run may fall back to acquiring substrates.
func (s FacilityState) CanTransitionTo(next FacilityState) bool {
	if next == s.Next() {
		return true
	}
	return s == StateSynthesizing && next == StateAcquireSubstrates
}

func (s FacilityState) IsValid() bool {
	switch s {
	case StateSelectTarget, StateAcquireSubstrates, StateSynthesizing, StateDepositOutput:
		return true
	}
	return false
}

// ParseFacilityState converts a persisted value back into a state
func ParseFacilityState(value string) (FacilityState, error) {
	s := FacilityState(value)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown facility state %q", value)
	}
	return s, nil
}
