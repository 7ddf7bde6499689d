package production

import "github.com/andrescamacho/colony-go/internal/domain/compound"

// DefaultReserveAmount is the stock every raw mineral keeps before synthesis may draw on it
const DefaultReserveAmount = 40000

// ReserveThresholds maps raw compounds to the minimum stock that must remain
type ReserveThresholds map[compound.Compound]int

// DefaultReserveThresholds locks DefaultReserveAmount of every mineral
func DefaultReserveThresholds() ReserveThresholds {
	return ReserveThresholds{
		compound.Hydrogen:  DefaultReserveAmount,
		compound.Oxygen:    DefaultReserveAmount,
		compound.Utrium:    DefaultReserveAmount,
		compound.Lemergium: DefaultReserveAmount,
		compound.Keanium:   DefaultReserveAmount,
		compound.Zynthium:  DefaultReserveAmount,
		compound.Catalyst:  DefaultReserveAmount,
	}
}

// ReserveGate decides whether synthesis may consume raw materials
type ReserveGate struct {
	thresholds ReserveThresholds
	resolver   *compound.Resolver
}

// NewReserveGate copies thresholds; entries for non-raw compounds are ignored
func NewReserveGate(thresholds ReserveThresholds, resolver *compound.Resolver) *ReserveGate {
	copied := make(ReserveThresholds, len(thresholds))
	for c, v := range thresholds {
		if resolver.IsRaw(c) {
			copied[c] = v
		}
	}
	return &ReserveGate{thresholds: copied, resolver: resolver}
}

// CanConsume returns false iff c is raw, has a threshold, and taking amount
// out of currentStock would leave the stock at or below that threshold.
func (g *ReserveGate) CanConsume(c compound.Compound, amount, currentStock int) bool {
	if !g.resolver.IsRaw(c) {
		return true
	}
	threshold, ok := g.thresholds[c]
	if !ok {
		return true
	}
	return currentStock-amount > threshold
}

// Threshold returns the configured reserve for c
func (g *ReserveGate) Threshold(c compound.Compound) (int, bool) {
	v, ok := g.thresholds[c]
	return v, ok
}
