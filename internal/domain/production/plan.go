package production

import (
	"fmt"

	"github.com/andrescamacho/colony-go/internal/domain/compound"
)

// TargetEntry is one standing production quota
type TargetEntry struct {
	Target compound.Compound `json:"target" mapstructure:"target"`
	Number int               `json:"number" mapstructure:"number"`
}

// Plan is an ordered list of quotas. Earlier entries have priority.
type Plan struct {
	entries []TargetEntry
}

// NewPlan validates entries against the resolver. Targets must be
// synthesizable, quotas positive, and each target listed once.
func NewPlan(entries []TargetEntry, resolver *compound.Resolver) (*Plan, error) {
	seen := make(map[compound.Compound]bool, len(entries))
	for i, e := range entries {
		if e.Number <= 0 {
			return nil, &ErrInvalidPlan{Index: i, Reason: fmt.Sprintf("quota for %s must be positive", e.Target)}
		}
		if resolver.IsRaw(e.Target) {
			return nil, &ErrInvalidPlan{Index: i, Reason: fmt.Sprintf("%s is a raw material", e.Target)}
		}
		if _, err := resolver.Resolve(e.Target); err != nil {
			return nil, &ErrInvalidPlan{Index: i, Reason: err.Error()}
		}
		if seen[e.Target] {
			return nil, &ErrInvalidPlan{Index: i, Reason: fmt.Sprintf("%s listed twice", e.Target)}
		}
		seen[e.Target] = true
	}
	return &Plan{entries: append([]TargetEntry(nil), entries...)}, nil
}

// Entries returns a copy of the plan in priority order
func (p *Plan) Entries() []TargetEntry {
	return append([]TargetEntry(nil), p.entries...)
}

// Select returns the first entry whose stock is below its quota, together
// with the missing quantity. The scan follows slice order only, so the same
// stock always yields the same pick.
func (p *Plan) Select(stock StockReader) (TargetEntry, int, bool) {
	for _, e := range p.entries {
		have := stock.Amount(e.Target)
		if have < e.Number {
			return e, e.Number - have, true
		}
	}
	return TargetEntry{}, 0, false
}

// DefaultPlan returns the standing plan: base compounds and ghodium first,
// then the four alkalide boost lines.
func DefaultPlan() []TargetEntry {
	return []TargetEntry{
		{Target: compound.Hydroxide, Number: 4000},
		{Target: compound.ZynthiumKeanite, Number: 4000},
		{Target: compound.UtriumLemergite, Number: 4000},
		{Target: compound.Ghodium, Number: 5000},

		{Target: compound.KeaniumOxide, Number: 3000},
		{Target: compound.KeaniumAlkalide, Number: 2000},
		{Target: compound.CatalyzedKeaniumAlkalide, Number: 1000},

		{Target: compound.LemergiumOxide, Number: 3000},
		{Target: compound.LemergiumAlkalide, Number: 2000},
		{Target: compound.CatalyzedLemergiumAlkalide, Number: 1000},

		{Target: compound.ZynthiumOxide, Number: 3000},
		{Target: compound.ZynthiumAlkalide, Number: 2000},
		{Target: compound.CatalyzedZynthiumAlkalide, Number: 1000},

		{Target: compound.GhodiumOxide, Number: 3000},
		{Target: compound.GhodiumAlkalide, Number: 2000},
		{Target: compound.CatalyzedGhodiumAlkalide, Number: 1000},
	}
}
