package compound

import "sync"

// defaultReactions maps every synthesizable product to the two substrates
// that react into it. Raw materials have no entry.
var defaultReactions = map[Compound][2]Compound{
	// Tier 3
	CatalyzedGhodiumAcid:       {GhodiumAcid, Catalyst},
	CatalyzedGhodiumAlkalide:   {GhodiumAlkalide, Catalyst},
	CatalyzedKeaniumAcid:       {KeaniumAcid, Catalyst},
	CatalyzedKeaniumAlkalide:   {KeaniumAlkalide, Catalyst},
	CatalyzedLemergiumAcid:     {LemergiumAcid, Catalyst},
	CatalyzedLemergiumAlkalide: {LemergiumAlkalide, Catalyst},
	CatalyzedUtriumAcid:        {UtriumAcid, Catalyst},
	CatalyzedUtriumAlkalide:    {UtriumAlkalide, Catalyst},
	CatalyzedZynthiumAcid:      {ZynthiumAcid, Catalyst},
	CatalyzedZynthiumAlkalide:  {ZynthiumAlkalide, Catalyst},

	// Tier 2
	GhodiumAcid:       {GhodiumHydride, Hydroxide},
	GhodiumAlkalide:   {GhodiumOxide, Hydroxide},
	KeaniumAcid:       {KeaniumHydride, Hydroxide},
	KeaniumAlkalide:   {KeaniumOxide, Hydroxide},
	LemergiumAcid:     {LemergiumHydride, Hydroxide},
	LemergiumAlkalide: {LemergiumOxide, Hydroxide},
	UtriumAcid:        {UtriumHydride, Hydroxide},
	UtriumAlkalide:    {UtriumOxide, Hydroxide},
	ZynthiumAcid:      {ZynthiumHydride, Hydroxide},
	ZynthiumAlkalide:  {ZynthiumOxide, Hydroxide},

	// Tier 1
	GhodiumHydride:   {Ghodium, Hydrogen},
	GhodiumOxide:     {Ghodium, Oxygen},
	KeaniumHydride:   {Keanium, Hydrogen},
	KeaniumOxide:     {Keanium, Oxygen},
	LemergiumHydride: {Lemergium, Hydrogen},
	LemergiumOxide:   {Lemergium, Oxygen},
	UtriumHydride:    {Utrium, Hydrogen},
	UtriumOxide:      {Utrium, Oxygen},
	ZynthiumHydride:  {Zynthium, Hydrogen},
	ZynthiumOxide:    {Zynthium, Oxygen},

	// Base
	Ghodium:         {ZynthiumKeanite, UtriumLemergite},
	ZynthiumKeanite: {Zynthium, Keanium},
	UtriumLemergite: {Utrium, Lemergium},
	Hydroxide:       {Hydrogen, Oxygen},
}

// ReactionTable is an immutable product -> substrates graph
type ReactionTable struct {
	edges map[Compound][2]Compound
	raw   map[Compound]bool
}

// NewReactionTable copies the given edges and raw set and validates the graph.
// Every substrate must be either raw or itself a product, and the graph must be acyclic.
func NewReactionTable(edges map[Compound][2]Compound, raw []Compound) (*ReactionTable, error) {
	t := &ReactionTable{
		edges: make(map[Compound][2]Compound, len(edges)),
		raw:   make(map[Compound]bool, len(raw)),
	}
	for _, r := range raw {
		t.raw[r] = true
	}
	for product, subs := range edges {
		if product == "" {
			return nil, &ErrInvalidReaction{Product: product, Reason: "empty product"}
		}
		if t.raw[product] {
			return nil, &ErrInvalidReaction{Product: product, Reason: "raw material cannot be a product"}
		}
		for _, s := range subs {
			if s == "" {
				return nil, &ErrInvalidReaction{Product: product, Reason: "empty substrate"}
			}
		}
		t.edges[product] = subs
	}
	for product, subs := range t.edges {
		for _, s := range subs {
			if !t.raw[s] {
				if _, ok := t.edges[s]; !ok {
					return nil, &ErrInvalidReaction{Product: product, Reason: "substrate " + string(s) + " is neither raw nor producible"}
				}
			}
		}
	}
	if err := t.detectCycles(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *ReactionTable) detectCycles() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[Compound]int, len(t.edges))

	var visit func(c Compound, path []Compound) error
	visit = func(c Compound, path []Compound) error {
		switch state[c] {
		case done:
			return nil
		case visiting:
			return &ErrCircularDependency{Compound: c, Chain: append(path, c)}
		}
		subs, ok := t.edges[c]
		if !ok {
			state[c] = done
			return nil
		}
		state[c] = visiting
		path = append(path, c)
		for _, s := range subs {
			if err := visit(s, path); err != nil {
				return err
			}
		}
		state[c] = done
		return nil
	}

	for _, product := range t.Products() {
		if err := visit(product, nil); err != nil {
			return err
		}
	}
	return nil
}

// Substrates returns the edge for product, if any
func (t *ReactionTable) Substrates(product Compound) ([2]Compound, bool) {
	subs, ok := t.edges[product]
	return subs, ok
}

// IsRaw reports whether c is a raw material
func (t *ReactionTable) IsRaw(c Compound) bool {
	return t.raw[c]
}

// Products returns every synthesizable compound sorted by name
func (t *ReactionTable) Products() []Compound {
	out := make([]Compound, 0, len(t.edges))
	for p := range t.edges {
		out = append(out, p)
	}
	sortCompounds(out)
	return out
}

var (
	defaultTableOnce sync.Once
	defaultTable     *ReactionTable
)

// DefaultReactionTable returns the built-in reaction graph. It is loaded once
// and never mutated.
func DefaultReactionTable() *ReactionTable {
	defaultTableOnce.Do(func() {
		t, err := NewReactionTable(defaultReactions, RawMaterials)
		if err != nil {
			panic("compound: built-in reaction table is invalid: " + err.Error())
		}
		defaultTable = t
	})
	return defaultTable
}
