package compound

import "sync"

// Substrates is the one-level resolution of a product. Leaf is set for raw
// materials, in which case A and B are empty.
type Substrates struct {
	A    Compound
	B    Compound
	Leaf bool
}

// Pair returns both substrates as a slice, empty for leaves
func (s Substrates) Pair() []Compound {
	if s.Leaf {
		return nil
	}
	return []Compound{s.A, s.B}
}

// Resolver answers production graph queries against a static ReactionTable.
// Chains and tiers are memoized per product; the table never changes so
// entries are never evicted.
type Resolver struct {
	table *ReactionTable

	mu     sync.RWMutex
	chains map[Compound][]Compound
	tiers  map[Compound]int
}

// NewResolver creates a resolver over the given table
func NewResolver(table *ReactionTable) *Resolver {
	return &Resolver{
		table:  table,
		chains: make(map[Compound][]Compound),
		tiers:  make(map[Compound]int),
	}
}

// NewDefaultResolver creates a resolver over the built-in reaction table
func NewDefaultResolver() *Resolver {
	return NewResolver(DefaultReactionTable())
}

// Table returns the underlying reaction table
func (r *Resolver) Table() *ReactionTable {
	return r.table
}

// IsRaw reports whether c is a raw material
func (r *Resolver) IsRaw(c Compound) bool {
	return r.table.IsRaw(c)
}

// Known reports whether c is raw or has a reaction edge
func (r *Resolver) Known(c Compound) bool {
	if r.table.IsRaw(c) {
		return true
	}
	_, ok := r.table.Substrates(c)
	return ok
}

// Resolve returns the direct substrates of product
func (r *Resolver) Resolve(product Compound) (Substrates, error) {
	if r.table.IsRaw(product) {
		return Substrates{Leaf: true}, nil
	}
	subs, ok := r.table.Substrates(product)
	if !ok {
		return Substrates{}, &ErrUnknownCompound{Compound: product}
	}
	return Substrates{A: subs[0], B: subs[1]}, nil
}

// Chain returns every intermediate that must be synthesized to obtain product,
// in post-order (dependencies first, product last), without duplicates and
// without raw materials. A raw product yields an empty chain.
func (r *Resolver) Chain(product Compound) ([]Compound, error) {
	r.mu.RLock()
	cached, ok := r.chains[product]
	r.mu.RUnlock()
	if ok {
		return append([]Compound(nil), cached...), nil
	}

	seen := make(map[Compound]bool)
	chain := make([]Compound, 0)
	if err := r.collect(product, seen, &chain); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.chains[product] = chain
	r.mu.Unlock()

	return append([]Compound(nil), chain...), nil
}

func (r *Resolver) collect(c Compound, seen map[Compound]bool, chain *[]Compound) error {
	if seen[c] {
		return nil
	}
	subs, err := r.Resolve(c)
	if err != nil {
		return err
	}
	seen[c] = true
	if subs.Leaf {
		return nil
	}
	for _, s := range subs.Pair() {
		if err := r.collect(s, seen, chain); err != nil {
			return err
		}
	}
	*chain = append(*chain, c)
	return nil
}

// Tier returns 0 for raw materials and 1 + the highest substrate tier otherwise
func (r *Resolver) Tier(product Compound) (int, error) {
	r.mu.RLock()
	cached, ok := r.tiers[product]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	subs, err := r.Resolve(product)
	if err != nil {
		return 0, err
	}
	tier := 0
	if !subs.Leaf {
		for _, s := range subs.Pair() {
			t, err := r.Tier(s)
			if err != nil {
				return 0, err
			}
			if t+1 > tier {
				tier = t + 1
			}
		}
	}

	r.mu.Lock()
	r.tiers[product] = tier
	r.mu.Unlock()
	return tier, nil
}

// Tree builds the full dependency tree rooted at product
func (r *Resolver) Tree(product Compound) (*Node, error) {
	subs, err := r.Resolve(product)
	if err != nil {
		return nil, err
	}
	node := &Node{Compound: product}
	for _, s := range subs.Pair() {
		child, err := r.Tree(s)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// RawRequirements returns how much of each raw material is consumed to
// synthesize amount units of product. One unit of each substrate yields one
// unit of product.
func (r *Resolver) RawRequirements(product Compound, amount int) (map[Compound]int, error) {
	out := make(map[Compound]int)
	if err := r.accumulateRaw(product, amount, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resolver) accumulateRaw(c Compound, amount int, out map[Compound]int) error {
	subs, err := r.Resolve(c)
	if err != nil {
		return err
	}
	if subs.Leaf {
		out[c] += amount
		return nil
	}
	for _, s := range subs.Pair() {
		if err := r.accumulateRaw(s, amount, out); err != nil {
			return err
		}
	}
	return nil
}
