package structure

import (
	"sort"

	"github.com/andrescamacho/colony-go/internal/domain/compound"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// Unlimited marks a store without a capacity bound
const Unlimited = 0

// Store is a capacity-bounded bag of compounds. Amounts are never negative and
// the total never exceeds capacity.
type Store struct {
	capacity int
	items    map[compound.Compound]int
}

// NewStore creates an empty store. A capacity of Unlimited disables the bound.
func NewStore(capacity int) *Store {
	if capacity < 0 {
		capacity = Unlimited
	}
	return &Store{
		capacity: capacity,
		items:    make(map[compound.Compound]int),
	}
}

// RestoreStore rebuilds a store from persisted contents
func RestoreStore(capacity int, contents map[compound.Compound]int) (*Store, error) {
	s := NewStore(capacity)
	for c, amount := range contents {
		if amount < 0 {
			return nil, shared.NewInvariantViolation("store", "negative amount %d of %s", amount, c)
		}
		if amount > 0 {
			s.items[c] = amount
		}
	}
	if s.capacity != Unlimited && s.Used() > s.capacity {
		return nil, shared.NewInvariantViolation("store", "contents %d exceed capacity %d", s.Used(), s.capacity)
	}
	return s, nil
}

func (s *Store) Capacity() int {
	return s.capacity
}

// Amount returns the stored quantity of c
func (s *Store) Amount(c compound.Compound) int {
	return s.items[c]
}

// Used returns the total quantity of everything stored
func (s *Store) Used() int {
	total := 0
	for _, amount := range s.items {
		total += amount
	}
	return total
}

// Free returns the remaining capacity, or -1 for unlimited stores
func (s *Store) Free() int {
	if s.capacity == Unlimited {
		return -1
	}
	return s.capacity - s.Used()
}

// Add stores up to amount of c and returns how much was accepted
func (s *Store) Add(c compound.Compound, amount int) (int, error) {
	if amount < 0 {
		return 0, shared.NewInvariantViolation("store", "cannot add negative amount %d of %s", amount, c)
	}
	accepted := amount
	if s.capacity != Unlimited {
		if free := s.Free(); accepted > free {
			accepted = free
		}
	}
	if accepted > 0 {
		s.items[c] += accepted
	}
	return accepted, nil
}

// Remove takes up to amount of c out of the store and returns how much was removed
func (s *Store) Remove(c compound.Compound, amount int) (int, error) {
	if amount < 0 {
		return 0, shared.NewInvariantViolation("store", "cannot remove negative amount %d of %s", amount, c)
	}
	removed := amount
	if have := s.items[c]; removed > have {
		removed = have
	}
	if removed == 0 {
		return 0, nil
	}
	s.items[c] -= removed
	if s.items[c] == 0 {
		delete(s.items, c)
	}
	return removed, nil
}

// Contents returns a copy of the stored quantities
func (s *Store) Contents() map[compound.Compound]int {
	out := make(map[compound.Compound]int, len(s.items))
	for c, amount := range s.items {
		out[c] = amount
	}
	return out
}

// Compounds returns the stored compound types sorted by name
func (s *Store) Compounds() []compound.Compound {
	out := make([]compound.Compound, 0, len(s.items))
	for c := range s.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
