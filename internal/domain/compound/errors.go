package compound

import (
	"fmt"
	"strings"
)

// ErrUnknownCompound indicates a product has no reaction edge and is not a raw material
type ErrUnknownCompound struct {
	Compound Compound
}

func (e *ErrUnknownCompound) Error() string {
	return fmt.Sprintf("unknown compound: %s (not in reaction table)", e.Compound)
}

// ErrCircularDependency indicates a cycle was detected while loading a reaction table
type ErrCircularDependency struct {
	Compound Compound
	Chain    []Compound
}

func (e *ErrCircularDependency) Error() string {
	parts := make([]string, len(e.Chain))
	for i, c := range e.Chain {
		parts[i] = string(c)
	}
	return fmt.Sprintf("circular dependency detected for %s: %s", e.Compound, strings.Join(parts, " -> "))
}

// ErrInvalidReaction indicates a malformed reaction edge
type ErrInvalidReaction struct {
	Product Compound
	Reason  string
}

func (e *ErrInvalidReaction) Error() string {
	return fmt.Sprintf("invalid reaction for %s: %s", e.Product, e.Reason)
}
