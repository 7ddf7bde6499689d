package compound_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/domain/compound"
)

func TestResolver_RawMaterialsAreLeaves(t *testing.T) {
	resolver := compound.NewDefaultResolver()

	for _, raw := range compound.RawMaterials {
		subs, err := resolver.Resolve(raw)

		require.NoError(t, err, raw)
		assert.True(t, subs.Leaf, raw)
		assert.Empty(t, subs.Pair(), raw)
	}
}

func TestResolver_Tier3ResolvesToTwoSubstrates(t *testing.T) {
	resolver := compound.NewDefaultResolver()

	for _, product := range compound.Tier3 {
		subs, err := resolver.Resolve(product)

		require.NoError(t, err, product)
		assert.False(t, subs.Leaf, product)
		assert.Len(t, subs.Pair(), 2, product)
		assert.Equal(t, compound.Catalyst, subs.B, product)
	}
}

func TestResolver_ResolveIsPure(t *testing.T) {
	resolver := compound.NewDefaultResolver()

	first, err := resolver.Resolve(compound.CatalyzedGhodiumAlkalide)
	require.NoError(t, err)
	second, err := resolver.Resolve(compound.CatalyzedGhodiumAlkalide)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, compound.Substrates{A: compound.GhodiumAlkalide, B: compound.Catalyst}, first)
}

func TestResolver_UnknownCompound(t *testing.T) {
	resolver := compound.NewDefaultResolver()

	_, err := resolver.Resolve("UNOBTAINIUM")

	require.Error(t, err)
	var unknown *compound.ErrUnknownCompound
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, compound.Compound("UNOBTAINIUM"), unknown.Compound)
	assert.False(t, resolver.Known("UNOBTAINIUM"))
}

func TestResolver_ChainIsPostOrderWithoutDuplicates(t *testing.T) {
	resolver := compound.NewDefaultResolver()

	chain, err := resolver.Chain(compound.CatalyzedGhodiumAlkalide)

	require.NoError(t, err)
	assert.Equal(t, []compound.Compound{
		compound.ZynthiumKeanite,
		compound.UtriumLemergite,
		compound.Ghodium,
		compound.GhodiumOxide,
		compound.Hydroxide,
		compound.GhodiumAlkalide,
		compound.CatalyzedGhodiumAlkalide,
	}, chain)

	seen := make(map[compound.Compound]bool)
	for _, c := range chain {
		assert.False(t, seen[c], "duplicate %s", c)
		assert.False(t, resolver.IsRaw(c), "raw %s in chain", c)
		seen[c] = true
	}
}

func TestResolver_ChainMemoReturnsCopies(t *testing.T) {
	resolver := compound.NewDefaultResolver()

	first, err := resolver.Chain(compound.KeaniumAlkalide)
	require.NoError(t, err)
	first[0] = "mutated"

	second, err := resolver.Chain(compound.KeaniumAlkalide)
	require.NoError(t, err)

	assert.Equal(t, compound.KeaniumOxide, second[0])
}

func TestResolver_ChainOfRawIsEmpty(t *testing.T) {
	resolver := compound.NewDefaultResolver()

	chain, err := resolver.Chain(compound.Hydrogen)

	require.NoError(t, err)
	assert.Empty(t, chain)
}

func TestResolver_Tier(t *testing.T) {
	resolver := compound.NewDefaultResolver()

	cases := map[compound.Compound]int{
		compound.Oxygen:                   0,
		compound.Hydroxide:                1,
		compound.KeaniumOxide:             1,
		compound.KeaniumAlkalide:          2,
		compound.CatalyzedKeaniumAlkalide: 3,
		compound.Ghodium:                  2,
		compound.CatalyzedGhodiumAcid:     5,
	}
	for c, want := range cases {
		got, err := resolver.Tier(c)
		require.NoError(t, err, c)
		assert.Equal(t, want, got, c)
	}
}

func TestResolver_Tree(t *testing.T) {
	resolver := compound.NewDefaultResolver()

	tree, err := resolver.Tree(compound.UtriumAcid)

	require.NoError(t, err)
	assert.Equal(t, compound.UtriumAcid, tree.Compound)
	require.Len(t, tree.Children, 2)
	assert.Equal(t, compound.UtriumHydride, tree.Children[0].Compound)
	assert.Equal(t, compound.Hydroxide, tree.Children[1].Compound)
	assert.Equal(t, 3, tree.Depth())

	count := 0
	tree.Walk(func(node *compound.Node, level int) { count++ })
	assert.Equal(t, 7, count)
}

func TestResolver_RawRequirements(t *testing.T) {
	resolver := compound.NewDefaultResolver()

	req, err := resolver.RawRequirements(compound.CatalyzedZynthiumAlkalide, 10)

	require.NoError(t, err)
	assert.Equal(t, map[compound.Compound]int{
		compound.Zynthium: 10,
		compound.Oxygen:   20,
		compound.Hydrogen: 10,
		compound.Catalyst: 10,
	}, req)
}

func TestNewReactionTable_DetectsCycle(t *testing.T) {
	edges := map[compound.Compound][2]compound.Compound{
		"A": {"B", "H"},
		"B": {"A", "O"},
	}

	_, err := compound.NewReactionTable(edges, []compound.Compound{"H", "O"})

	var cycle *compound.ErrCircularDependency
	require.ErrorAs(t, err, &cycle)
	assert.GreaterOrEqual(t, len(cycle.Chain), 3)
}

func TestNewReactionTable_RejectsDanglingSubstrate(t *testing.T) {
	edges := map[compound.Compound][2]compound.Compound{
		"A": {"B", "H"},
	}

	_, err := compound.NewReactionTable(edges, []compound.Compound{"H"})

	var invalid *compound.ErrInvalidReaction
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, compound.Compound("A"), invalid.Product)
}

func TestDefaultReactionTable_CoversAllTiers(t *testing.T) {
	table := compound.DefaultReactionTable()

	all := append(append(append([]compound.Compound{}, compound.Tier1...), compound.Tier2...), compound.Tier3...)
	for _, c := range all {
		_, ok := table.Substrates(c)
		assert.True(t, ok, c)
	}
	assert.Len(t, table.Products(), len(all)+4)
}
