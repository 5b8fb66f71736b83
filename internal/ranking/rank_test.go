package ranking

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"
)

func colorFabricIndex() *PriorityIndex {
	return BuildIndex(
		[]string{"Color", "Fabric"},
		map[string][]string{
			"color":  {"Ivory", "White"},
			"fabric": {"Organza", "Chiffon"},
		},
		DefaultIndexConfig(),
	)
}

func TestTokensFor(t *testing.T) {
	d := catalog.Dress{
		Color:      " Ivory",
		Fabric:     "Lace",
		Tags:       []string{"Boho", "", "Romantic"},
		HasPockets: true,
		Price:      1200,
	}
	tokens := TokensFor(d)

	assert.True(t, tokens.Has("color:ivory"))
	assert.True(t, tokens.Has("fabric:lace"))
	assert.True(t, tokens.Has("tags:boho"))
	assert.True(t, tokens.Has("tags:romantic"))
	assert.True(t, tokens.Has("has_pockets:true"))
	assert.False(t, tokens.Has("corset_back:true"))
	assert.Len(t, tokens, 5)
}

func TestRank_ConcreteScenario(t *testing.T) {
	idx := colorFabricIndex()
	x := Rank(TokensFor(catalog.Dress{Color: "Ivory", Fabric: "Organza"}), idx)
	y := Rank(TokensFor(catalog.Dress{Color: "White", Fabric: "Lace"}), idx)
	none := Rank(TokensFor(catalog.Dress{Color: "Black", Fabric: "Satin"}), idx)

	assert.Equal(t, []int{0, 0}, x.Vector)
	assert.Equal(t, []int{1, NoMatch}, y.Vector)
	assert.Equal(t, []int{NoMatch, NoMatch}, none.Vector)

	assert.Equal(t, 1, x.Dominance.Cmp(y.Dominance))
	assert.Equal(t, 1, y.Dominance.Cmp(none.Dominance))
	assert.Zero(t, none.Dominance.Sign())
}

func TestRank_LowerCategoriesNeverOutweighHigher(t *testing.T) {
	idx := colorFabricIndex()
	// worst color match beats best everything else without a color match
	worstColor := Rank(TokensFor(catalog.Dress{Color: "White"}), idx)
	bestFabric := Rank(TokensFor(catalog.Dress{Color: "Black", Fabric: "Organza"}), idx)
	assert.Equal(t, 1, worstColor.Dominance.Cmp(bestFabric.Dominance))
}

func TestRank_HighPriorityCounts(t *testing.T) {
	idx := BuildIndex(
		[]string{"color", "fabric"},
		map[string][]string{"color": {"ivory", "white"}, "fabric": {"organza"}},
		DefaultIndexConfig(),
	)
	r := Rank(TokensFor(catalog.Dress{Color: "Ivory", Fabric: "Organza"}), idx)
	assert.Equal(t, 2, r.HighPriorityMatches)
	assert.Equal(t, 2, r.TotalMatches)
	assert.Equal(t, []string{"color:ivory", "fabric:organza"}, r.Matched)
}

func TestRank_TieBreakCountsEveryMatch(t *testing.T) {
	idx := BuildIndex(
		[]string{"tags"},
		map[string][]string{"tags": {"boho", "romantic", "modern"}},
		DefaultIndexConfig(),
	)
	one := Rank(TokensFor(catalog.Dress{Tags: []string{"boho"}}), idx)
	two := Rank(TokensFor(catalog.Dress{Tags: []string{"boho", "modern"}}), idx)

	assert.Equal(t, 0, one.Dominance.Cmp(two.Dominance))
	assert.Greater(t, two.TieBreak, one.TieBreak)
	assert.InDelta(t, 1+0.65*0.65, two.TieBreak, 1e-9)
	assert.Equal(t, 2, two.TotalMatches)
}

func TestRank_EmptyIndex(t *testing.T) {
	idx := BuildIndex([]string{"color"}, nil, DefaultIndexConfig())
	r := Rank(TokensFor(catalog.Dress{Color: "Ivory"}), idx)
	assert.Empty(t, r.Vector)
	assert.Zero(t, r.Dominance.Sign())
	assert.Zero(t, r.TotalMatches)
}

func TestRank_MatchesNeverBelowHighPriority(t *testing.T) {
	idx := BuildIndex(
		[]string{"color", "tags", "fabric"},
		map[string][]string{
			"color":  {"ivory", "white", "blush"},
			"tags":   {"boho", "modern", "classic", "romantic"},
			"fabric": {"lace"},
		},
		DefaultIndexConfig(),
	)
	for _, d := range []catalog.Dress{
		{Color: "blush", Tags: []string{"classic", "romantic"}},
		{Color: "ivory", Tags: []string{"boho"}, Fabric: "lace"},
		{},
	} {
		r := Rank(TokensFor(d), idx)
		assert.GreaterOrEqual(t, r.TotalMatches, r.HighPriorityMatches)
	}
}

func TestDominanceMatchesLexicographicOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	const base = 4
	randomVector := func(n int) []int {
		v := make([]int, n)
		for i := range v {
			if r := rng.IntN(base + 1); r == base {
				v[i] = NoMatch
			} else {
				v[i] = r
			}
		}
		return v
	}

	for range 5000 {
		n := 1 + rng.IntN(6)
		a, b := randomVector(n), randomVector(n)
		da, db := dominance(a, base), dominance(b, base)

		lex := CompareVectors(a, b)
		switch {
		case lex < 0:
			require.Equal(t, 1, da.Cmp(db), "a=%v b=%v", a, b)
		case lex > 0:
			require.Equal(t, -1, da.Cmp(db), "a=%v b=%v", a, b)
		default:
			require.Equal(t, 0, da.Cmp(db), "a=%v b=%v", a, b)
		}
	}
}

func TestDominance_FullDigitDoesNotCarry(t *testing.T) {
	// [NoMatch, 0, 0] must stay below [base-1, NoMatch, NoMatch]
	const base = 3
	low := dominance([]int{NoMatch, 0, 0}, base)
	high := dominance([]int{base - 1, NoMatch, NoMatch}, base)
	assert.Equal(t, 1, high.Cmp(low))
	assert.Equal(t, int64(16), high.Int64())
}

func TestCategoryReorderShiftsInfluence(t *testing.T) {
	selected := map[string][]string{"color": {"ivory"}, "fabric": {"lace"}}
	colorMatch := TokensFor(catalog.Dress{Color: "ivory"})
	fabricMatch := TokensFor(catalog.Dress{Fabric: "lace"})

	colorFirst := BuildIndex([]string{"color", "fabric"}, selected, DefaultIndexConfig())
	fabricFirst := BuildIndex([]string{"fabric", "color"}, selected, DefaultIndexConfig())

	assert.Equal(t, 1, Rank(colorMatch, colorFirst).Dominance.Cmp(Rank(fabricMatch, colorFirst).Dominance))
	assert.Equal(t, -1, Rank(colorMatch, fabricFirst).Dominance.Cmp(Rank(fabricMatch, fabricFirst).Dominance))
	assert.Equal(t, 1, Rank(colorMatch, colorFirst).Dominance.Cmp(Rank(colorMatch, fabricFirst).Dominance))
}

func TestBreakdown(t *testing.T) {
	idx := colorFabricIndex()
	r := Rank(TokensFor(catalog.Dress{Color: "White", Fabric: "Chiffon"}), idx)
	got := Breakdown(r, idx)

	require.Len(t, got, 2)
	assert.Equal(t, Contribution{Category: "color", Value: "white", CategoryRank: 0, ValueRank: 1, Weight: 0.65, HighPriority: true}, got[0])
	assert.Equal(t, "fabric", got[1].Category)
	assert.Equal(t, 1, got[1].CategoryRank)
}
