package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"
)

func TestNormalizeAndToken(t *testing.T) {
	assert.Equal(t, "ivory", Normalize("  Ivory "))
	assert.Equal(t, "", Normalize("   "))
	assert.Equal(t, "color:ivory", Token(" Color", "IVORY "))
	assert.Equal(t, "", Token("color", " "))
	assert.Equal(t, "", Token("", "ivory"))

	c, v := splitToken("tags:a:line")
	assert.Equal(t, "tags", c)
	assert.Equal(t, "a:line", v)
}

func TestBuildIndex_Positions(t *testing.T) {
	idx := BuildIndex(
		[]string{"Color", "Fabric"},
		map[string][]string{
			"color":  {"Ivory", "White", "Blush"},
			"fabric": {"Organza"},
		},
		DefaultIndexConfig(),
	)

	require.Equal(t, []string{"color", "fabric"}, idx.Categories())
	assert.Equal(t, 4, idx.TotalSelected())

	pos, ok := idx.Rank("color:white")
	require.True(t, ok)
	assert.Equal(t, Position{CategoryRank: 0, ValueRank: 1}, pos)

	pos, ok = idx.Rank("fabric:organza")
	require.True(t, ok)
	assert.Equal(t, Position{CategoryRank: 1, ValueRank: 0}, pos)

	_, ok = idx.Rank("color:black")
	assert.False(t, ok)
}

func TestBuildIndex_HighPriorityIsPerCategory(t *testing.T) {
	idx := BuildIndex(
		[]string{"color", "fabric"},
		map[string][]string{
			"color":  {"ivory", "white", "blush"},
			"fabric": {"organza", "lace"},
		},
		DefaultIndexConfig(),
	)

	assert.True(t, idx.IsHighPriority("color:ivory"))
	assert.True(t, idx.IsHighPriority("color:white"))
	assert.False(t, idx.IsHighPriority("color:blush"))
	// rank 0 of a lower category is still a top value of its own category
	assert.True(t, idx.IsHighPriority("fabric:organza"))
	assert.True(t, idx.IsHighPriority("fabric:lace"))
	assert.Equal(t, 4, idx.HighPriorityCount())
}

func TestBuildIndex_SkipsBlankDuplicateAndUnselected(t *testing.T) {
	idx := BuildIndex(
		[]string{"", "Price", "color", "COLOR", "silhouette", "fabric"},
		map[string][]string{
			"Color":      {"ivory", " Ivory", "", "white"},
			"silhouette": {},
			"fabric":     {"  "},
		},
		DefaultIndexConfig(),
	)

	assert.Equal(t, []string{"color"}, idx.Categories())
	assert.Equal(t, []string{"price", "color", "silhouette", "fabric"}, idx.Order())
	assert.Equal(t, []string{"ivory", "white"}, idx.Values("color"))
	assert.Equal(t, 2, idx.TotalSelected())
}

func TestBuildIndex_UnselectedCategoryKeepsItsRank(t *testing.T) {
	idx := BuildIndex(
		[]string{"color", "silhouette", "fabric"},
		map[string][]string{"color": {"ivory"}, "fabric": {"lace"}},
		DefaultIndexConfig(),
	)

	pos, ok := idx.Rank("fabric:lace")
	require.True(t, ok)
	assert.Equal(t, 2, pos.CategoryRank)
	assert.Equal(t, []string{"color", "fabric"}, idx.Categories())

	r := Rank(TokensFor(catalog.Dress{Color: "ivory", Fabric: "lace"}), idx)
	assert.Equal(t, []int{0, NoMatch, 0}, r.Vector)
}

func TestBuildIndex_Empty(t *testing.T) {
	idx := BuildIndex(nil, nil, IndexConfig{})
	assert.True(t, idx.Empty())
	assert.Equal(t, 0, idx.TotalSelected())
	assert.Equal(t, 0, idx.TopLabelSize())
	assert.Equal(t, 100, idx.Base())
}

func TestBuildIndex_BaseGrowsWithSelections(t *testing.T) {
	values := make([]string, 0, 12)
	for i := range 12 {
		values = append(values, string(rune('a'+i)))
	}
	idx := BuildIndex([]string{"tags"}, map[string][]string{"tags": values}, IndexConfig{Base: 5})
	assert.Equal(t, 12, idx.Base())
}

func TestTopLabelSize(t *testing.T) {
	one := BuildIndex([]string{"color"}, map[string][]string{"color": {"ivory"}}, DefaultIndexConfig())
	assert.Equal(t, 1, one.TopLabelSize())

	many := BuildIndex(
		[]string{"color", "fabric"},
		map[string][]string{"color": {"ivory", "white"}, "fabric": {"lace", "tulle"}},
		DefaultIndexConfig(),
	)
	assert.Equal(t, 3, many.TopLabelSize())
}

func TestWeight(t *testing.T) {
	idx := BuildIndex([]string{"color"}, map[string][]string{"color": {"ivory", "white"}}, DefaultIndexConfig())
	assert.InDelta(t, 1.0, idx.Weight("color:ivory"), 1e-9)
	assert.InDelta(t, 0.65, idx.Weight("color:white"), 1e-9)
	assert.Zero(t, idx.Weight("color:black"))
	assert.Len(t, idx.Weights(), 2)
}
