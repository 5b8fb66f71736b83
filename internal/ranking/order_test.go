package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"
)

func TestOrderMove(t *testing.T) {
	o := Order{"color", "fabric", "length", "tags"}

	assert.Equal(t, Order{"length", "color", "fabric", "tags"}, o.Move(2, 0))
	assert.Equal(t, Order{"fabric", "length", "tags", "color"}, o.Move(0, 3))
	assert.Equal(t, Order{"color", "length", "fabric", "tags"}, o.Move(1, 2))
	assert.Equal(t, o, o.Move(5, 0))
	assert.Equal(t, o, o.Move(1, 1))
	// original untouched
	assert.Equal(t, Order{"color", "fabric", "length", "tags"}, o)
}

func TestOrderToggle(t *testing.T) {
	o := Order{"Ivory", "White"}
	assert.Equal(t, Order{"Ivory", "White", "Blush"}, o.Toggle("Blush"))
	assert.Equal(t, Order{"White"}, o.Toggle(" ivory"))
	assert.Equal(t, o, o.Toggle("  "))
}

func TestBuildPayload(t *testing.T) {
	p := BuildPayload(
		[]string{"Color", "Silhouette", "", "Fabric", "color"},
		map[string][]string{
			"color":      {" Ivory", "", "White"},
			"silhouette": {},
			"fabric":     {"Lace"},
		},
	)
	assert.Equal(t, []string{"color", "fabric"}, p.Sections)
	assert.Equal(t, map[string][]string{"color": {"ivory", "white"}, "fabric": {"lace"}}, p.Values)
	assert.False(t, p.Empty())

	idx := p.Index(DefaultIndexConfig())
	assert.Equal(t, []string{"color", "fabric"}, idx.Categories())

	assert.True(t, BuildPayload(catalog.DefaultSectionOrder, nil).Empty())
}
