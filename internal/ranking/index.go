package ranking

import (
	"math"
	"slices"
)

// Position is a selected token's place in the user's priorities. Lower is
// better on both axes.
type Position struct {
	CategoryRank int `json:"category_rank"`
	ValueRank    int `json:"value_rank"`
}

// IndexConfig holds the tunables of the priority index. The zero value is
// not useful; start from DefaultIndexConfig.
type IndexConfig struct {
	// Base is the minimum per-category digit range of the dominance score.
	// It is raised automatically when a category has more selections.
	Base int
	// ValueDecay is the per-rank weight decay inside a category.
	ValueDecay float64
	// HighPriorityThreshold marks a value as a top pick when
	// ValueDecay^valueRank reaches it.
	HighPriorityThreshold float64
	// TopLabel caps the N in "your top N".
	TopLabel int
}

// DefaultIndexConfig returns the production tuning: ranks 0 and 1 of every
// category are high priority and dominance digits span 100 values.
func DefaultIndexConfig() IndexConfig {
	return IndexConfig{
		Base:                  100,
		ValueDecay:            0.65,
		HighPriorityThreshold: 0.5,
		TopLabel:              3,
	}
}

func (c IndexConfig) withDefaults() IndexConfig {
	d := DefaultIndexConfig()
	if c.Base < 2 {
		c.Base = d.Base
	}
	if c.ValueDecay <= 0 || c.ValueDecay > 1 {
		c.ValueDecay = d.ValueDecay
	}
	if c.HighPriorityThreshold <= 0 {
		c.HighPriorityThreshold = d.HighPriorityThreshold
	}
	if c.TopLabel <= 0 {
		c.TopLabel = d.TopLabel
	}
	return c
}

// PriorityIndex is the immutable lookup built from one category order and
// one selection order. Any change to either input requires a new index.
type PriorityIndex struct {
	cfg        IndexConfig
	base       int
	order      []string
	categories []string
	values     map[string][]string
	positions  map[string]Position
	high       map[string]struct{}
}

// BuildIndex derives a PriorityIndex. categoryOrder lists category names in
// priority order; selectedOrder maps a category key to its chosen values in
// priority order. A category's rank is its position in categoryOrder once
// blank and repeated names are dropped; a category without selections keeps
// its rank and slot but contributes no tokens. Blank or repeated values are
// dropped. The builder never fails: malformed input simply contributes
// nothing.
func BuildIndex(categoryOrder []string, selectedOrder map[string][]string, cfg IndexConfig) *PriorityIndex {
	cfg = cfg.withDefaults()
	idx := &PriorityIndex{
		cfg:       cfg,
		base:      cfg.Base,
		values:    make(map[string][]string),
		positions: make(map[string]Position),
		high:      make(map[string]struct{}),
	}

	keys := make([]string, 0, len(selectedOrder))
	for key := range selectedOrder {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	selected := make(map[string][]string, len(selectedOrder))
	for _, key := range keys {
		k := Normalize(key)
		if k == "" {
			continue
		}
		selected[k] = append(selected[k], selectedOrder[key]...)
	}

	for _, name := range categoryOrder {
		category := Normalize(name)
		if category == "" {
			continue
		}
		if slices.Contains(idx.order, category) {
			continue
		}
		categoryRank := len(idx.order)
		idx.order = append(idx.order, category)
		values := dedupe(selected[category])
		if len(values) == 0 {
			continue
		}
		idx.categories = append(idx.categories, category)
		idx.values[category] = values
		for valueRank, value := range values {
			token := category + ":" + value
			idx.positions[token] = Position{CategoryRank: categoryRank, ValueRank: valueRank}
			if math.Pow(cfg.ValueDecay, float64(valueRank)) >= cfg.HighPriorityThreshold {
				idx.high[token] = struct{}{}
			}
		}
		if len(values) > idx.base {
			idx.base = len(values)
		}
	}
	return idx
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		n := Normalize(v)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Rank returns the position of a selected token.
func (p *PriorityIndex) Rank(token string) (Position, bool) {
	pos, ok := p.positions[token]
	return pos, ok
}

// IsHighPriority reports whether token is one of the top values of its own
// category. Category rank plays no part.
func (p *PriorityIndex) IsHighPriority(token string) bool {
	_, ok := p.high[token]
	return ok
}

// Order returns every category key of the index in priority order, one per
// rank vector entry, including categories without selections.
func (p *PriorityIndex) Order() []string {
	return append([]string(nil), p.order...)
}

// Categories returns the category keys that have selections, highest
// priority first.
func (p *PriorityIndex) Categories() []string {
	return append([]string(nil), p.categories...)
}

// Values returns the normalised selected values of a category in priority
// order.
func (p *PriorityIndex) Values(category string) []string {
	return append([]string(nil), p.values[Normalize(category)]...)
}

// TotalSelected is the number of selected (category, value) pairs.
func (p *PriorityIndex) TotalSelected() int {
	return len(p.positions)
}

// HighPriorityCount is the number of high-priority tokens.
func (p *PriorityIndex) HighPriorityCount() int {
	return len(p.high)
}

// TopLabelSize is the N shown in "your top N": the configured cap, or fewer
// when fewer values are selected.
func (p *PriorityIndex) TopLabelSize() int {
	return min(p.cfg.TopLabel, p.TotalSelected())
}

// Empty reports whether nothing is selected, in which case every item
// scores zero and the catalog is unranked.
func (p *PriorityIndex) Empty() bool {
	return len(p.categories) == 0
}

// Weight is the flat decay weight of a selected token, 0 when unselected.
func (p *PriorityIndex) Weight(token string) float64 {
	pos, ok := p.positions[token]
	if !ok {
		return 0
	}
	return math.Pow(p.cfg.ValueDecay, float64(pos.ValueRank))
}

// Base is the effective per-category digit range of the dominance score.
func (p *PriorityIndex) Base() int {
	return p.base
}
