package ranking

// Contribution explains one matched token of an item.
type Contribution struct {
	Category     string  `json:"category"`
	Value        string  `json:"value"`
	CategoryRank int     `json:"category_rank"`
	ValueRank    int     `json:"value_rank"`
	Weight       float64 `json:"weight"`
	HighPriority bool    `json:"high_priority"`
}

// Breakdown lists the contribution of every matched token in priority order.
func Breakdown(r Result, idx *PriorityIndex) []Contribution {
	out := make([]Contribution, 0, len(r.Matched))
	for _, token := range r.Matched {
		pos, ok := idx.Rank(token)
		if !ok {
			continue
		}
		category, value := splitToken(token)
		out = append(out, Contribution{
			Category:     category,
			Value:        value,
			CategoryRank: pos.CategoryRank,
			ValueRank:    pos.ValueRank,
			Weight:       idx.Weight(token),
			HighPriority: idx.IsHighPriority(token),
		})
	}
	return out
}

// Weights returns the decay weight of every selected token keyed by token.
func (p *PriorityIndex) Weights() map[string]float64 {
	out := make(map[string]float64, len(p.positions))
	for token := range p.positions {
		out[token] = p.Weight(token)
	}
	return out
}
