package ranking

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"
)

// Ranked pairs a dress with its ranking result.
type Ranked struct {
	catalog.Dress
	Result
}

// RankAll tokenizes and ranks every dress against idx, keeping input order.
func RankAll(dresses []catalog.Dress, idx *PriorityIndex) []Ranked {
	out := make([]Ranked, len(dresses))
	for i, d := range dresses {
		out[i] = Ranked{Dress: d, Result: Rank(TokensFor(d), idx)}
	}
	return out
}

// Sort orders items best first: higher dominance, then higher tie-break
// weight, then lower price, then name case-insensitively, then name and ID.
// The order is total, so equal inputs always sort identically.
func Sort(items []Ranked) {
	slices.SortStableFunc(items, compareRanked)
}

func compareRanked(a, b Ranked) int {
	if c := b.Dominance.Cmp(a.Dominance); c != 0 {
		return c
	}
	if c := cmp.Compare(b.TieBreak, a.TieBreak); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Price, b.Price); c != 0 {
		return c
	}
	if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
