package ranking

import (
	"fmt"
	"math/big"
)

// Tier classifies how close an item is to the top score.
type Tier string

const (
	TierTop      Tier = "top"
	TierStrong   Tier = "strong"
	TierClose    Tier = "close"
	TierPartial  Tier = "partial"
	TierUnranked Tier = "unranked"
)

// Badge is the display form of a score relative to the best score in the
// result set.
type Badge struct {
	Tier    Tier   `json:"tier"`
	Label   string `json:"label"`
	Percent int    `json:"percent,omitempty"`
}

var (
	hundred = big.NewInt(100)
)

// TopScore returns the highest dominance in items, or zero when empty.
func TopScore(items []Ranked) *big.Int {
	top := new(big.Int)
	for _, it := range items {
		if it.Dominance != nil && it.Dominance.Cmp(top) > 0 {
			top.Set(it.Dominance)
		}
	}
	return top
}

// Percent returns floor(score*100/top) clamped to [1, 99] for any item below
// the top. It returns 100 when score reaches top and 0 when top is zero.
func Percent(score, top *big.Int) int {
	if top == nil || top.Sign() <= 0 {
		return 0
	}
	if score != nil && score.Cmp(top) >= 0 {
		return 100
	}
	p := new(big.Int)
	if score != nil {
		p.Mul(score, hundred)
		p.Quo(p, top)
	}
	return int(min(max(p.Int64(), 1), 99))
}

// Describe returns the badge for an item. isTop marks the first item of the
// sorted list, which is always the top pick when anything is ranked.
func Describe(score, top *big.Int, isTop bool) Badge {
	if top == nil || top.Sign() <= 0 {
		return Badge{Tier: TierUnranked, Label: "No ranking"}
	}
	if isTop || (score != nil && score.Cmp(top) >= 0) {
		return Badge{Tier: TierTop, Label: "Top pick", Percent: 100}
	}
	pct := Percent(score, top)
	switch {
	case pct >= 90:
		return Badge{Tier: TierStrong, Label: "Strong match", Percent: pct}
	case pct >= 80:
		return Badge{Tier: TierClose, Label: "Close match", Percent: pct}
	default:
		return Badge{Tier: TierPartial, Label: fmt.Sprintf("%d%% match", pct), Percent: pct}
	}
}

// Insight is the accessible explanation shown next to a badge, or "" when
// the item matches none of the selected values.
func Insight(r Result, idx *PriorityIndex) string {
	if r.TotalMatches == 0 {
		return ""
	}
	return fmt.Sprintf("This item has %s in your top %d. Overall matches: %s.",
		features(r.HighPriorityMatches), idx.TopLabelSize(), features(r.TotalMatches))
}

func features(n int) string {
	if n == 1 {
		return "1 feature"
	}
	return fmt.Sprintf("%d features", n)
}
