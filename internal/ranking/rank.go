package ranking

import (
	"math"
	"math/big"
	"slices"
)

// NoMatch is the vector entry for a category the item does not match. It is
// larger than any real value rank.
const NoMatch = math.MaxInt

// Result is the ranking outcome for one item.
type Result struct {
	// Vector holds, per category of the index order, the best value rank
	// the item matches, or NoMatch.
	Vector []int
	// Dominance orders items exactly as Vector does lexicographically.
	Dominance *big.Int
	// TieBreak sums the decay weights of every matched token. It only
	// separates items with equal Dominance.
	TieBreak            float64
	TotalMatches        int
	HighPriorityMatches int
	// Matched lists the matched tokens in priority order.
	Matched []string
}

// Rank scores one item's tokens against the index. It never fails; an item
// matching nothing gets an all-NoMatch vector and zero dominance.
func Rank(tokens TokenSet, idx *PriorityIndex) Result {
	res := Result{
		Vector:    make([]int, len(idx.order)),
		Dominance: new(big.Int),
	}
	for i := range res.Vector {
		res.Vector[i] = NoMatch
	}

	for token := range tokens {
		pos, ok := idx.positions[token]
		if !ok {
			continue
		}
		res.TotalMatches++
		if idx.IsHighPriority(token) {
			res.HighPriorityMatches++
		}
		res.Matched = append(res.Matched, token)
		if pos.ValueRank < res.Vector[pos.CategoryRank] {
			res.Vector[pos.CategoryRank] = pos.ValueRank
		}
	}
	slices.SortFunc(res.Matched, func(a, b string) int {
		pa, pb := idx.positions[a], idx.positions[b]
		if pa.CategoryRank != pb.CategoryRank {
			return pa.CategoryRank - pb.CategoryRank
		}
		return pa.ValueRank - pb.ValueRank
	})
	// summed in priority order so equal token sets give identical floats
	for _, token := range res.Matched {
		res.TieBreak += idx.Weight(token)
	}

	res.Dominance = dominance(res.Vector, idx.base)
	return res
}

// dominance encodes the vector as a number in radix base+1, most significant
// digit first. A match at value rank j is the digit base-j, which lies in
// [1, base]; no match is 0. Because every digit is below the radix, a better
// entry in an earlier category outweighs any combination of later ones.
func dominance(vector []int, base int) *big.Int {
	radix := big.NewInt(int64(base) + 1)
	score := new(big.Int)
	digit := new(big.Int)
	for _, rank := range vector {
		score.Mul(score, radix)
		if rank == NoMatch {
			continue
		}
		digit.SetInt64(int64(base - rank))
		score.Add(score, digit)
	}
	return score
}

// CompareVectors compares two rank vectors lexicographically. It returns a
// negative number when a is better than b, positive when worse and 0 when
// equal.
func CompareVectors(a, b []int) int {
	return slices.Compare(a, b)
}
