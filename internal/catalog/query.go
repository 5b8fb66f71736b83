package catalog

import (
	"crypto/sha256"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Flag is a tri-state boolean filter: "" (any), "true" or "false".
type Flag string

const (
	FlagAny   Flag = ""
	FlagTrue  Flag = "true"
	FlagFalse Flag = "false"
)

// Query is the hard filter applied before ranking. A dress passes when, for
// every non-empty facet list, it carries at least one of the listed values,
// every set flag equals the dress attribute, and the price lies within the
// optional bounds.
type Query struct {
	Color          []string `json:"color,omitempty"`
	Silhouette     []string `json:"silhouette,omitempty"`
	Neckline       []string `json:"neckline,omitempty"`
	Length         []string `json:"length,omitempty"`
	Fabric         []string `json:"fabric,omitempty"`
	Backstyle      []string `json:"backstyle,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Embellishments []string `json:"embellishments,omitempty"`
	Features       []string `json:"features,omitempty"`
	Collection     []string `json:"collection,omitempty"`
	Season         []string `json:"season,omitempty"`
	HasPockets     Flag     `json:"has_pockets,omitempty" validate:"omitempty,oneof=true false"`
	CorsetBack     Flag     `json:"corset_back,omitempty" validate:"omitempty,oneof=true false"`
	ShipIn48Hrs    Flag     `json:"shipin48hrs,omitempty" validate:"omitempty,oneof=true false"`
	PriceMin       *int     `json:"priceMin,omitempty" validate:"omitempty,gte=0"`
	PriceMax       *int     `json:"priceMax,omitempty" validate:"omitempty,gte=0"`
}

// Facets returns the non-empty facet value lists keyed by facet category.
func (q Query) Facets() map[string][]string {
	lists := map[string][]string{
		FacetColor:          q.Color,
		FacetSilhouette:     q.Silhouette,
		FacetNeckline:       q.Neckline,
		FacetLength:         q.Length,
		FacetFabric:         q.Fabric,
		FacetBackstyle:      q.Backstyle,
		FacetTags:           q.Tags,
		FacetEmbellishments: q.Embellishments,
		FacetFeatures:       q.Features,
		FacetCollection:     q.Collection,
		FacetSeason:         q.Season,
	}
	out := make(map[string][]string, len(lists))
	for key, values := range lists {
		cleaned := cleanValues(values)
		if len(cleaned) > 0 {
			out[key] = cleaned
		}
	}
	return out
}

// Flags returns the set boolean filters keyed by facet category.
func (q Query) Flags() map[string]bool {
	out := make(map[string]bool, 3)
	for key, f := range map[string]Flag{
		FacetHasPockets:  q.HasPockets,
		FacetCorsetBack:  q.CorsetBack,
		FacetShipIn48Hrs: q.ShipIn48Hrs,
	} {
		switch f {
		case FlagTrue:
			out[key] = true
		case FlagFalse:
			out[key] = false
		}
	}
	return out
}

// Matches reports whether d passes every filter in q.
func (q Query) Matches(d Dress) bool {
	if q.PriceMin != nil && d.Price < *q.PriceMin {
		return false
	}
	if q.PriceMax != nil && d.Price > *q.PriceMax {
		return false
	}
	for key, want := range q.Flags() {
		if (len(d.FacetValues(key)) > 0) != want {
			return false
		}
	}
	for key, wanted := range q.Facets() {
		if !anyEqualFold(d.FacetValues(key), wanted) {
			return false
		}
	}
	return true
}

// Filter returns the dresses in ds that match q, preserving order.
func (q Query) Filter(ds []Dress) []Dress {
	out := make([]Dress, 0, len(ds))
	for _, d := range ds {
		if q.Matches(d) {
			out = append(out, d)
		}
	}
	return out
}

// Key returns a stable identifier for the filter. Two queries that select
// the same values in a different order or letter case share a key.
func (q Query) Key() string {
	facets := q.Facets()
	keys := make([]string, 0, len(facets))
	for k := range facets {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for _, k := range keys {
		values := make([]string, 0, len(facets[k]))
		for _, v := range facets[k] {
			values = append(values, strings.ToLower(v))
		}
		slices.Sort(values)
		values = slices.Compact(values)
		fmt.Fprintf(&b, "%s=%s|", k, strings.Join(values, ","))
	}
	flags := q.Flags()
	for _, k := range []string{FacetHasPockets, FacetCorsetBack, FacetShipIn48Hrs} {
		if v, ok := flags[k]; ok {
			fmt.Fprintf(&b, "%s=%t|", k, v)
		}
	}
	if q.PriceMin != nil {
		b.WriteString("min=" + strconv.Itoa(*q.PriceMin) + "|")
	}
	if q.PriceMax != nil {
		b.WriteString("max=" + strconv.Itoa(*q.PriceMax) + "|")
	}
	sum := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", sum[:16])
}

func cleanValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func anyEqualFold(have, want []string) bool {
	for _, h := range have {
		h = strings.TrimSpace(h)
		for _, w := range want {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}
