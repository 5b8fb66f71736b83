// Package catalog defines the dress catalog domain: the immutable Dress
// record, the filter query used to narrow the catalog, pagination metadata,
// and the Source interface implemented by the memory, Postgres, cached and
// remote catalog backends.
package catalog

import "context"

// Dress is one catalog item. Values are loaded from a Source and never
// mutated; ranking attaches its derived fields in a separate wrapper.
type Dress struct {
	ID                int      `json:"id"`
	Name              string   `json:"name"`
	ImagePath         string   `json:"image_path"`
	Silhouette        string   `json:"silhouette"`
	ShipIn48Hrs       bool     `json:"shipin48hrs"`
	Neckline          string   `json:"neckline"`
	StrapSleeveLayout string   `json:"strapsleevelayout"`
	Length            string   `json:"length"`
	Collection        string   `json:"collection"`
	Fabric            string   `json:"fabric"`
	Color             string   `json:"color"`
	Backstyle         string   `json:"backstyle"`
	Price             int      `json:"price"`
	SizeRange         string   `json:"size_range"`
	Tags              []string `json:"tags"`
	WeddingVenue      []string `json:"weddingvenue"`
	Season            string   `json:"season"`
	Embellishments    []string `json:"embellishments"`
	Features          []string `json:"features"`
	HasPockets        bool     `json:"has_pockets"`
	CorsetBack        bool     `json:"corset_back"`
}

// Source returns every dress matching a query. Pagination is applied after
// ranking, so sources always return the full filtered set.
type Source interface {
	Query(ctx context.Context, q Query) ([]Dress, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(ctx context.Context, q Query) ([]Dress, error)

// Query calls f(ctx, q).
func (f SourceFunc) Query(ctx context.Context, q Query) ([]Dress, error) {
	return f(ctx, q)
}
