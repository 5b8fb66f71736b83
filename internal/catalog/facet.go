package catalog

import "strconv"

// Facet category keys. These are the only attributes that take part in
// filtering and priority ranking.
const (
	FacetColor          = "color"
	FacetSilhouette     = "silhouette"
	FacetNeckline       = "neckline"
	FacetLength         = "length"
	FacetFabric         = "fabric"
	FacetBackstyle      = "backstyle"
	FacetCollection     = "collection"
	FacetSeason         = "season"
	FacetTags           = "tags"
	FacetEmbellishments = "embellishments"
	FacetFeatures       = "features"
	FacetHasPockets     = "has_pockets"
	FacetCorsetBack     = "corset_back"
	FacetShipIn48Hrs    = "shipin48hrs"
)

// FacetKeys lists every facet category in a fixed order.
var FacetKeys = []string{
	FacetColor,
	FacetSilhouette,
	FacetNeckline,
	FacetLength,
	FacetFabric,
	FacetBackstyle,
	FacetCollection,
	FacetSeason,
	FacetTags,
	FacetEmbellishments,
	FacetFeatures,
	FacetHasPockets,
	FacetCorsetBack,
	FacetShipIn48Hrs,
}

// DefaultSectionOrder is the category order a fresh session starts with.
// "Price" is listed for display; it carries no facet values.
var DefaultSectionOrder = []string{
	"Color",
	"Silhouette",
	"Neckline",
	"Length",
	"Fabric",
	"Backstyle",
	"Tags",
	"Embellishments",
	"Features",
	"Collection",
	"Season",
	"Price",
}

// FacetValues returns the raw values a dress carries for the given facet
// key. Single-valued attributes yield at most one value, list attributes
// yield their elements and boolean flags yield "true" only when set.
// Unknown keys yield nil.
func (d Dress) FacetValues(key string) []string {
	switch key {
	case FacetColor:
		return single(d.Color)
	case FacetSilhouette:
		return single(d.Silhouette)
	case FacetNeckline:
		return single(d.Neckline)
	case FacetLength:
		return single(d.Length)
	case FacetFabric:
		return single(d.Fabric)
	case FacetBackstyle:
		return single(d.Backstyle)
	case FacetCollection:
		return single(d.Collection)
	case FacetSeason:
		return single(d.Season)
	case FacetTags:
		return d.Tags
	case FacetEmbellishments:
		return d.Embellishments
	case FacetFeatures:
		return d.Features
	case FacetHasPockets:
		return flag(d.HasPockets)
	case FacetCorsetBack:
		return flag(d.CorsetBack)
	case FacetShipIn48Hrs:
		return flag(d.ShipIn48Hrs)
	}
	return nil
}

func single(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}

func flag(set bool) []string {
	if !set {
		return nil
	}
	return []string{strconv.FormatBool(true)}
}
