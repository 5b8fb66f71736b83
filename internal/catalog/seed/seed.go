// Package seed holds the starter catalog shipped with the service. It backs
// the in-memory source and is what cmd/seed loads into Postgres.
package seed

import "github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"

// Dresses returns a fresh copy of the starter catalog.
func Dresses() []catalog.Dress {
	out := make([]catalog.Dress, len(dresses))
	for i, d := range dresses {
		d.Tags = append([]string(nil), d.Tags...)
		d.WeddingVenue = append([]string(nil), d.WeddingVenue...)
		d.Embellishments = append([]string(nil), d.Embellishments...)
		d.Features = append([]string(nil), d.Features...)
		out[i] = d
	}
	return out
}

var dresses = []catalog.Dress{
	{
		ID:                1,
		Name:              "Celestial Lace",
		ImagePath:         "/images/celestial-lace.jpg",
		Silhouette:        "A-line",
		ShipIn48Hrs:       true,
		Neckline:          "Sweetheart",
		StrapSleeveLayout: "One Shoulder",
		Length:            "Knee Length",
		Collection:        "Golden Hour",
		Fabric:            "Lace",
		Color:             "Ivory",
		Backstyle:         "Corset Back",
		Price:             1500,
		SizeRange:         "2-18",
		Tags:              []string{"elegant", "vintage", "lace"},
		WeddingVenue:      []string{"beach", "garden"},
		Season:            "spring",
		Embellishments:    []string{"beading", "embroidery"},
		Features:          []string{"pockets", "corset back", "convertible", "Stay-in-place straps"},
		HasPockets:        true,
		CorsetBack:        true,
	},
	{
		ID:                2,
		Name:              "Midnight Tulle",
		ImagePath:         "/images/midnight-tulle.jpg",
		Silhouette:        "Ballgown",
		Neckline:          "Off-the-Shoulder",
		StrapSleeveLayout: "Off the Shoulder",
		Length:            "Floor Length",
		Collection:        "Starlight",
		Fabric:            "Tulle",
		Color:             "Champagne",
		Backstyle:         "Corset Back",
		Price:             2800,
		SizeRange:         "4-22",
		Tags:              []string{"dramatic", "romantic"},
		WeddingVenue:      []string{"ballroom", "church"},
		Season:            "winter",
		Embellishments:    []string{"sequins"},
		Features:          []string{"corset back"},
		CorsetBack:        true,
	},
	{
		ID:                3,
		Name:              "Satin Whisper",
		ImagePath:         "/images/satin-whisper.jpg",
		Silhouette:        "Sheath",
		ShipIn48Hrs:       true,
		Neckline:          "V-neck",
		StrapSleeveLayout: "Spaghetti Straps",
		Length:            "Floor Length",
		Collection:        "Minimalist",
		Fabric:            "Satin",
		Color:             "White",
		Backstyle:         "Zipper",
		Price:             1200,
		SizeRange:         "0-12",
		Tags:              []string{"modern", "minimalist"},
		WeddingVenue:      []string{"city hall", "rooftop"},
		Season:            "summer",
		Features:          []string{"pockets"},
		HasPockets:        true,
	},
	{
		ID:                4,
		Name:              "Garden Muse",
		ImagePath:         "/images/garden-muse.jpg",
		Silhouette:        "Fit-and-Flare",
		Neckline:          "High Neck",
		StrapSleeveLayout: "Cap Sleeves",
		Length:            "Tea Length",
		Collection:        "Golden Hour",
		Fabric:            "Chiffon",
		Color:             "Blush",
		Backstyle:         "Keyhole",
		Price:             1750,
		SizeRange:         "6-16",
		Tags:              []string{"boho", "romantic"},
		WeddingVenue:      []string{"garden", "vineyard"},
		Season:            "spring",
		Embellishments:    []string{"floral appliques"},
		Features:          []string{"convertible"},
	},
	{
		ID:                5,
		Name:              "Moonlight Veil",
		ImagePath:         "/images/moonlight-veil.jpg",
		Silhouette:        "Mermaid",
		Neckline:          "Halter",
		StrapSleeveLayout: "Halter",
		Length:            "Floor Length",
		Collection:        "Starlight",
		Fabric:            "Organza",
		Color:             "Ivory",
		Backstyle:         "Corset Back",
		Price:             3200,
		SizeRange:         "2-14",
		Tags:              []string{"glamorous", "dramatic"},
		WeddingVenue:      []string{"ballroom"},
		Season:            "fall",
		Embellishments:    []string{"beading", "crystals"},
		Features:          []string{"corset back", "detachable train"},
		CorsetBack:        true,
	},
	{
		ID:                6,
		Name:              "Golden Hour",
		ImagePath:         "/images/golden-hour.jpg",
		Silhouette:        "A-line",
		ShipIn48Hrs:       true,
		Neckline:          "Sweetheart",
		StrapSleeveLayout: "Strapless",
		Length:            "Floor Length",
		Collection:        "Golden Hour",
		Fabric:            "Tulle",
		Color:             "Champagne",
		Backstyle:         "Corset Back",
		Price:             2500,
		SizeRange:         "0-20",
		Tags:              []string{"romantic", "classic"},
		WeddingVenue:      []string{"garden", "barn"},
		Season:            "fall",
		Embellishments:    []string{"embroidery"},
		Features:          []string{"pockets", "corset back"},
		HasPockets:        true,
		CorsetBack:        true,
	},
	{
		ID:                7,
		Name:              "Whispering Rose",
		ImagePath:         "/images/whispering-rose.jpg",
		Silhouette:        "Ballgown",
		Neckline:          "Sweetheart",
		StrapSleeveLayout: "Long Sleeves",
		Length:            "Floor Length",
		Collection:        "Heritage",
		Fabric:            "Lace",
		Color:             "Blush",
		Backstyle:         "Illusion Back",
		Price:             3100,
		SizeRange:         "4-18",
		Tags:              []string{"vintage", "romantic", "lace"},
		WeddingVenue:      []string{"church", "ballroom"},
		Season:            "winter",
		Embellishments:    []string{"lace appliques", "buttons"},
		Features:          []string{"long train"},
	},
	{
		ID:                8,
		Name:              "Ocean Pearl",
		ImagePath:         "/images/ocean-pearl.jpg",
		Silhouette:        "Sheath",
		ShipIn48Hrs:       true,
		Neckline:          "V-neck",
		StrapSleeveLayout: "Spaghetti Straps",
		Length:            "Knee Length",
		Collection:        "Minimalist",
		Fabric:            "Satin",
		Color:             "White",
		Backstyle:         "Corset Back",
		Price:             1100,
		SizeRange:         "2-10",
		Tags:              []string{"modern", "beach"},
		WeddingVenue:      []string{"beach"},
		Season:            "summer",
		Embellishments:    []string{"pearls"},
		Features:          []string{"pockets", "corset back"},
		HasPockets:        true,
		CorsetBack:        true,
	},
	{
		ID:                9,
		Name:              "Crystal Breeze",
		ImagePath:         "/images/crystal-breeze.jpg",
		Silhouette:        "A-line",
		Neckline:          "Off-the-Shoulder",
		StrapSleeveLayout: "Off the Shoulder",
		Length:            "Floor Length",
		Collection:        "Starlight",
		Fabric:            "Organza",
		Color:             "Ivory",
		Backstyle:         "Zipper",
		Price:             1400,
		SizeRange:         "6-16",
		Tags:              []string{"ethereal", "boho"},
		WeddingVenue:      []string{"beach", "garden"},
		Season:            "summer",
		Embellishments:    []string{"crystals"},
		Features:          []string{"lightweight"},
	},
	{
		ID:                10,
		Name:              "Twilight Mist",
		ImagePath:         "/images/twilight-mist.jpg",
		Silhouette:        "Fit-and-Flare",
		Neckline:          "High Neck",
		StrapSleeveLayout: "Illusion Sleeves",
		Length:            "Floor Length",
		Collection:        "Heritage",
		Fabric:            "Chiffon",
		Color:             "White",
		Backstyle:         "Corset Back",
		Price:             2700,
		SizeRange:         "0-14",
		Tags:              []string{"classic", "elegant"},
		WeddingVenue:      []string{"church", "vineyard"},
		Season:            "fall",
		Embellishments:    []string{"beading"},
		Features:          []string{"corset back"},
		CorsetBack:        true,
	},
}
