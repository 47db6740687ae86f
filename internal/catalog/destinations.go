package catalog

import (
	"strings"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/esim"
)

// Continents shown in the destination filter.
const (
	Europe  = "Europe"
	Africa  = "Africa"
	Asia    = "Asia"
	America = "America"
)

var destinations = []esim.Destination{
	dest("FR", "France", Europe),
	dest("ES", "Spain", Europe),
	dest("IT", "Italy", Europe),
	dest("DE", "Germany", Europe),
	dest("GB", "United Kingdom", Europe),
	dest("TR", "Turkey", Asia),
	dest("JP", "Japan", Asia),
	dest("MA", "Morocco", Africa),
	dest("SN", "Senegal", Africa),
	dest("US", "United States", America),
	dest("CA", "Canada", America),
}

func dest(iso, name, continent string) esim.Destination {
	lower := strings.ToLower(iso)
	return esim.Destination{
		ID:        lower,
		Name:      name,
		ISOCode:   iso,
		FlagURL:   "https://flagcdn.com/w80/" + lower + ".png",
		Continent: continent,
		Packages:  []esim.Package{},
	}
}

// Destinations returns a fresh copy of the fixed destination table with
// empty package lists.
func Destinations() []esim.Destination {
	out := make([]esim.Destination, len(destinations))
	for i, d := range destinations {
		d.Packages = []esim.Package{}
		out[i] = d
	}
	return out
}
