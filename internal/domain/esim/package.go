package esim

import (
	"github.com/shopspring/decimal"
)

type Package struct {
	ID           ID              `json:"id"`
	CountryCode  string          `json:"country_code"`
	CountryName  string          `json:"country_name"`
	Continent    string          `json:"continent,omitempty"`
	DataAmount   string          `json:"data_amount"`
	ValidityDays Count           `json:"validity_days"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	Operator     string          `json:"operator,omitempty"`
	Network      string          `json:"network,omitempty"`
	Available    Flag            `json:"is_available"`
	Stock        *Count          `json:"stock,omitempty"`
}

// Valid reports whether the package can be shown for sale.
func (p Package) Valid() bool {
	return p.ID != "" && p.Price.IsPositive()
}

// ValidOnly keeps the packages that pass Valid. The result is never nil.
func ValidOnly(pkgs []Package) []Package {
	out := make([]Package, 0, len(pkgs))
	for _, p := range pkgs {
		if p.Valid() {
			out = append(out, p)
		}
	}
	return out
}

type Destination struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ISOCode   string    `json:"iso_code"`
	FlagURL   string    `json:"flag_url"`
	Continent string    `json:"continent"`
	Packages  []Package `json:"packages"`
}

// ComingSoon is true when a destination has nothing to sell yet, either
// because its packages failed to load or because the backend has none.
func (d Destination) ComingSoon() bool { return len(d.Packages) == 0 }

// Availability is the backend's answer to a pre-purchase stock check.
type Availability struct {
	Available Flag   `json:"available"`
	Message   string `json:"message,omitempty"`
	Stock     *Count `json:"stock,omitempty"`
}
