package catalog

import (
	"strings"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/esim"
)

// Filter narrows an already-loaded destination list. It never triggers a
// fetch and ignores whether packages have loaded.
type Filter struct {
	Continent string
	Query     string
}

func (f Filter) Match(d esim.Destination) bool {
	if c := strings.TrimSpace(f.Continent); c != "" && !strings.EqualFold(c, "all") && d.Continent != c {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.Name), q) || strings.Contains(strings.ToLower(d.ISOCode), q)
}

func (f Filter) Apply(dests []esim.Destination) []esim.Destination {
	out := make([]esim.Destination, 0, len(dests))
	for _, d := range dests {
		if f.Match(d) {
			out = append(out, d)
		}
	}
	return out
}
