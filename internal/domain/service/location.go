package service

import "strings"

// Location risk levels on the 0-100 scale.
const (
	LocationRiskHigh   = 80.0
	LocationRiskMedium = 50.0
	LocationRiskLow    = 20.0
)

// Default location classification used when no lists are configured.
var (
	DefaultHighRiskLocations   = []string{"Location A", "Location B"}
	DefaultMediumRiskLocations = []string{"Location C", "Location D"}
	DefaultLowRiskLocations    = []string{"Location X", "Location Y", "Location Z"}
)

// LocationTable is an immutable lookup from location name to location risk.
// Matching ignores case and surrounding whitespace. Unknown locations are medium risk.
type LocationTable struct {
	risk map[string]float64
}

// NewLocationTable builds a table from the three tier lists. A location listed in several
// tiers keeps the highest risk.
func NewLocationTable(high, medium, low []string) *LocationTable {
	t := &LocationTable{risk: make(map[string]float64, len(high)+len(medium)+len(low))}
	t.add(low, LocationRiskLow)
	t.add(medium, LocationRiskMedium)
	t.add(high, LocationRiskHigh)
	return t
}

// DefaultLocationTable returns the table built from the default lists.
func DefaultLocationTable() *LocationTable {
	return NewLocationTable(DefaultHighRiskLocations, DefaultMediumRiskLocations, DefaultLowRiskLocations)
}

func (t *LocationTable) add(locations []string, risk float64) {
	for _, loc := range locations {
		key := normalizeLocation(loc)
		if key == "" {
			continue
		}
		if existing, ok := t.risk[key]; !ok || risk > existing {
			t.risk[key] = risk
		}
	}
}

// Risk returns the location risk and whether the location was known.
func (t *LocationTable) Risk(location string) (float64, bool) {
	if t == nil {
		return LocationRiskMedium, false
	}
	risk, ok := t.risk[normalizeLocation(location)]
	if !ok {
		return LocationRiskMedium, false
	}
	return risk, true
}

func normalizeLocation(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}
