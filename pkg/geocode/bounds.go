package geocode

import (
	"strings"

	"github.com/twpayne/go-geom"
)

// countryBounds are generous lon/lat boxes used to flag suspicious results.
// Ecuador's box includes the Galápagos.
var countryBounds = map[string]*geom.Bounds{
	"EC": geom.NewBounds(geom.XY).Set(-92.5, -5.2, -75.0, 1.9),
	"CO": geom.NewBounds(geom.XY).Set(-82.0, -4.4, -66.7, 13.6),
	"PE": geom.NewBounds(geom.XY).Set(-81.5, -18.5, -68.5, 0.1),
}

// CountryBounds returns the bounding box registered for an ISO country code.
func CountryBounds(code string) (*geom.Bounds, bool) {
	b, ok := countryBounds[strings.ToUpper(strings.TrimSpace(code))]
	return b, ok
}

// WithinBounds reports whether lat/lng fall inside b. A nil box contains
// everything.
func WithinBounds(b *geom.Bounds, lat, lng float64) bool {
	if b == nil {
		return true
	}
	return b.OverlapsPoint(geom.XY, geom.Coord{lng, lat})
}
