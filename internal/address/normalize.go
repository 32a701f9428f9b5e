// Package address builds canonical lookup keys from the address columns of a
// record and decides whether an address is worth a geocoding call.
package address

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/geocode-cli/internal/model"
)

// DefaultCountry is appended to every canonical key.
const DefaultCountry = "ecuador"

// invalidTokens lists component values that carry no information. Values are
// compared after trimming and lower-casing.
var invalidTokens = map[string]bool{
	"":        true,
	"nan":     true,
	".":       true,
	"*":       true,
	"null":    true,
	"na":      true,
	"n/a":     true,
	"ninguno": true,
	"ninguna": true,
}

// Components holds the validated, lower-cased address parts of a record.
// An empty field means the raw value was missing or meaningless.
type Components struct {
	Street       string
	CrossStreet  string
	Number       string
	Neighborhood string
	City         string
	Province     string
}

// Normalizer turns records into canonical addresses.
type Normalizer struct {
	country string
	title   cases.Caser
}

// NewNormalizer creates a Normalizer that appends country to every key.
// An empty country falls back to DefaultCountry.
func NewNormalizer(country string) *Normalizer {
	country = strings.ToLower(strings.TrimSpace(country))
	if country == "" {
		country = DefaultCountry
	}
	return &Normalizer{
		country: country,
		title:   cases.Title(language.Spanish),
	}
}

// Country returns the country token appended to canonical keys.
func (n *Normalizer) Country() string { return n.country }

// Clean trims and lower-cases a raw component, returning "" for values in the
// invalid-token table or made only of dashes and underscores.
func Clean(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if invalidTokens[s] || isFiller(s) {
		return ""
	}
	return s
}

// isFiller matches runs like "---" or "___" used as placeholders.
func isFiller(s string) bool {
	if s == "" {
		return false
	}
	return strings.Trim(s, "-_") == ""
}

// Components validates every address field of r.
func (n *Normalizer) Components(r *model.Record) Components {
	return Components{
		Street:       Clean(r.Street),
		CrossStreet:  Clean(r.CrossStreet),
		Number:       Clean(r.Number),
		Neighborhood: Clean(r.Neighborhood),
		City:         Clean(r.City),
		Province:     Clean(r.Province),
	}
}

// Canonical returns the lower-cased lookup key for r. It is used as both the
// cache key and the query sent to the provider.
func (n *Normalizer) Canonical(r *model.Record) string {
	c := n.Components(r)

	parts := make([]string, 0, 6)
	if street := streetSegment(c.Street, c.CrossStreet); street != "" {
		parts = append(parts, street)
	}
	for _, s := range []string{c.Number, c.Neighborhood, c.City, c.Province} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, n.country)

	return strings.ToLower(strings.Join(parts, ", "))
}

// Display returns the canonical key in title case for log output. It is never
// used for equality.
func (n *Normalizer) Display(r *model.Record) string {
	return n.title.String(n.Canonical(r))
}

func streetSegment(primary, secondary string) string {
	switch {
	case primary != "" && secondary != "":
		return primary + " y " + secondary
	case primary != "":
		return primary
	default:
		return secondary
	}
}
