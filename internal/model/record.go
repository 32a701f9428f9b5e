package model

import "strings"

// Record is one row of the record set. Identity is the row position; records
// are mutated in place and never removed.
type Record struct {
	Row          int    `json:"row"`
	Street       string `json:"street,omitempty"`
	CrossStreet  string `json:"cross_street,omitempty"`
	Number       string `json:"number,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	Province     string `json:"province,omitempty"`
	Coordinate   string `json:"coordinate"`
}

// Pending reports whether the record has never been attempted.
func (r *Record) Pending() bool {
	return strings.TrimSpace(r.Coordinate) == ""
}

// Outcome parses the coordinate field. ok is false when the record is pending
// or the field holds something that is neither a sentinel nor a coordinate
// pair.
func (r *Record) Outcome() (Outcome, bool) {
	if r.Pending() {
		return Outcome{}, false
	}
	o, err := ParseOutcome(r.Coordinate)
	if err != nil {
		return Outcome{}, false
	}
	return o, true
}

// Apply writes the outcome into the coordinate field.
func (r *Record) Apply(o Outcome) {
	r.Coordinate = o.String()
}
