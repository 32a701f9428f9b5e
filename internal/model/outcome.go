package model

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Unresolved is the coordinate field sentinel for "attempted, no usable
// result". It is terminal: rows carrying it are never retried automatically.
const Unresolved = "NA"

// Source describes how an outcome was obtained during a run.
type Source string

const (
	SourceCache     Source = "cache"
	SourceDiscarded Source = "discarded" // failed the usefulness filter, no provider call
	SourceAPI       Source = "api"
	SourceNoCoord   Source = "no-coord" // provider called, nothing usable came back
)

// Outcome is the resolution result for a canonical address: either a
// coordinate pair or the Unresolved sentinel.
type Outcome struct {
	Resolved  bool
	Latitude  float64
	Longitude float64
}

// ResolvedAt returns a resolved outcome for the given coordinates.
func ResolvedAt(lat, lng float64) Outcome {
	return Outcome{Resolved: true, Latitude: lat, Longitude: lng}
}

// UnresolvedOutcome returns the permanent "no result" outcome.
func UnresolvedOutcome() Outcome {
	return Outcome{}
}

// String encodes the outcome the way it is stored in the coordinate field:
// "NA" or "<lat>,<lng>".
func (o Outcome) String() string {
	if !o.Resolved {
		return Unresolved
	}
	return strconv.FormatFloat(o.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(o.Longitude, 'f', -1, 64)
}

// ParseOutcome decodes a non-empty coordinate field.
func ParseOutcome(s string) (Outcome, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Outcome{}, eris.New("model: empty coordinate field")
	}
	if s == Unresolved {
		return UnresolvedOutcome(), nil
	}

	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return Outcome{}, eris.Errorf("model: malformed coordinate %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Outcome{}, eris.Wrapf(err, "model: parse latitude %q", latStr)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return Outcome{}, eris.Wrapf(err, "model: parse longitude %q", lngStr)
	}
	return ResolvedAt(lat, lng), nil
}
