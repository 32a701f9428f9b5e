package resolve

import (
	"github.com/sells-group/geocode-cli/internal/address"
	"github.com/sells-group/geocode-cli/internal/model"
)

// Summary describes the resolution state of a record set.
type Summary struct {
	Records          int `json:"records"`
	Pending          int `json:"pending"`
	Resolved         int `json:"resolved"`
	Unresolved       int `json:"unresolved"`
	Malformed        int `json:"malformed"`
	PendingKeys      int `json:"pending_addresses"`
	UsefulKeys       int `json:"useful_pending_addresses"`
	UnresolvedUseful int `json:"unresolved_useful"`
}

// Summarize counts records by coordinate state and the distinct canonical
// addresses still waiting for a lookup. PendingKeys bounds the provider calls
// the next run can make; UsefulKeys is the number it will actually make with
// an empty cache.
func Summarize(records []*model.Record, n *address.Normalizer) Summary {
	s := Summary{Records: len(records)}
	pending := make(map[string]bool)

	for _, r := range records {
		if r.Pending() {
			s.Pending++
			key := n.Canonical(r)
			if _, seen := pending[key]; !seen {
				pending[key] = n.IsUseful(r)
			}
			continue
		}
		o, ok := r.Outcome()
		switch {
		case !ok:
			s.Malformed++
		case o.Resolved:
			s.Resolved++
		default:
			s.Unresolved++
			if n.IsUseful(r) {
				s.UnresolvedUseful++
			}
		}
	}

	s.PendingKeys = len(pending)
	for _, useful := range pending {
		if useful {
			s.UsefulKeys++
		}
	}
	return s
}

// Reset clears the "NA" sentinel so the next run retries those records. With
// usefulOnly, only records that pass the usefulness filter are cleared, which
// leaves addresses that would be discarded again untouched. It returns the
// number of records cleared.
func Reset(records []*model.Record, n *address.Normalizer, usefulOnly bool) int {
	cleared := 0
	for _, r := range records {
		o, ok := r.Outcome()
		if !ok || o.Resolved {
			continue
		}
		if usefulOnly && !n.IsUseful(r) {
			continue
		}
		r.Coordinate = ""
		cleared++
	}
	return cleared
}
