package address

import "github.com/sells-group/geocode-cli/internal/model"

// IsUseful reports whether r carries enough information to justify a
// geocoding call: city and province, plus a street, cross street or
// neighborhood.
func (n *Normalizer) IsUseful(r *model.Record) bool {
	return n.Components(r).Useful()
}

// Useful applies the usefulness rule to already validated components.
func (c Components) Useful() bool {
	if c.City == "" || c.Province == "" {
		return false
	}
	return c.Street != "" || c.CrossStreet != "" || c.Neighborhood != ""
}
