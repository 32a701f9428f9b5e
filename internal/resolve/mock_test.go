package resolve

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/geocode-cli/internal/model"
	"github.com/sells-group/geocode-cli/pkg/geocode"
)

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Resolve(ctx context.Context, address string) geocode.Result {
	args := m.Called(ctx, address)
	return args.Get(0).(geocode.Result)
}

// recordingPersister keeps a copy of the coordinate column on every save.
type recordingPersister struct {
	snapshots [][]string
	err       error
	failAt    int // 1-based save number that fails; 0 never fails
}

func (p *recordingPersister) Save(ctx context.Context, records []*model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.failAt > 0 && len(p.snapshots)+1 == p.failAt {
		return p.err
	}
	snap := make([]string, len(records))
	for i, r := range records {
		snap[i] = r.Coordinate
	}
	p.snapshots = append(p.snapshots, snap)
	return nil
}

func (p *recordingPersister) last() []string {
	if len(p.snapshots) == 0 {
		return nil
	}
	return p.snapshots[len(p.snapshots)-1]
}

func matched(lat, lng float64) geocode.Result {
	return geocode.Result{Matched: true, Latitude: lat, Longitude: lng, Status: geocode.StatusOK}
}

func unmatched() geocode.Result {
	return geocode.Result{Matched: false, Status: "ZERO_RESULTS"}
}
