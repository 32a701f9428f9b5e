package store

import (
	"context"

	"github.com/sells-group/geocode-cli/internal/dataset"
	"github.com/sells-group/geocode-cli/internal/model"
)

// RecordPersister saves records through a Store by syncing them into their
// bound table first.
type RecordPersister struct {
	store   Store
	binding *dataset.Binding
}

// NewRecordPersister creates a RecordPersister.
func NewRecordPersister(s Store, b *dataset.Binding) *RecordPersister {
	return &RecordPersister{store: s, binding: b}
}

// Save writes records to the store.
func (p *RecordPersister) Save(ctx context.Context, records []*model.Record) error {
	p.binding.Sync(records)
	return p.store.Save(ctx, p.binding.Table())
}
