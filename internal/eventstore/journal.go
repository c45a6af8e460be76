package eventstore

import (
	"context"
	"maps"
)

// Journal appends events to a Store, stamping each with shared run metadata.
type Journal struct {
	store    Store
	metadata map[string]string
}

// NewJournal wraps store. metadata is attached to every recorded event.
func NewJournal(store Store, metadata map[string]string) *Journal {
	return &Journal{store: store, metadata: metadata}
}

// Record appends e to the store.
func (j *Journal) Record(ctx context.Context, e Event) error {
	meta := maps.Clone(j.metadata)
	if extra := e.Metadata(); len(extra) > 0 {
		if meta == nil {
			meta = make(map[string]string, len(extra))
		}
		maps.Copy(meta, extra)
	}
	return j.store.Append(ctx, e.RunID(), e.Type(), e.Payload(), meta)
}

// Close closes the underlying store.
func (j *Journal) Close() error {
	return j.store.Close()
}
