package directory

import "sync/atomic"

// Holder publishes directory snapshots. Readers call Current once per
// request and use that snapshot throughout; Swap replaces it atomically.
type Holder struct {
	current atomic.Pointer[Directory]
	sources Sources
}

// NewHolder creates a holder that starts with d
func NewHolder(d *Directory, sources Sources) *Holder {
	h := &Holder{sources: sources}
	if d == nil {
		d = New()
	}
	h.current.Store(d)
	return h
}

// Current returns the published snapshot
func (h *Holder) Current() *Directory {
	return h.current.Load()
}

// Swap publishes d and returns the previous snapshot
func (h *Holder) Swap(d *Directory) *Directory {
	return h.current.Swap(d)
}

// Reload rebuilds the snapshot from the holder's sources. On error the
// current snapshot stays published.
func (h *Holder) Reload() (*Directory, error) {
	d, err := Load(h.sources)
	if err != nil {
		return nil, err
	}
	h.current.Store(d)
	return d, nil
}

// Sources returns the files the holder reloads from
func (h *Holder) Sources() Sources {
	return h.sources
}
