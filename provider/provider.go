// Package provider supplies fully materialised record stores to the
// repository manager. A provider owns all I/O; once a store is handed
// over, no further loading happens.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-memrepo/memrepo/record"
)

// ErrDataProvider signals that no source is configured for an identifier
// or that the source's content does not decode into a record collection.
var ErrDataProvider = errors.New("could not provide data")

// Provider fetches the raw record set for a logical identifier.
type Provider interface {
	Fetch(ctx context.Context, sourceIdentifier string) (*record.Store, error)
}

var _ Provider = (*MemoryProvider)(nil)

// MemoryProvider serves pre-built stores from a fixed map. Ideal as a
// dependency in tests and for data assembled in code.
type MemoryProvider struct {
	stores map[string]*record.Store
}

func NewMemoryProvider(stores map[string]*record.Store) *MemoryProvider {
	if stores == nil {
		stores = map[string]*record.Store{}
	}

	return &MemoryProvider{stores: stores}
}

func (p *MemoryProvider) Fetch(_ context.Context, sourceIdentifier string) (*record.Store, error) {
	store, ok := p.stores[sourceIdentifier]
	if !ok {
		return nil, fmt.Errorf("%w: no source configured for %q", ErrDataProvider, sourceIdentifier)
	}

	return store, nil
}
