// Package memrepo offers repositories over static in-memory record sets.
// A Manager resolves logical identifiers to entity and repository types
// by naming convention, loads the backing records through a Provider,
// and hands out the same repository instance for the same identifier for
// its whole lifetime.
package memrepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/go-memrepo/memrepo/dlog"
	"github.com/go-memrepo/memrepo/provider"
	"github.com/go-memrepo/memrepo/repository"
	"github.com/go-memrepo/memrepo/resolve"
)

// ErrManager is the only failure kind observable from GetRepository. It
// carries the message of the underlying resolution, fetch, or
// construction failure, without exposing its sentinel.
var ErrManager = errors.New("could not get repository")

// RepositoryMemory is the data-backed repository kind: the manager
// fetches the record set from its Provider and wraps it in a
// MemoryRepository.
const RepositoryMemory = "memory"

// Constructor builds a repository kind that sources its data itself,
// e.g. from a live database. The manager calls it once per identifier
// resolving to its kind.
type Constructor func(ctx context.Context) (repository.Repository, error)

// ManagerOption configures a Manager during construction.
type ManagerOption func(*Manager)

func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithConstructor registers a self-sourcing repository kind. Declare the
// kind to the resolver via resolve.WithRepositoryTypes as well, or
// resolution will reject it.
func WithConstructor(kind string, construct Constructor) ManagerOption {
	return func(m *Manager) {
		m.constructors[kind] = construct
	}
}

// NewManager wires a resolver and a provider into a Manager.
func NewManager(resolver *resolve.Resolver, dataProvider provider.Provider, opts ...ManagerOption) *Manager {
	manager := &Manager{
		resolver:     resolver,
		provider:     dataProvider,
		constructors: make(map[string]Constructor),
		logger:       dlog.NewNoop(),
		mu:           sync.RWMutex{},
		loaded:       make(map[string]repository.Repository),
		group:        singleflight.Group{},
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

// Manager caches one repository instance per logical identifier for its
// whole lifetime. There is no invalidation: callers can rely on
// GetRepository returning the identical instance for the same
// identifier.
type Manager struct {
	resolver     *resolve.Resolver
	provider     provider.Provider
	constructors map[string]Constructor
	logger       *slog.Logger

	mu     sync.RWMutex
	loaded map[string]repository.Repository
	group  singleflight.Group
}

// GetRepository returns the repository for a logical identifier,
// constructing and caching it on first use. Concurrent first requests
// for the same identifier construct at most once. Every resolution,
// fetch, or construction failure surfaces as ErrManager and leaves
// nothing cached.
func (m *Manager) GetRepository(ctx context.Context, identifier string) (repository.Repository, error) {
	m.mu.RLock()
	repo, ok := m.loaded[identifier]
	m.mu.RUnlock()

	if ok {
		return repo, nil
	}

	v, err, _ := m.group.Do(identifier, func() (any, error) {
		m.mu.RLock()
		repo, ok := m.loaded[identifier]
		m.mu.RUnlock()

		if ok {
			return repo, nil
		}

		repo, err := m.construct(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrManager, err)
		}

		m.mu.Lock()
		m.loaded[identifier] = repo
		m.mu.Unlock()

		return repo, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(repository.Repository), nil //nolint:forcetypeassert // only repositories are stored
}

func (m *Manager) construct(ctx context.Context, identifier string) (repository.Repository, error) {
	resolution, err := m.resolver.Resolve(identifier)
	if err != nil {
		return nil, err
	}

	m.logger.DebugContext(ctx, "resolved repository identifier",
		slog.String("identifier", identifier),
		slog.String("entity", resolution.EntityName),
		slog.String("repository", resolution.RepositoryType),
	)

	if resolution.RepositoryType == RepositoryMemory {
		store, err := m.provider.Fetch(ctx, identifier)
		if err != nil {
			return nil, err
		}

		return repository.NewMemoryRepository(store, resolution.EntityName,
			repository.WithFactory(resolution.Factory),
		), nil
	}

	construct, ok := m.constructors[resolution.RepositoryType]
	if !ok {
		return nil, fmt.Errorf("no constructor registered for repository type %q", resolution.RepositoryType)
	}

	return construct(ctx)
}
