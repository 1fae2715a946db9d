package memrepo

import (
	"github.com/go-memrepo/memrepo/provider"
	"github.com/go-memrepo/memrepo/resolve"
)

// NewFromConfig assembles a Manager from a validated Config and a
// registry of entity types: a file provider over the configured sources
// and a resolver using the configured naming convention and defaults.
// Self-sourcing repository kinds registered via WithConstructor are
// declared to the resolver automatically.
func NewFromConfig(config *Config, registry *resolve.Registry, opts ...ManagerOption) *Manager {
	manager := NewManager(nil, nil, opts...)

	manager.provider = provider.NewFileProvider(config.Sources,
		provider.WithIDField(config.IDField),
		provider.WithLogger(manager.logger),
	)

	kinds := []string{RepositoryMemory}
	for kind := range manager.constructors {
		kinds = append(kinds, kind)
	}

	manager.resolver = resolve.NewResolver(registry,
		resolve.WithConvention(config.convention()),
		resolve.WithDefaultEntity(config.DefaultEntity),
		resolve.WithDefaultRepository(config.DefaultRepository),
		resolve.WithRepositoryTypes(kinds...),
	)

	return manager
}
