// Package resolve turns logical repository identifiers into concrete
// entity and repository types. Resolution is deterministic and free of
// side effects; the manager caches its outcome per identifier.
package resolve

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-memrepo/memrepo/record"
)

// ErrResolution signals a configuration or programming mistake, like a
// misspelled entity name. It is never worth retrying.
var ErrResolution = errors.New("could not resolve")

// Convention describes the naming scheme used to rewrite interface-style
// identifiers into entity names. It is configuration, not hard-coded
// literals, so the algorithm ports across naming schemes.
type Convention struct {
	// Separator between the segments of a type reference. An identifier
	// without it is treated as a bare symbolic key.
	Separator string

	// ContractSegment is the segment replaced by EntitySegment when the
	// interface rewrite applies.
	ContractSegment string
	EntitySegment   string

	// InterfaceSuffix marks an identifier as an interface reference,
	// e.g. "shop.contract.WidgetInterface" -> "shop.entity.Widget".
	InterfaceSuffix string
}

// DefaultConvention returns the scheme used when none is configured.
func DefaultConvention() Convention {
	return Convention{
		Separator:       ".",
		ContractSegment: "contract",
		EntitySegment:   "entity",
		InterfaceSuffix: "Interface",
	}
}

// IsTypeReference reports whether the identifier names a concrete type,
// as opposed to a bare symbolic key.
func (c Convention) IsTypeReference(identifier string) bool {
	return strings.Contains(identifier, c.Separator)
}

// EntityName rewrites an interface-style identifier into the entity name
// the convention maps it to. The second return reports whether the
// rewrite applied; if not, the identifier is returned unchanged and
// should be used as-is.
func (c Convention) EntityName(identifier string) (string, bool) {
	if !strings.HasSuffix(identifier, c.InterfaceSuffix) {
		return identifier, false
	}

	segments := strings.Split(identifier, c.Separator)

	last := strings.TrimSuffix(segments[len(segments)-1], c.InterfaceSuffix)
	if last == "" {
		return identifier, false
	}

	segments[len(segments)-1] = last

	for i, segment := range segments {
		if segment == c.ContractSegment {
			segments[i] = c.EntitySegment
		}
	}

	return strings.Join(segments, c.Separator), true
}

// RepositoryTypeProvider is implemented by entity types that name the
// repository kind backing them. It takes precedence over the repository
// kind registered for the entity.
type RepositoryTypeProvider interface {
	RepositoryType() string
}

// Entry is the registration of one entity type: how to build instances
// of it, and optionally which repository kind serves it. An Entry with a
// nil Factory produces dynamic attribute containers.
type Entry struct {
	Factory    record.Factory
	Repository string
}

// Registry is the explicit registration table of known entity types,
// replacing any runtime metadata scanning. Populate it at startup.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register associates an entity name with its Entry. Re-registering a
// name overwrites the earlier entry.
func (r *Registry) Register(name string, entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.Factory == nil {
		entry.Factory = record.AttributesFactory
	}

	r.entries[name] = entry
}

func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]

	return entry, ok
}

// Names returns all registered entity names, for diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}

	return names
}

// Resolution is the outcome of resolving one logical identifier.
type Resolution struct {
	EntityName     string
	RepositoryType string
	Factory        record.Factory
}

// ResolverOption configures a Resolver during construction.
type ResolverOption func(*Resolver)

func WithConvention(convention Convention) ResolverOption {
	return func(r *Resolver) {
		r.convention = convention
	}
}

// WithDefaultEntity sets the entity type used for bare symbolic
// identifiers.
func WithDefaultEntity(name string) ResolverOption {
	return func(r *Resolver) {
		r.defaultEntity = name
	}
}

// WithDefaultRepository sets the repository kind used when neither the
// entity nor its registration names one.
func WithDefaultRepository(kind string) ResolverOption {
	return func(r *Resolver) {
		r.defaultRepository = kind
	}
}

// WithRepositoryTypes declares the repository kinds that can actually be
// constructed. Resolving to any other kind fails.
func WithRepositoryTypes(kinds ...string) ResolverOption {
	return func(r *Resolver) {
		for _, kind := range kinds {
			r.repositoryTypes[kind] = struct{}{}
		}
	}
}

// NewResolver builds a Resolver over the given registry of entity types.
func NewResolver(registry *Registry, opts ...ResolverOption) *Resolver {
	resolver := &Resolver{
		registry:        registry,
		convention:      DefaultConvention(),
		repositoryTypes: make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(resolver)
	}

	return resolver
}

// Resolver maps logical identifiers to entity and repository types,
// with convention-based fallbacks. Safe for concurrent use.
type Resolver struct {
	registry   *Registry
	convention Convention

	defaultEntity     string
	defaultRepository string
	repositoryTypes   map[string]struct{}
}

// Resolve determines the entity type and repository kind for a logical
// identifier. It is a pure function of the identifier, the registry, and
// the configured defaults.
func (r *Resolver) Resolve(identifier string) (Resolution, error) {
	name := identifier

	if !r.convention.IsTypeReference(identifier) {
		if r.defaultEntity == "" {
			return Resolution{}, fmt.Errorf("%w: %q is not a type reference and no default entity type is configured",
				ErrResolution, identifier)
		}

		name = r.defaultEntity
	} else if rewritten, ok := r.convention.EntityName(identifier); ok {
		name = rewritten
	}

	entry, ok := r.registry.Lookup(name)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: unknown entity type %q, could it be misspelled?", ErrResolution, name)
	}

	kind := r.repositoryType(name, entry)
	if kind == "" {
		return Resolution{}, fmt.Errorf("%w: no repository type for entity %q and no default is configured",
			ErrResolution, name)
	}

	if _, ok := r.repositoryTypes[kind]; len(r.repositoryTypes) > 0 && !ok {
		return Resolution{}, fmt.Errorf("%w: unknown repository type %q for entity %q", ErrResolution, kind, name)
	}

	return Resolution{EntityName: name, RepositoryType: kind, Factory: entry.Factory}, nil
}

// repositoryType picks the repository kind: the entity's own
// RepositoryTypeProvider first, then the registered kind, then the
// default.
func (r *Resolver) repositoryType(name string, entry Entry) string {
	if entry.Factory != nil {
		if probe, err := entry.Factory(record.Record{}, name); err == nil {
			if provider, ok := probe.(RepositoryTypeProvider); ok {
				if kind := provider.RepositoryType(); kind != "" {
					return kind
				}
			}
		}
	}

	if entry.Repository != "" {
		return entry.Repository
	}

	return r.defaultRepository
}
