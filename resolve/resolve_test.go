package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-memrepo/memrepo/record"
	"github.com/go-memrepo/memrepo/resolve"
)

func TestConvention_EntityName(t *testing.T) {
	t.Parallel()

	convention := resolve.DefaultConvention()

	tests := map[string]struct {
		identifier string
		entity     string
		rewritten  bool
	}{
		"interface reference": {"shop.contract.WidgetInterface", "shop.entity.Widget", true},
		"no suffix":           {"shop.entity.Widget", "shop.entity.Widget", false},
		"no contract segment": {"shop.other.WidgetInterface", "shop.other.Widget", true},
		"suffix only":         {"shop.contract.Interface", "shop.contract.Interface", false},
		"bare identifier":     {"widgets", "widgets", false},
		"bare with suffix":    {"WidgetInterface", "Widget", true},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			entity, rewritten := convention.EntityName(tt.identifier)
			assert.Equal(t, tt.entity, entity)
			assert.Equal(t, tt.rewritten, rewritten)
		})
	}

	t.Run("custom scheme", func(t *testing.T) {
		t.Parallel()

		custom := resolve.Convention{
			Separator:       "/",
			ContractSegment: "api",
			EntitySegment:   "model",
			InterfaceSuffix: "Contract",
		}

		entity, rewritten := custom.EntityName("app/api/UserContract")
		assert.True(t, rewritten)
		assert.Equal(t, "app/model/User", entity)
	})
}

func TestConvention_IsTypeReference(t *testing.T) {
	t.Parallel()

	convention := resolve.DefaultConvention()

	assert.True(t, convention.IsTypeReference("shop.entity.Widget"))
	assert.False(t, convention.IsTypeReference("widgets"))
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("concrete type reference", func(t *testing.T) {
		t.Parallel()

		registry := resolve.NewRegistry()
		registry.Register("shop.entity.Widget", resolve.Entry{})

		resolver := resolve.NewResolver(registry, resolve.WithDefaultRepository("memory"))

		resolution, err := resolver.Resolve("shop.entity.Widget")
		require.NoError(t, err)

		assert.Equal(t, "shop.entity.Widget", resolution.EntityName)
		assert.Equal(t, "memory", resolution.RepositoryType)
		assert.NotNil(t, resolution.Factory)
	})

	t.Run("interface reference is rewritten", func(t *testing.T) {
		t.Parallel()

		registry := resolve.NewRegistry()
		registry.Register("shop.entity.Widget", resolve.Entry{})

		resolver := resolve.NewResolver(registry, resolve.WithDefaultRepository("memory"))

		resolution, err := resolver.Resolve("shop.contract.WidgetInterface")
		require.NoError(t, err)

		assert.Equal(t, "shop.entity.Widget", resolution.EntityName)
	})

	t.Run("bare identifier uses the default entity", func(t *testing.T) {
		t.Parallel()

		registry := resolve.NewRegistry()
		registry.Register("shop.entity.Widget", resolve.Entry{})

		resolver := resolve.NewResolver(registry,
			resolve.WithDefaultEntity("shop.entity.Widget"),
			resolve.WithDefaultRepository("memory"),
		)

		resolution, err := resolver.Resolve("widgets")
		require.NoError(t, err)

		assert.Equal(t, "shop.entity.Widget", resolution.EntityName)
	})

	t.Run("bare identifier without a default fails", func(t *testing.T) {
		t.Parallel()

		resolver := resolve.NewResolver(resolve.NewRegistry(), resolve.WithDefaultRepository("memory"))

		_, err := resolver.Resolve("widgets")
		assert.ErrorIs(t, err, resolve.ErrResolution)
	})

	t.Run("unknown entity type", func(t *testing.T) {
		t.Parallel()

		resolver := resolve.NewResolver(resolve.NewRegistry(), resolve.WithDefaultRepository("memory"))

		_, err := resolver.Resolve("Not.A.RealType")
		assert.ErrorIs(t, err, resolve.ErrResolution)
		assert.ErrorContains(t, err, "misspelled")
	})

	t.Run("resolution is deterministic", func(t *testing.T) {
		t.Parallel()

		registry := resolve.NewRegistry()
		registry.Register("shop.entity.Widget", resolve.Entry{})

		resolver := resolve.NewResolver(registry, resolve.WithDefaultRepository("memory"))

		first, err := resolver.Resolve("shop.contract.WidgetInterface")
		require.NoError(t, err)

		second, err := resolver.Resolve("shop.contract.WidgetInterface")
		require.NoError(t, err)

		assert.Equal(t, first.EntityName, second.EntityName)
		assert.Equal(t, first.RepositoryType, second.RepositoryType)
	})
}

// selfDescribing is an entity that names its own repository kind.
type selfDescribing struct {
	*record.Attributes
}

func (e selfDescribing) RepositoryType() string {
	return "external"
}

func TestResolver_RepositoryType(t *testing.T) {
	t.Parallel()

	selfDescribingFactory := func(rec record.Record, name string) (record.Entity, error) {
		return selfDescribing{Attributes: record.NewAttributes(name, rec)}, nil
	}

	t.Run("entity provider takes precedence", func(t *testing.T) {
		t.Parallel()

		registry := resolve.NewRegistry()
		registry.Register("shop.entity.Widget", resolve.Entry{
			Factory:    selfDescribingFactory,
			Repository: "registered",
		})

		resolver := resolve.NewResolver(registry, resolve.WithDefaultRepository("memory"))

		resolution, err := resolver.Resolve("shop.entity.Widget")
		require.NoError(t, err)
		assert.Equal(t, "external", resolution.RepositoryType)
	})

	t.Run("registered kind beats the default", func(t *testing.T) {
		t.Parallel()

		registry := resolve.NewRegistry()
		registry.Register("shop.entity.Widget", resolve.Entry{Repository: "registered"})

		resolver := resolve.NewResolver(registry, resolve.WithDefaultRepository("memory"))

		resolution, err := resolver.Resolve("shop.entity.Widget")
		require.NoError(t, err)
		assert.Equal(t, "registered", resolution.RepositoryType)
	})

	t.Run("default as fallback", func(t *testing.T) {
		t.Parallel()

		registry := resolve.NewRegistry()
		registry.Register("shop.entity.Widget", resolve.Entry{})

		resolver := resolve.NewResolver(registry, resolve.WithDefaultRepository("memory"))

		resolution, err := resolver.Resolve("shop.entity.Widget")
		require.NoError(t, err)
		assert.Equal(t, "memory", resolution.RepositoryType)
	})

	t.Run("no kind anywhere fails", func(t *testing.T) {
		t.Parallel()

		registry := resolve.NewRegistry()
		registry.Register("shop.entity.Widget", resolve.Entry{})

		resolver := resolve.NewResolver(registry)

		_, err := resolver.Resolve("shop.entity.Widget")
		assert.ErrorIs(t, err, resolve.ErrResolution)
	})

	t.Run("kind outside the declared set fails", func(t *testing.T) {
		t.Parallel()

		registry := resolve.NewRegistry()
		registry.Register("shop.entity.Widget", resolve.Entry{Repository: "postgres"})

		resolver := resolve.NewResolver(registry,
			resolve.WithDefaultRepository("memory"),
			resolve.WithRepositoryTypes("memory"),
		)

		_, err := resolver.Resolve("shop.entity.Widget")
		assert.ErrorIs(t, err, resolve.ErrResolution)
	})
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry := resolve.NewRegistry()
	registry.Register("shop.entity.Widget", resolve.Entry{})
	registry.Register("shop.entity.Gadget", resolve.Entry{Repository: "external"})

	entry, ok := registry.Lookup("shop.entity.Gadget")
	assert.True(t, ok)
	assert.Equal(t, "external", entry.Repository)
	assert.NotNil(t, entry.Factory, "a nil factory defaults to dynamic entities")

	_, ok = registry.Lookup("shop.entity.Unknown")
	assert.False(t, ok)

	assert.ElementsMatch(t, []string{"shop.entity.Widget", "shop.entity.Gadget"}, registry.Names())
}
