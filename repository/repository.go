package repository

import (
	"context"
	"errors"

	"github.com/go-memrepo/memrepo/record"
	"github.com/go-memrepo/memrepo/repository/q"
)

var (
	// ErrInvalidArgument signals a malformed query parameter, like an id
	// that is not a string or integer, or a negative limit or offset.
	// It is raised before any record is scanned.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound signals that no record matched; it is not an error in
	// the caller's input.
	ErrNotFound = errors.New("not found")
)

// Criteria maps field names to allowed values. A value is a single scalar
// or a slice of scalars: OR semantics within a field, AND semantics
// across fields. A record lacking a criterion field never matches.
type Criteria map[string]any

type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// QueryOption sets ordering or pagination on FindBy and FindOneBy.
type QueryOption func(*query)

// OrderBy adds a sort key. Repeat the option for a multi-key sort; later
// keys break ties of earlier ones. Records missing the field keep their
// relative position for that key.
func OrderBy(field string, direction Direction) QueryOption {
	return func(q *query) {
		q.orderings = append(q.orderings, ordering{field: field, descending: direction == DESC})
	}
}

// Limit caps the number of results. Without the option results are
// unbounded; a limit of 0 yields an empty slice.
func Limit(limit int) QueryOption {
	return func(q *query) {
		q.limit = &limit
	}
}

// Offset skips the first results after filtering and ordering. An offset
// beyond the result length yields an empty slice.
func Offset(offset int) QueryOption {
	return func(q *query) {
		q.offset = &offset
	}
}

type ordering struct {
	field      string
	descending bool
}

type query struct {
	orderings []ordering
	limit     *int
	offset    *int
}

// Repository is the public query surface of one entity collection.
// All methods are pure reads.
type Repository interface {
	// Find looks an entity up by its STORE KEY, which coincides with the
	// record's id attribute only when the store was built that way.
	// The id must be a string or integer, anything else is an
	// ErrInvalidArgument.
	Find(ctx context.Context, id any) (record.Entity, error)

	// FindAll returns every entity in the store's insertion order.
	FindAll(ctx context.Context) ([]record.Entity, error)

	// FindBy filters by criteria and applies ordering and pagination
	// options, strictly in that order. Survivors of the filter keep the
	// store's insertion order.
	FindBy(ctx context.Context, criteria Criteria, opts ...QueryOption) ([]record.Entity, error)

	// FindOneBy is FindBy with limit 1 and offset 0, failing with
	// ErrNotFound when nothing matches.
	FindOneBy(ctx context.Context, criteria Criteria, opts ...QueryOption) (record.Entity, error)

	// Count returns the number of matching records; empty or nil
	// criteria count the whole store.
	Count(ctx context.Context, criteria Criteria) (int, error)

	// FindByCriteria runs a rich q.Query through the same filter, sort,
	// and paginate pipeline as FindBy.
	FindByCriteria(ctx context.Context, query q.Query) ([]record.Entity, error)

	// EntityName returns the logical entity type results are created as.
	EntityName() string
}
