package repository

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/go-memrepo/memrepo/record"
	"github.com/go-memrepo/memrepo/repository/q"
)

// Option takes in a repository to set different optional properties.
type Option func(*repoConfig)

type repoConfig struct {
	factory record.Factory
}

// WithFactory sets the entity factory used to turn records into the
// entities handed out to callers. If not set, results are dynamic
// attribute containers.
func WithFactory(factory record.Factory) Option {
	return func(config *repoConfig) {
		if factory != nil {
			config.factory = factory
		}
	}
}

// NewMemoryRepository returns a Repository over a fully loaded store.
// The store is never mutated; every result is a fresh entity built by
// the configured factory.
func NewMemoryRepository(store *record.Store, entityName string, opts ...Option) *MemoryRepository {
	config := repoConfig{factory: record.AttributesFactory}
	for _, opt := range opts {
		opt(&config)
	}

	return &MemoryRepository{
		store:      store,
		entityName: entityName,
		repoConfig: config,
	}
}

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository implements Repository over an immutable in-memory
// record store. It is safe for concurrent use, as all operations are
// reads.
type MemoryRepository struct {
	store      *record.Store
	entityName string

	repoConfig
}

func (repo *MemoryRepository) EntityName() string {
	return repo.entityName
}

func (repo *MemoryRepository) Find(_ context.Context, id any) (record.Entity, error) {
	key, err := record.KeyOf(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	rec, ok := repo.store.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: no record with key %q", ErrNotFound, key.String())
	}

	return repo.factory(rec, repo.entityName)
}

func (repo *MemoryRepository) FindAll(_ context.Context) ([]record.Entity, error) {
	return repo.entities(repo.store.Records())
}

func (repo *MemoryRepository) FindBy(_ context.Context, criteria Criteria, opts ...QueryOption) ([]record.Entity, error) {
	qry := query{}
	for _, opt := range opts {
		opt(&qry)
	}

	return repo.findRecords(func(rec record.Record) bool {
		return matchesCriteria(rec, criteria)
	}, qry)
}

func (repo *MemoryRepository) FindOneBy(ctx context.Context, criteria Criteria, opts ...QueryOption) (record.Entity, error) {
	one := 1
	zero := 0

	qry := query{}
	for _, opt := range opts {
		opt(&qry)
	}

	qry.limit = &one
	qry.offset = &zero

	entities, err := repo.findRecords(func(rec record.Record) bool {
		return matchesCriteria(rec, criteria)
	}, qry)
	if err != nil {
		return nil, err
	}

	if len(entities) == 0 {
		return nil, fmt.Errorf("%w: no record matches the criteria", ErrNotFound)
	}

	return entities[0], nil
}

func (repo *MemoryRepository) Count(_ context.Context, criteria Criteria) (int, error) {
	if len(criteria) == 0 {
		return repo.store.Len(), nil
	}

	count := 0

	repo.store.Each(func(_ record.Key, rec record.Record) bool {
		if matchesCriteria(rec, criteria) {
			count++
		}

		return true
	})

	return count, nil
}

func (repo *MemoryRepository) FindByCriteria(_ context.Context, qry q.Query) ([]record.Entity, error) {
	engineQry := query{}

	for _, o := range qry.Orderings() {
		engineQry.orderings = append(engineQry.orderings, ordering{field: o.Field, descending: o.Descending})
	}

	engineQry.limit, engineQry.offset = qry.Pagination()

	return repo.findRecords(qry.Matches, engineQry)
}

// findRecords is the shared filter, sort, and paginate pipeline behind
// all bulk queries.
func (repo *MemoryRepository) findRecords(matches func(record.Record) bool, qry query) ([]record.Entity, error) {
	if qry.limit != nil && *qry.limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative, got %d", ErrInvalidArgument, *qry.limit)
	}

	if qry.offset != nil && *qry.offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative, got %d", ErrInvalidArgument, *qry.offset)
	}

	// filter, preserving the store's insertion order among survivors
	result := []record.Record{}

	for _, rec := range repo.store.Records() {
		if matches(rec) {
			result = append(result, rec)
		}
	}

	sortRecords(result, qry.orderings)

	return repo.entities(paginate(result, qry.limit, qry.offset))
}

func (repo *MemoryRepository) entities(records []record.Record) ([]record.Entity, error) {
	entities := make([]record.Entity, 0, len(records))

	for _, rec := range records {
		e, err := repo.factory(rec, repo.entityName)
		if err != nil {
			return nil, fmt.Errorf("could not create entity: %w", err)
		}

		entities = append(entities, e)
	}

	return entities, nil
}

// matchesCriteria implements the flat criteria contract: AND across
// fields, OR within a field, loose equality on scalars.
func matchesCriteria(rec record.Record, criteria Criteria) bool {
	for field, allowed := range criteria {
		value, ok := rec[field]
		if !ok {
			return false
		}

		if !valueAllowed(value, allowed) {
			return false
		}
	}

	return true
}

func valueAllowed(value, allowed any) bool {
	rv := reflect.ValueOf(allowed)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			if record.Equal(value, rv.Index(i).Interface()) {
				return true
			}
		}

		return false
	}

	return record.Equal(value, allowed)
}

// sortRecords applies a stable multi-key sort: the first key that orders
// both records decides, keys a record is missing are skipped, and full
// ties keep the insertion order.
func sortRecords(records []record.Record, orderings []ordering) {
	if len(orderings) == 0 {
		return
	}

	sort.SliceStable(records, func(i, j int) bool {
		return compareRecords(records[i], records[j], orderings) < 0
	})
}

func compareRecords(a, b record.Record, orderings []ordering) int {
	for _, o := range orderings {
		va, okA := a[o.field]
		vb, okB := b[o.field]

		if !okA || !okB {
			continue
		}

		cmp, ok := record.Compare(va, vb)
		if !ok || cmp == 0 {
			continue
		}

		if o.descending {
			return -cmp
		}

		return cmp
	}

	return 0
}

func paginate(records []record.Record, limit, offset *int) []record.Record {
	start := 0
	if offset != nil {
		start = *offset
	}

	if start >= len(records) {
		return []record.Record{}
	}

	// compare without adding, start+*limit could overflow
	end := len(records)
	if limit != nil && *limit < end-start {
		end = start + *limit
	}

	return records[start:end]
}
