package record

// Keyed pairs a Record with the Key it was stored under in its source.
// It is the unit a Store is built from, so that the source's order
// survives the construction.
type Keyed struct {
	Key    Key
	Record Record
}

// StoreOption configures a Store during construction.
type StoreOption func(*storeConfig)

type storeConfig struct {
	idField string
}

// WithIDField sets the name of the identifier field every record must
// carry. If not set, "id" is assumed.
func WithIDField(name string) StoreOption {
	return func(config *storeConfig) {
		config.idField = name
	}
}

// NewStore builds an immutable ordered collection from the given records.
// Records keep the order they are passed in; a duplicate key overwrites
// the earlier record but keeps its original position. Records missing the
// identifier field get it injected with the store key as its value.
func NewStore(records []Keyed, opts ...StoreOption) *Store {
	config := storeConfig{idField: "id"}
	for _, opt := range opts {
		opt(&config)
	}

	store := &Store{
		idField: config.idField,
		keys:    make([]Key, 0, len(records)),
		records: make(map[Key]Record, len(records)),
	}

	for _, kr := range records {
		rec := kr.Record.Copy()
		if rec == nil {
			rec = Record{}
		}

		if _, ok := rec[config.idField]; !ok {
			rec[config.idField] = kr.Key.Value()
		}

		if _, exists := store.records[kr.Key]; !exists {
			store.keys = append(store.keys, kr.Key)
		}

		store.records[kr.Key] = rec
	}

	return store
}

// Store is the in-memory collection backing one repository instance.
// It preserves the insertion order of its source and is immutable after
// construction; all query operations are pure reads.
type Store struct {
	idField string
	keys    []Key
	records map[Key]Record
}

func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) Has(key Key) bool {
	_, ok := s.records[key]
	return ok
}

// Get returns a copy of the record stored under key. Lookup is by store
// key, not by the record's id attribute.
func (s *Store) Get(key Key) (Record, bool) {
	rec, ok := s.records[key]
	if !ok {
		return nil, false
	}

	return rec.Copy(), true
}

// Keys returns the store keys in insertion order.
func (s *Store) Keys() []Key {
	keys := make([]Key, len(s.keys))
	copy(keys, s.keys)

	return keys
}

// Records returns copies of all records in insertion order.
func (s *Store) Records() []Record {
	records := make([]Record, 0, len(s.keys))
	for _, key := range s.keys {
		records = append(records, s.records[key].Copy())
	}

	return records
}

// Each calls fn for every record in insertion order, without copying.
// The callback MUST NOT retain or mutate the record. Returning false
// stops the iteration.
func (s *Store) Each(fn func(key Key, rec Record) bool) {
	for _, key := range s.keys {
		if !fn(key, s.records[key]) {
			return
		}
	}
}

// IDField returns the name of the identifier field the store enforces.
func (s *Store) IDField() string {
	return s.idField
}
