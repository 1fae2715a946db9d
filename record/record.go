// Package record holds the value types shared by all repositories:
// raw records as loaded from a data source, the ordered store backing an
// in-memory repository, and the entity wrappers handed out to callers.
package record

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var ErrInvalidKey = errors.New("invalid key")

// Record is one item of a data source, mapping field names to values.
// Values are scalars, nested maps, or slices as produced by the decoder
// of the data source.
type Record map[string]any

// Copy returns a deep copy of the record, so that entities created from
// it can be mutated without affecting the store.
func (r Record) Copy() Record {
	if r == nil {
		return nil
	}

	dup := make(Record, len(r))
	for k, v := range r {
		dup[k] = copyValue(v)
	}

	return dup
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		dup := make(map[string]any, len(val))
		for k, e := range val {
			dup[k] = copyValue(e)
		}

		return dup
	case []any:
		dup := make([]any, len(val))
		for i, e := range val {
			dup[i] = copyValue(e)
		}

		return dup
	default:
		return v
	}
}

// Key is the position of a Record in its source: either the string key or
// the integer index it was stored under. It is not necessarily equal to
// the record's own id attribute.
type Key struct {
	value any // string or int64
}

func StringKey(s string) Key {
	return Key{value: s}
}

func IntKey(i int64) Key {
	return Key{value: i}
}

// KeyOf normalises an id passed by a caller into a Key. Only string and
// integer kinds are valid ids; everything else is a contract violation
// of the repository's query surface.
func KeyOf(id any) (Key, error) {
	switch v := id.(type) {
	case string:
		return StringKey(v), nil
	case int:
		return IntKey(int64(v)), nil
	case int8:
		return IntKey(int64(v)), nil
	case int16:
		return IntKey(int64(v)), nil
	case int32:
		return IntKey(int64(v)), nil
	case int64:
		return IntKey(v), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return Key{}, fmt.Errorf("%w: id %d does not fit into an int64", ErrInvalidKey, v)
		}

		return IntKey(int64(v)), nil
	case uint8:
		return IntKey(int64(v)), nil
	case uint16:
		return IntKey(int64(v)), nil
	case uint32:
		return IntKey(int64(v)), nil
	case uint64:
		if v > math.MaxInt64 {
			return Key{}, fmt.Errorf("%w: id %d does not fit into an int64", ErrInvalidKey, v)
		}

		return IntKey(int64(v)), nil
	case Key:
		return v, nil
	default:
		return Key{}, fmt.Errorf("%w: id must be a string or an integer, got %T", ErrInvalidKey, id)
	}
}

func (k Key) IsZero() bool {
	return k.value == nil
}

// Value returns the underlying string or int64 the key was built from.
func (k Key) Value() any {
	return k.value
}

func (k Key) String() string {
	switch v := k.value.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}
