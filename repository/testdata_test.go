package repository_test

import (
	"context"

	"github.com/go-memrepo/memrepo/record"
)

var ctx = context.Background()

// fourRecords is a store of four records in insertion order r1..r4.
func fourRecords() *record.Store {
	return record.NewStore([]record.Keyed{
		{Key: record.StringKey("r1"), Record: record.Record{"id": "r1", "n": 1}},
		{Key: record.StringKey("r2"), Record: record.Record{"id": "r2", "n": 2}},
		{Key: record.StringKey("r3"), Record: record.Record{"id": "r3", "n": 3}},
		{Key: record.StringKey("r4"), Record: record.Record{"id": "r4", "n": 4}},
	})
}

func ids(entities []record.Entity) []any {
	out := make([]any, 0, len(entities))

	for _, e := range entities {
		id, _ := e.Get("id")
		out = append(out, id)
	}

	return out
}
