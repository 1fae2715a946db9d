// Package testdata provides record fixtures for repository tests.
package testdata

import (
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/go-memrepo/memrepo/record"
)

const EntityProduct = "shop.entity.Product"

var Categories = []string{"audio", "books", "games"}

// ProductRecord returns a random product record keyed by a uuid.
func ProductRecord() record.Record {
	return record.Record{
		"id":       uuid.New().String(),
		"name":     gofakeit.ProductName(),
		"category": gofakeit.RandomString(Categories),
		"price":    gofakeit.Price(1, 100),
	}
}

// ProductStore returns a store of n random products, keyed by their id.
func ProductStore(n int) *record.Store {
	records := make([]record.Keyed, 0, n)

	for i := 0; i < n; i++ {
		rec := ProductRecord()
		records = append(records, record.Keyed{
			Key:    record.StringKey(rec["id"].(string)), //nolint:forcetypeassert // fixture ids are strings
			Record: rec,
		})
	}

	return record.NewStore(records)
}

// CatalogueStore returns the fixed three-product store used by ordering
// and filtering scenarios: p1 and p3 share a category, prices 10, 20, 5.
func CatalogueStore() *record.Store {
	return record.NewStore([]record.Keyed{
		{Key: record.StringKey("p1"), Record: record.Record{"id": "p1", "category": "audio", "price": 10}},
		{Key: record.StringKey("p2"), Record: record.Record{"id": "p2", "category": "books", "price": 20}},
		{Key: record.StringKey("p3"), Record: record.Record{"id": "p3", "category": "audio", "price": 5}},
	})
}
