// Package store provides the document-store abstraction the quiz lifecycle
// persists through: named collections of loosely-typed records with generated
// ids and server-assigned timestamps. The backend is swappable; callers never
// see storage technology detail.
package store

import "github.com/Ravishyamsingh/Quiz-System/internal/model"

// DocumentStore is the persistence seam for the lifecycle service.
//
// There are no transactions across collections: a caller inserting a quiz and
// then its questions must tolerate partial failure between the writes.
type DocumentStore interface {
	// AddRecord stores fields under a freshly generated globally-unique id
	// and returns that id. It never overwrites an existing record.
	AddRecord(collection string, fields map[string]interface{}) (string, error)

	// GetRecord is a point lookup. A missing record returns (nil, nil);
	// absence is a normal outcome, not an error.
	GetRecord(collection, id string) (*model.Record, error)

	// PutRecord upserts: when id exists, fields are merged into the stored
	// record and the update timestamp is stamped; otherwise a new record is
	// inserted under the given id. Callers rely on the merge semantics for
	// partial updates.
	PutRecord(collection, id string, fields map[string]interface{}) error

	// QueryByEquality returns every record whose named field equals value.
	// Order is unspecified; callers sort.
	QueryByEquality(collection, field string, value interface{}) ([]model.Record, error)

	// ListAll returns every record in the collection.
	ListAll(collection string) ([]model.Record, error)

	// DeleteRecord removes a record. Deleting a missing record is a no-op.
	DeleteRecord(collection, id string) error
}
