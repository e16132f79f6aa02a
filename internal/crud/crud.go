// Package crud implements the shared persistence pipeline behind every
// resource: unique-key create, filtered/paginated list, get by id, partial
// update, and single/bulk delete against a MongoDB collection. Resources
// differ only in their document type, unique field and filter set.
package crud

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound marks a lookup against an id that has no document.
	ErrNotFound = errors.New("record not found")
	// ErrConflict marks a uniqueness or duplicate-state violation.
	ErrConflict = errors.New("record already exists")
	// ErrEmptyUpdate marks an update request carrying no fields.
	ErrEmptyUpdate = errors.New("update requires at least one field")
)

// Meta is embedded by every resource document: primary key, active flag and
// audit fields. Stamping happens inside the store, not in handlers.
type Meta struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedBy string             `bson:"createdBy" json:"createdBy"`
	UpdatedBy string             `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Record is satisfied by any document embedding Meta.
type Record interface {
	StampCreate(by string, at time.Time)
	SetID(id primitive.ObjectID)
}

func (m *Meta) StampCreate(by string, at time.Time) {
	m.CreatedBy = by
	m.CreatedAt = at
	m.UpdatedAt = at
}

func (m *Meta) SetID(id primitive.ObjectID) {
	m.ID = id
}

// BulkDeleteResult partitions a delete-by-id-list into its three outcomes.
// Every requested id lands in exactly one bucket.
type BulkDeleteResult struct {
	Deleted     int      `json:"deleted"`
	NotFound    int      `json:"notFound"`
	Failed      int      `json:"failed"`
	NotFoundIDs []string `json:"notFoundIds,omitempty"`
	FailedIDs   []string `json:"failedIds,omitempty"`
}

// Page carries one page of records together with pagination metadata.
type Page[T any] struct {
	Records      []T   `json:"records"`
	TotalRecords int64 `json:"totalRecords"`
	TotalPages   int64 `json:"totalPages"`
	CurrentPage  int64 `json:"currentPage"`
	Limit        int64 `json:"limit"`
}

// ListParams describe a list query after validation: 1-based page, page size,
// sort field ("-" prefix for descending, default newest-first) and a Mongo
// filter document assembled by the resource.
type ListParams struct {
	Page   int64
	Limit  int64
	Sort   string
	Filter bson.M
}
