package crud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultSortField = "createdAt"

// Store is a MongoDB-backed store for one resource type. T must embed Meta.
type Store[T any] struct {
	col    *mongo.Collection
	unique string // bson field checked for duplicates on create; "" disables the check
}

func NewStore[T any](col *mongo.Collection, uniqueField string) *Store[T] {
	return &Store[T]{col: col, unique: uniqueField}
}

// Collection exposes the underlying collection for aggregation pipelines.
func (s *Store[T]) Collection() *mongo.Collection {
	return s.col
}

// Create persists rec after checking the unique key. The duplicate check and
// the insert are two separate operations; the datastore's per-document
// atomicity is the only consistency boundary here.
func (s *Store[T]) Create(ctx context.Context, rec *T, uniqueValue, by string) (*T, error) {
	r, ok := any(rec).(Record)
	if !ok {
		return nil, fmt.Errorf("crud: %T does not embed crud.Meta", rec)
	}
	if s.unique != "" && uniqueValue != "" {
		n, err := s.col.CountDocuments(ctx, bson.M{s.unique: uniqueValue})
		if err != nil {
			return nil, fmt.Errorf("duplicate check: %w", err)
		}
		if n > 0 {
			return nil, ErrConflict
		}
	}
	r.StampCreate(by, time.Now().UTC())
	res, err := s.col.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		r.SetID(id)
	}
	return rec, nil
}

// List returns one page of records plus pagination metadata. When the
// requested page starts past the end, the effective limit is clamped to the
// remaining count (possibly zero) and no cursor is opened for an empty page.
func (s *Store[T]) List(ctx context.Context, p ListParams) (*Page[T], error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	filter := p.Filter
	if filter == nil {
		filter = bson.M{}
	}

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	page := &Page[T]{
		Records:      []T{},
		TotalRecords: total,
		TotalPages:   (total + p.Limit - 1) / p.Limit,
		CurrentPage:  p.Page,
		Limit:        p.Limit,
	}

	skip := (p.Page - 1) * p.Limit
	remaining := total - skip
	if remaining <= 0 {
		return page, nil
	}
	limit := p.Limit
	if limit > remaining {
		limit = remaining
	}

	opts := options.Find().SetSort(sortDoc(p.Sort)).SetSkip(skip).SetLimit(limit)
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &page.Records); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	return page, nil
}

// Get fetches a single record by hex id.
func (s *Store[T]) Get(ctx context.Context, id string) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var rec T
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find one: %w", err)
	}
	return &rec, nil
}

// FindOne fetches a single record by an arbitrary filter. Resources use this
// for lookups the generic pipeline does not cover (email login, compound
// duplicate checks).
func (s *Store[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var rec T
	if err := s.col.FindOne(ctx, filter).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find one: %w", err)
	}
	return &rec, nil
}

// Update applies a non-empty partial update and returns the post-update
// document. The updater stamp and timestamp are added to the set document.
func (s *Store[T]) Update(ctx context.Context, id string, set bson.M, by string) (*T, error) {
	if len(set) == 0 {
		return nil, ErrEmptyUpdate
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	set["updatedBy"] = by
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rec T
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find and update: %w", err)
	}
	return &rec, nil
}

// Delete removes one record by hex id.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany deletes the ids one at a time, sequentially, so a failure on one
// id never aborts the rest of the batch. The result accounts for every id.
func (s *Store[T]) DeleteMany(ctx context.Context, ids []string) *BulkDeleteResult {
	out := &BulkDeleteResult{}
	for _, id := range ids {
		switch err := s.Delete(ctx, id); {
		case err == nil:
			out.Deleted++
		case err == ErrNotFound:
			out.NotFound++
			out.NotFoundIDs = append(out.NotFoundIDs, id)
		default:
			out.Failed++
			out.FailedIDs = append(out.FailedIDs, id)
		}
	}
	return out
}

// sortDoc translates "field" / "-field" into a Mongo sort document.
// An empty sort means newest first.
func sortDoc(sort string) bson.D {
	field := strings.TrimSpace(sort)
	order := 1
	if field == "" {
		field = defaultSortField
		order = -1
	} else if strings.HasPrefix(field, "-") {
		field = strings.TrimPrefix(field, "-")
		order = -1
	}
	if field == "" {
		field = defaultSortField
	}
	return bson.D{{Key: field, Value: order}}
}
