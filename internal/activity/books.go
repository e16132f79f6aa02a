package activity

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/internal/catalog"
)

// BookFinder is the narrow view of the catalog that activity services need:
// existence checks before recording activity, and batch fetches to populate
// references at read time.
type BookFinder interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]catalog.Book, error)
}

type MongoBookFinder struct {
	col *mongo.Collection
}

func NewMongoBookFinder(col *mongo.Collection) *MongoBookFinder {
	return &MongoBookFinder{col: col}
}

func (f *MongoBookFinder) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := f.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("book exists: %w", err)
	}
	return n > 0, nil
}

func (f *MongoBookFinder) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]catalog.Book, error) {
	if len(ids) == 0 {
		return []catalog.Book{}, nil
	}
	cur, err := f.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("books by ids: %w", err)
	}
	defer cur.Close(ctx)
	books := []catalog.Book{}
	if err := cur.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return books, nil
}

// orderBooks arranges fetched books back into reference order, dropping ids
// whose book has since been deleted.
func orderBooks(ids []primitive.ObjectID, books []catalog.Book) []catalog.Book {
	byID := make(map[primitive.ObjectID]catalog.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}
	out := make([]catalog.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			out = append(out, b)
		}
	}
	return out
}
