package activity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/crud"
)

type fakeVisitsRepo struct {
	lists map[string][]primitive.ObjectID
}

func newFakeVisitsRepo() *fakeVisitsRepo {
	return &fakeVisitsRepo{lists: map[string][]primitive.ObjectID{}}
}

func (r *fakeVisitsRepo) Get(_ context.Context, userID string) ([]primitive.ObjectID, error) {
	return r.lists[userID], nil
}

func (r *fakeVisitsRepo) Save(_ context.Context, userID string, ids []primitive.ObjectID) error {
	r.lists[userID] = ids
	return nil
}

type fakeBookFinder struct {
	books map[primitive.ObjectID]catalog.Book
}

func newFakeBookFinder() *fakeBookFinder {
	return &fakeBookFinder{books: map[primitive.ObjectID]catalog.Book{}}
}

func (f *fakeBookFinder) add(title string) primitive.ObjectID {
	id := primitive.NewObjectID()
	b := catalog.Book{Title: title}
	b.ID = id
	f.books[id] = b
	return id
}

func (f *fakeBookFinder) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	_, ok := f.books[id]
	return ok, nil
}

func (f *fakeBookFinder) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]catalog.Book, error) {
	out := []catalog.Book{}
	for _, id := range ids {
		if b, ok := f.books[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func TestVisitsEvictOldestAtCapacity(t *testing.T) {
	ctx := context.Background()
	finder := newFakeBookFinder()
	svc := NewVisitsService(newFakeVisitsRepo(), finder)

	ids := make([]primitive.ObjectID, 0, 11)
	for i := 0; i < 11; i++ {
		id := finder.add("book")
		ids = append(ids, id)
		require.NoError(t, svc.Add(ctx, "reader", id))
	}

	got, err := svc.Get(ctx, "reader")
	require.NoError(t, err)
	require.Len(t, got, visitCapacity)
	// the first insert was evicted; the remaining ten keep insertion order
	for i, b := range got {
		assert.Equal(t, ids[i+1], b.ID)
	}
}

func TestVisitsRejectDuplicate(t *testing.T) {
	ctx := context.Background()
	finder := newFakeBookFinder()
	svc := NewVisitsService(newFakeVisitsRepo(), finder)

	id := finder.add("book")
	require.NoError(t, svc.Add(ctx, "reader", id))
	assert.ErrorIs(t, svc.Add(ctx, "reader", id), crud.ErrConflict)

	got, err := svc.Get(ctx, "reader")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestVisitsUnknownBook(t *testing.T) {
	svc := NewVisitsService(newFakeVisitsRepo(), newFakeBookFinder())
	err := svc.Add(context.Background(), "reader", primitive.NewObjectID())
	assert.ErrorIs(t, err, crud.ErrNotFound)
}

func TestVisitsPopulatedInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	finder := newFakeBookFinder()
	svc := NewVisitsService(newFakeVisitsRepo(), finder)

	first := finder.add("first")
	second := finder.add("second")
	require.NoError(t, svc.Add(ctx, "reader", first))
	require.NoError(t, svc.Add(ctx, "reader", second))

	got, err := svc.Get(ctx, "reader")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "second", got[1].Title)

	// deleted books are dropped from the populated list
	delete(finder.books, first)
	got, err = svc.Get(ctx, "reader")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Title)
}
