package activity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/openshelf/openshelf/internal/crud"
)

func TestRequestBooksAdd(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "openshelf.requestbooks"

	mt.Run("files a request with a trimmed title", func(mt *mtest.T) {
		svc := NewRequestBooksService(mt.Coll, nil)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		rb, err := svc.Add(context.Background(), "reader", createRequestBookRequest{
			Title:      "  The Silent Shore  ",
			WriterName: "A. Karimi",
		})
		require.NoError(t, err)
		assert.Equal(t, "The Silent Shore", rb.Title)
		assert.Equal(t, "A. Karimi", rb.WriterName)
		assert.Equal(t, "reader", rb.CreatedBy)
	})

	mt.Run("rejects the same title in different casing", func(mt *mtest.T) {
		svc := NewRequestBooksService(mt.Coll, nil)

		existing := bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "title", Value: "The Silent Shore"},
			{Key: "createdBy", Value: "reader"},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, existing))

		_, err := svc.Add(context.Background(), "reader", createRequestBookRequest{Title: "the silent shore"})
		assert.ErrorIs(t, err, crud.ErrConflict)

		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		require.Equal(t, "find", started.CommandName)
		filter := started.Command.Lookup("filter").Document()
		pattern, options := filter.Lookup("title").Regex()
		assert.Equal(t, "^the silent shore$", pattern)
		assert.Equal(t, "i", options)
		assert.Equal(t, "reader", filter.Lookup("createdBy").StringValue())
	})

	mt.Run("allows the same title from a different requester", func(mt *mtest.T) {
		svc := NewRequestBooksService(mt.Coll, nil)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		rb, err := svc.Add(context.Background(), "another-reader", createRequestBookRequest{Title: "The Silent Shore"})
		require.NoError(t, err)
		assert.Equal(t, "another-reader", rb.CreatedBy)

		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		filter := started.Command.Lookup("filter").Document()
		assert.Equal(t, "another-reader", filter.Lookup("createdBy").StringValue())
	})
}
