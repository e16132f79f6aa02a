package activity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func rankedRow(bookID primitive.ObjectID, title string, count int64) bson.D {
	return bson.D{
		{Key: "_id", Value: bookID},
		{Key: "count", Value: count},
		{Key: "book", Value: bson.D{
			{Key: "_id", Value: bookID},
			{Key: "title", Value: title},
		}},
	}
}

func TestRankings(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "openshelf.lendings"

	mt.Run("trending decodes ranked rows in order", func(mt *mtest.T) {
		svc := NewRankingsService(mt.DB)
		first := primitive.NewObjectID()
		second := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			rankedRow(first, "most lent", 7),
			rankedRow(second, "runner up", 3),
		))

		ranked, err := svc.Trending(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, ranked, 2)
		assert.Equal(t, first, ranked[0].BookID)
		assert.Equal(t, int64(7), ranked[0].Count)
		assert.Equal(t, "most lent", ranked[0].Book.Title)
		assert.Equal(t, first, ranked[0].Book.ID)
		assert.Equal(t, second, ranked[1].BookID)
		assert.Equal(t, int64(3), ranked[1].Count)
	})

	mt.Run("desired tolerates an empty collection", func(mt *mtest.T) {
		svc := NewRankingsService(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "openshelf.favourites", mtest.FirstBatch))

		ranked, err := svc.Desired(context.Background(), 10)
		require.NoError(t, err)
		assert.Empty(t, ranked)
	})
}
