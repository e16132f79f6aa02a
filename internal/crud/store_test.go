package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type subject struct {
	Meta `bson:",inline"`
	Name string `bson:"name" json:"name"`
}

const ns = "library.subjects"

// Callers are identified by their user id hex, the way the token subject
// carries it.
const (
	adminID  = "64f1a2b3c4d5e6f7a8b9c0d1"
	editorID = "64f1a2b3c4d5e6f7a8b9c0d2"
)

func countReply(n int32) primitive.D {
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: n}})
}

func TestStore_Create_StampsAuditFields(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		store := NewStore[subject](mt.Coll, "name")
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch), // duplicate check: none
			mtest.CreateSuccessResponse(),                       // insert
		)

		rec, err := store.Create(context.Background(), &subject{Name: "Fiction"}, "Fiction", adminID)
		require.NoError(mt.T, err)
		require.Equal(mt.T, adminID, rec.CreatedBy)
		require.False(mt.T, rec.CreatedAt.IsZero())
		require.Equal(mt.T, rec.CreatedAt, rec.UpdatedAt)
		require.False(mt.T, rec.ID.IsZero())
	})

	mt.Run("duplicate unique key", func(mt *mtest.T) {
		store := NewStore[subject](mt.Coll, "name")
		mt.AddMockResponses(countReply(1))

		_, err := store.Create(context.Background(), &subject{Name: "Fiction"}, "Fiction", adminID)
		require.ErrorIs(mt.T, err, ErrConflict)
	})
}

func TestStore_List_Pagination(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("clamps the final page", func(mt *mtest.T) {
		store := NewStore[subject](mt.Coll, "name")
		// 3 records total, page 2 with limit 2 leaves exactly one.
		mt.AddMockResponses(
			countReply(3),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "History"}}),
		)

		page, err := store.List(context.Background(), ListParams{Page: 2, Limit: 2})
		require.NoError(mt.T, err)
		require.Len(mt.T, page.Records, 1)
		require.EqualValues(mt.T, 3, page.TotalRecords)
		require.EqualValues(mt.T, 2, page.TotalPages)
		require.EqualValues(mt.T, 2, page.CurrentPage)
	})

	mt.Run("page past the end returns an empty page without a find", func(mt *mtest.T) {
		store := NewStore[subject](mt.Coll, "name")
		mt.AddMockResponses(countReply(3))

		page, err := store.List(context.Background(), ListParams{Page: 5, Limit: 10})
		require.NoError(mt.T, err)
		require.Empty(mt.T, page.Records)
		require.EqualValues(mt.T, 1, page.TotalPages)
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		store := NewStore[subject](mt.Coll, "name")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		page, err := store.List(context.Background(), ListParams{Page: 1, Limit: 10})
		require.NoError(mt.T, err)
		require.Empty(mt.T, page.Records)
		require.EqualValues(mt.T, 0, page.TotalRecords)
		require.EqualValues(mt.T, 0, page.TotalPages)
	})
}

func TestStore_Get(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		store := NewStore[subject](mt.Coll, "name")
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: oid}, {Key: "name", Value: "Poetry"}}))

		rec, err := store.Get(context.Background(), oid.Hex())
		require.NoError(mt.T, err)
		require.Equal(mt.T, "Poetry", rec.Name)
		require.Equal(mt.T, oid, rec.ID)
	})

	mt.Run("missing", func(mt *mtest.T) {
		store := NewStore[subject](mt.Coll, "name")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := store.Get(context.Background(), primitive.NewObjectID().Hex())
		require.ErrorIs(mt.T, err, ErrNotFound)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		store := NewStore[subject](mt.Coll, "name")
		_, err := store.Get(context.Background(), "not-a-hex-id")
		require.ErrorIs(mt.T, err, ErrNotFound)
	})
}

func TestStore_Update(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty set fails before any write", func(mt *mtest.T) {
		store := NewStore[subject](mt.Coll, "name")
		// no mock responses on purpose: the store must not reach the database
		_, err := store.Update(context.Background(), primitive.NewObjectID().Hex(), bson.M{}, adminID)
		require.ErrorIs(mt.T, err, ErrEmptyUpdate)
	})

	mt.Run("returns the post-update document", func(mt *mtest.T) {
		store := NewStore[subject](mt.Coll, "name")
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: oid},
			{Key: "name", Value: "Modern History"},
			{Key: "updatedBy", Value: editorID},
		}}))

		rec, err := store.Update(context.Background(), oid.Hex(), bson.M{"name": "Modern History"}, editorID)
		require.NoError(mt.T, err)
		require.Equal(mt.T, "Modern History", rec.Name)
		require.Equal(mt.T, editorID, rec.UpdatedBy)
	})

	mt.Run("missing", func(mt *mtest.T) {
		store := NewStore[subject](mt.Coll, "name")
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		_, err := store.Update(context.Background(), primitive.NewObjectID().Hex(), bson.M{"name": "x"}, editorID)
		require.ErrorIs(mt.T, err, ErrNotFound)
	})
}

func TestStore_DeleteMany_PartitionsOutcomes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("mixed batch", func(mt *mtest.T) {
		store := NewStore[subject](mt.Coll, "name")
		ids := []string{
			primitive.NewObjectID().Hex(),
			primitive.NewObjectID().Hex(),
			primitive.NewObjectID().Hex(),
		}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}), // deleted
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}), // not found
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 11600, Message: "interrupted", Name: "InterruptedAtShutdown"}),
		)

		res := store.DeleteMany(context.Background(), ids)
		require.Equal(mt.T, 1, res.Deleted)
		require.Equal(mt.T, 1, res.NotFound)
		require.Equal(mt.T, 1, res.Failed)
		require.Equal(mt.T, len(ids), res.Deleted+res.NotFound+res.Failed)
		require.Equal(mt.T, []string{ids[1]}, res.NotFoundIDs)
		require.Equal(mt.T, []string{ids[2]}, res.FailedIDs)
	})
}

func TestSortDoc(t *testing.T) {
	require.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, sortDoc(""))
	require.Equal(t, bson.D{{Key: "title", Value: 1}}, sortDoc("title"))
	require.Equal(t, bson.D{{Key: "price", Value: -1}}, sortDoc("-price"))
}

func TestFilters(t *testing.T) {
	f := bson.M{}
	Substring(f, "name", "  ")
	Eq(f, "tier", "")
	EqBool(f, "isActive", nil)
	EqID(f, "writerId", "")
	require.Empty(t, f)

	active := true
	oid := primitive.NewObjectID()
	Substring(f, "name", "go")
	Eq(f, "tier", "premium")
	EqBool(f, "isActive", &active)
	EqID(f, "writerId", oid.Hex())

	require.Equal(t, primitive.Regex{Pattern: "go", Options: "i"}, f["name"])
	require.Equal(t, "premium", f["tier"])
	require.Equal(t, true, f["isActive"])
	require.Equal(t, oid, f["writerId"])
}
