package activity

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/envelope"
	"github.com/openshelf/openshelf/internal/rest"
	"github.com/openshelf/openshelf/internal/validation"
)

// rankedBook is one row of a ranking: the book plus how many activity records
// put it there.
type rankedBook struct {
	BookID primitive.ObjectID `bson:"_id" json:"bookId"`
	Count  int64              `bson:"count" json:"count"`
	Book   catalog.Book       `bson:"book" json:"book"`
}

type rankingQuery struct {
	Limit int64 `form:"limit,default=10" binding:"min=1,max=50"`
}

// RankingsService derives the trending and most-desired book lists from
// lendings and favourites.
type RankingsService struct {
	lendings   *mongo.Collection
	favourites *mongo.Collection
	books      string
}

func NewRankingsService(db *mongo.Database) *RankingsService {
	return &RankingsService{
		lendings:   db.Collection("lendings"),
		favourites: db.Collection("favourites"),
		books:      "books",
	}
}

// Trending ranks books by how often they have been lent.
func (s *RankingsService) Trending(ctx context.Context, limit int64) ([]rankedBook, error) {
	return s.rank(ctx, s.lendings, limit)
}

// Desired ranks books by how often they have been favourited.
func (s *RankingsService) Desired(ctx context.Context, limit int64) ([]rankedBook, error) {
	return s.rank(ctx, s.favourites, limit)
}

func (s *RankingsService) rank(ctx context.Context, col *mongo.Collection, limit int64) ([]rankedBook, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$bookId"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: s.books},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "book"},
		}}},
		{{Key: "$unwind", Value: "$book"}},
	}
	cur, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("rank %s: %w", col.Name(), err)
	}
	defer cur.Close(ctx)
	ranked := []rankedBook{}
	if err := cur.All(ctx, &ranked); err != nil {
		return nil, fmt.Errorf("decode ranking: %w", err)
	}
	return ranked, nil
}

// RegisterRankingRoutes mounts the derived ranking endpoints.
func RegisterRankingRoutes(rg *gin.RouterGroup, svc *RankingsService) {
	g := rg.Group("/rankings")

	g.GET("/trending", validation.Validate(validation.Query[rankingQuery]()), func(c *gin.Context) {
		q := validation.FromQuery[rankingQuery](c)
		ranked, err := svc.Trending(c.Request.Context(), q.Limit)
		if err != nil {
			rest.WriteErr(c, "trending books", err)
			return
		}
		envelope.Ok(ranked, "trending books fetched successfully").Write(c)
	})

	g.GET("/desired", validation.Validate(validation.Query[rankingQuery]()), func(c *gin.Context) {
		q := validation.FromQuery[rankingQuery](c)
		ranked, err := svc.Desired(c.Request.Context(), q.Limit)
		if err != nil {
			rest.WriteErr(c, "desired books", err)
			return
		}
		envelope.Ok(ranked, "desired books fetched successfully").Write(c)
	})
}
