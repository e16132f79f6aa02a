package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/crud"
	"github.com/openshelf/openshelf/internal/envelope"
	"github.com/openshelf/openshelf/internal/rest"
	"github.com/openshelf/openshelf/internal/validation"
)

// visitCapacity bounds the per-user recently-visited list. Inserting into a
// full list evicts the oldest entry; duplicates are rejected, not promoted.
const visitCapacity = 10

// VisitsRepository persists one ordered id list per user.
type VisitsRepository interface {
	Get(ctx context.Context, userID string) ([]primitive.ObjectID, error)
	Save(ctx context.Context, userID string, bookIDs []primitive.ObjectID) error
}

type MongoVisitsRepository struct {
	col *mongo.Collection
}

func NewMongoVisitsRepository(col *mongo.Collection) *MongoVisitsRepository {
	return &MongoVisitsRepository{col: col}
}

func (r *MongoVisitsRepository) Get(ctx context.Context, userID string) ([]primitive.ObjectID, error) {
	var doc visitList
	err := r.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("visits get: %w", err)
	}
	return doc.BookIDs, nil
}

func (r *MongoVisitsRepository) Save(ctx context.Context, userID string, bookIDs []primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"bookIds": bookIDs, "updatedAt": time.Now().UTC()}}
	_, err := r.col.UpdateOne(ctx, bson.M{"userId": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("visits save: %w", err)
	}
	return nil
}

// VisitsService holds the eviction rule; storage and book population stay
// behind interfaces.
type VisitsService struct {
	repo  VisitsRepository
	books BookFinder
}

func NewVisitsService(repo VisitsRepository, books BookFinder) *VisitsService {
	return &VisitsService{repo: repo, books: books}
}

// Add records a visit. A book already on the list is a conflict; a full list
// drops its oldest entry before the new one is appended.
func (s *VisitsService) Add(ctx context.Context, userID string, bookID primitive.ObjectID) error {
	ok, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return err
	}
	if !ok {
		return crud.ErrNotFound
	}
	list, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	for _, id := range list {
		if id == bookID {
			return crud.ErrConflict
		}
	}
	if len(list) >= visitCapacity {
		list = list[len(list)-visitCapacity+1:]
	}
	list = append(list, bookID)
	return s.repo.Save(ctx, userID, list)
}

// Get returns the visited books oldest first, populated with full details.
func (s *VisitsService) Get(ctx context.Context, userID string) ([]catalog.Book, error) {
	ids, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	books, err := s.books.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return orderBooks(ids, books), nil
}

type addVisitRequest struct {
	BookID string `json:"bookId" binding:"required,objectid"`
}

// RegisterVisitRoutes mounts the recently-visited endpoints.
func RegisterVisitRoutes(rg *gin.RouterGroup, svc *VisitsService) {
	g := rg.Group("/recentvisits")

	g.POST("", validation.Validate(validation.Body[addVisitRequest]()), func(c *gin.Context) {
		req := validation.FromBody[addVisitRequest](c)
		err := svc.Add(c.Request.Context(), rest.Caller(c), crud.OID(req.BookID))
		if err != nil {
			rest.WriteErr(c, "recently visited book", err)
			return
		}
		envelope.Created(nil, "book recorded as recently visited").Write(c)
	})

	g.GET("", func(c *gin.Context) {
		books, err := svc.Get(c.Request.Context(), rest.Caller(c))
		if err != nil {
			rest.WriteErr(c, "recently visited books", err)
			return
		}
		envelope.Ok(books, "recently visited books fetched").Write(c)
	})
}
