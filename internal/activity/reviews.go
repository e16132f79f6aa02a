package activity

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/internal/crud"
	"github.com/openshelf/openshelf/internal/envelope"
	"github.com/openshelf/openshelf/internal/rest"
	"github.com/openshelf/openshelf/internal/validation"
)

type createReviewRequest struct {
	BookID  string   `json:"bookId" binding:"required,objectid"`
	Rating  *float64 `json:"rating" binding:"required,gte=0,lte=5"`
	Comment string   `json:"comment" binding:"omitempty,max=2000"`
}

type updateReviewRequest struct {
	Rating  *float64 `json:"rating" binding:"omitempty,gte=0,lte=5"`
	Comment *string  `json:"comment" binding:"omitempty,max=2000"`
}

type reviewListQuery struct {
	rest.ListQuery
	BookID string `form:"bookId" binding:"omitempty,objectid"`
	UserID string `form:"userId" binding:"omitempty"`
}

type ReviewsService struct {
	store *crud.Store[Review]
	books BookFinder
}

func NewReviewsService(col *mongo.Collection, books BookFinder) *ReviewsService {
	return &ReviewsService{
		store: crud.NewStore[Review](col, ""),
		books: books,
	}
}

// Add creates a review. A reader gets one review per book; a second attempt
// is a conflict rather than an overwrite.
func (s *ReviewsService) Add(ctx context.Context, userID string, req createReviewRequest) (*Review, error) {
	oid := crud.OID(req.BookID)
	ok, err := s.books.Exists(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, crud.ErrNotFound
	}
	if _, err := s.store.FindOne(ctx, bson.M{"userId": userID, "bookId": oid}); err == nil {
		return nil, crud.ErrConflict
	} else if err != crud.ErrNotFound {
		return nil, err
	}
	review := &Review{BookID: oid, UserID: userID, Rating: *req.Rating, Comment: req.Comment}
	review.IsActive = true
	return s.store.Create(ctx, review, "", userID)
}

// Edit updates a reader's own review; someone else's review reads as absent.
func (s *ReviewsService) Edit(ctx context.Context, userID, id string, req updateReviewRequest) (*Review, error) {
	review, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, crud.ErrNotFound
	}
	set := bson.M{}
	if req.Rating != nil {
		set["rating"] = *req.Rating
	}
	if req.Comment != nil {
		set["comment"] = *req.Comment
	}
	return s.store.Update(ctx, id, set, userID)
}

func (s *ReviewsService) Remove(ctx context.Context, userID, id string) error {
	review, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return crud.ErrNotFound
	}
	return s.store.Delete(ctx, id)
}

func (s *ReviewsService) List(ctx context.Context, q reviewListQuery) (*crud.Page[Review], error) {
	filter := bson.M{}
	crud.EqID(filter, "bookId", q.BookID)
	crud.Eq(filter, "userId", q.UserID)
	return s.store.List(ctx, q.Params(filter))
}

// RegisterReviewRoutes mounts the review endpoints.
func RegisterReviewRoutes(rg *gin.RouterGroup, svc *ReviewsService) {
	g := rg.Group("/reviews")

	g.POST("", validation.Validate(validation.Body[createReviewRequest]()), func(c *gin.Context) {
		req := validation.FromBody[createReviewRequest](c)
		review, err := svc.Add(c.Request.Context(), rest.Caller(c), *req)
		if err != nil {
			rest.WriteErr(c, "review", err)
			return
		}
		envelope.Created(review, "review created successfully").Write(c)
	})

	g.GET("", validation.Validate(validation.Query[reviewListQuery]()), func(c *gin.Context) {
		q := validation.FromQuery[reviewListQuery](c)
		page, err := svc.List(c.Request.Context(), *q)
		if err != nil {
			rest.WriteErr(c, "reviews", err)
			return
		}
		envelope.Ok(page, "reviews fetched successfully").Write(c)
	})

	g.GET(":id", validation.Validate(validation.URI[rest.IDParam]()), func(c *gin.Context) {
		p := validation.FromURI[rest.IDParam](c)
		review, err := svc.store.Get(c.Request.Context(), p.ID)
		if err != nil {
			rest.WriteErr(c, "review", err)
			return
		}
		envelope.Ok(review, "review fetched successfully").Write(c)
	})

	g.PUT(":id", validation.Validate(validation.URI[rest.IDParam](), validation.Body[updateReviewRequest]()), func(c *gin.Context) {
		p := validation.FromURI[rest.IDParam](c)
		req := validation.FromBody[updateReviewRequest](c)
		review, err := svc.Edit(c.Request.Context(), rest.Caller(c), p.ID, *req)
		if err != nil {
			rest.WriteErr(c, "review", err)
			return
		}
		envelope.Ok(review, "review updated successfully").Write(c)
	})

	g.DELETE(":id", validation.Validate(validation.URI[rest.IDParam]()), func(c *gin.Context) {
		p := validation.FromURI[rest.IDParam](c)
		if err := svc.Remove(c.Request.Context(), rest.Caller(c), p.ID); err != nil {
			rest.WriteErr(c, "review", err)
			return
		}
		envelope.Ok(nil, "review deleted successfully").Write(c)
	})
}
