package activity

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/internal/crud"
	"github.com/openshelf/openshelf/internal/envelope"
	"github.com/openshelf/openshelf/internal/rest"
	"github.com/openshelf/openshelf/internal/validation"
)

// defaultLendingDays applies when a borrow request carries no due date.
const defaultLendingDays = 14

type borrowRequest struct {
	BookID  string     `json:"bookId" binding:"required,objectid"`
	UserID  string     `json:"userId" binding:"omitempty"`
	DueDate *time.Time `json:"dueDate" binding:"omitempty"`
}

type lendingListQuery struct {
	rest.ListQuery
	UserID  string `form:"userId" binding:"omitempty"`
	BookID  string `form:"bookId" binding:"omitempty,objectid"`
	Overdue *bool  `form:"overdue" binding:"omitempty"`
}

type LendingsService struct {
	store *crud.Store[Lending]
	books BookFinder
}

func NewLendingsService(col *mongo.Collection, books BookFinder) *LendingsService {
	return &LendingsService{
		store: crud.NewStore[Lending](col, ""),
		books: books,
	}
}

// Borrow opens a lending. A reader with an open lending of a book cannot
// borrow it again until it is returned.
func (s *LendingsService) Borrow(ctx context.Context, req borrowRequest, by string) (*Lending, error) {
	oid := crud.OID(req.BookID)
	ok, err := s.books.Exists(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, crud.ErrNotFound
	}
	userID := req.UserID
	if userID == "" {
		userID = by
	}
	open := bson.M{"bookId": oid, "userId": userID, "returnedAt": nil}
	if _, err := s.store.FindOne(ctx, open); err == nil {
		return nil, crud.ErrConflict
	} else if err != crud.ErrNotFound {
		return nil, err
	}
	due := time.Now().UTC().AddDate(0, 0, defaultLendingDays)
	if req.DueDate != nil {
		due = req.DueDate.UTC()
	}
	lending := &Lending{BookID: oid, UserID: userID, DueDate: due}
	lending.IsActive = true
	return s.store.Create(ctx, lending, "", by)
}

// Return closes a lending by stamping the return time; returning an already
// returned lending is a conflict.
func (s *LendingsService) Return(ctx context.Context, id, by string) (*Lending, error) {
	lending, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if lending.ReturnedAt != nil {
		return nil, crud.ErrConflict
	}
	now := time.Now().UTC()
	return s.store.Update(ctx, id, bson.M{"returnedAt": now}, by)
}

func (s *LendingsService) List(ctx context.Context, q lendingListQuery) (*crud.Page[Lending], error) {
	filter := bson.M{}
	crud.Eq(filter, "userId", q.UserID)
	crud.EqID(filter, "bookId", q.BookID)
	if q.Overdue != nil && *q.Overdue {
		filter["returnedAt"] = nil
		filter["dueDate"] = bson.M{"$lt": time.Now().UTC()}
	}
	return s.store.List(ctx, q.Params(filter))
}

// RegisterLendingRoutes mounts the lending endpoints.
func RegisterLendingRoutes(rg *gin.RouterGroup, svc *LendingsService) {
	g := rg.Group("/lendings")

	g.POST("", validation.Validate(validation.Body[borrowRequest]()), func(c *gin.Context) {
		req := validation.FromBody[borrowRequest](c)
		lending, err := svc.Borrow(c.Request.Context(), *req, rest.Caller(c))
		if err != nil {
			rest.WriteErr(c, "lending", err)
			return
		}
		envelope.Created(lending, "lending created successfully").Write(c)
	})

	g.GET("", validation.Validate(validation.Query[lendingListQuery]()), func(c *gin.Context) {
		q := validation.FromQuery[lendingListQuery](c)
		page, err := svc.List(c.Request.Context(), *q)
		if err != nil {
			rest.WriteErr(c, "lendings", err)
			return
		}
		envelope.Ok(page, "lendings fetched successfully").Write(c)
	})

	g.GET(":id", validation.Validate(validation.URI[rest.IDParam]()), func(c *gin.Context) {
		p := validation.FromURI[rest.IDParam](c)
		lending, err := svc.store.Get(c.Request.Context(), p.ID)
		if err != nil {
			rest.WriteErr(c, "lending", err)
			return
		}
		envelope.Ok(lending, "lending fetched successfully").Write(c)
	})

	g.PUT(":id/return", validation.Validate(validation.URI[rest.IDParam]()), func(c *gin.Context) {
		p := validation.FromURI[rest.IDParam](c)
		lending, err := svc.Return(c.Request.Context(), p.ID, rest.Caller(c))
		if err != nil {
			rest.WriteErr(c, "lending", err)
			return
		}
		envelope.Ok(lending, "lending returned successfully").Write(c)
	})

	g.DELETE(":id", validation.Validate(validation.URI[rest.IDParam]()), func(c *gin.Context) {
		p := validation.FromURI[rest.IDParam](c)
		if err := svc.store.Delete(c.Request.Context(), p.ID); err != nil {
			rest.WriteErr(c, "lending", err)
			return
		}
		envelope.Ok(nil, "lending deleted successfully").Write(c)
	})
}
