package activity

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/crud"
	"github.com/openshelf/openshelf/internal/envelope"
	"github.com/openshelf/openshelf/internal/rest"
	"github.com/openshelf/openshelf/internal/validation"
)

type addFavouriteRequest struct {
	BookID string `json:"bookId" binding:"required,objectid"`
}

// favouriteView is a favourite populated with the full book at read time.
type favouriteView struct {
	ID        primitive.ObjectID `json:"id"`
	Book      catalog.Book       `json:"book"`
	CreatedAt time.Time          `json:"createdAt"`
}

type FavouritesService struct {
	store *crud.Store[Favourite]
	books BookFinder
}

func NewFavouritesService(col *mongo.Collection, books BookFinder) *FavouritesService {
	return &FavouritesService{
		store: crud.NewStore[Favourite](col, ""),
		books: books,
	}
}

func (s *FavouritesService) Add(ctx context.Context, userID, bookID string) (*Favourite, error) {
	oid := crud.OID(bookID)
	ok, err := s.books.Exists(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, crud.ErrNotFound
	}
	// one favourite per (user, book)
	if _, err := s.store.FindOne(ctx, bson.M{"userId": userID, "bookId": oid}); err == nil {
		return nil, crud.ErrConflict
	} else if err != crud.ErrNotFound {
		return nil, err
	}
	fav := &Favourite{UserID: userID, BookID: oid}
	fav.IsActive = true
	return s.store.Create(ctx, fav, "", userID)
}

func (s *FavouritesService) List(ctx context.Context, userID string, params crud.ListParams) (*crud.Page[favouriteView], error) {
	params.Filter = bson.M{"userId": userID}
	page, err := s.store.List(ctx, params)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(page.Records))
	for _, f := range page.Records {
		ids = append(ids, f.BookID)
	}
	books, err := s.books.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]catalog.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}
	views := make([]favouriteView, 0, len(page.Records))
	for _, f := range page.Records {
		views = append(views, favouriteView{ID: f.ID, Book: byID[f.BookID], CreatedAt: f.CreatedAt})
	}
	return &crud.Page[favouriteView]{
		Records:      views,
		TotalRecords: page.TotalRecords,
		TotalPages:   page.TotalPages,
		CurrentPage:  page.CurrentPage,
		Limit:        page.Limit,
	}, nil
}

// Remove deletes a favourite, but only the owner's own.
func (s *FavouritesService) Remove(ctx context.Context, userID, id string) error {
	fav, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if fav.UserID != userID {
		return crud.ErrNotFound
	}
	return s.store.Delete(ctx, id)
}

// RegisterFavouriteRoutes mounts the favourites endpoints.
func RegisterFavouriteRoutes(rg *gin.RouterGroup, svc *FavouritesService) {
	g := rg.Group("/favourites")

	g.POST("", validation.Validate(validation.Body[addFavouriteRequest]()), func(c *gin.Context) {
		req := validation.FromBody[addFavouriteRequest](c)
		fav, err := svc.Add(c.Request.Context(), rest.Caller(c), req.BookID)
		if err != nil {
			rest.WriteErr(c, "favourite", err)
			return
		}
		envelope.Created(fav, "favourite created successfully").Write(c)
	})

	g.GET("", validation.Validate(validation.Query[rest.ListQuery]()), func(c *gin.Context) {
		q := validation.FromQuery[rest.ListQuery](c)
		page, err := svc.List(c.Request.Context(), rest.Caller(c), q.Params(bson.M{}))
		if err != nil {
			rest.WriteErr(c, "favourites", err)
			return
		}
		envelope.Ok(page, "favourites fetched successfully").Write(c)
	})

	g.DELETE(":id", validation.Validate(validation.URI[rest.IDParam]()), func(c *gin.Context) {
		p := validation.FromURI[rest.IDParam](c)
		if err := svc.Remove(c.Request.Context(), rest.Caller(c), p.ID); err != nil {
			rest.WriteErr(c, "favourite", err)
			return
		}
		envelope.Ok(nil, "favourite deleted successfully").Write(c)
	})
}
