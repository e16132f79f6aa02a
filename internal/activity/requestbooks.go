package activity

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/internal/crud"
	"github.com/openshelf/openshelf/internal/envelope"
	"github.com/openshelf/openshelf/internal/rest"
	"github.com/openshelf/openshelf/internal/storage"
	"github.com/openshelf/openshelf/internal/validation"
)

type createRequestBookRequest struct {
	Title      string `json:"title" binding:"required,min=1,max=200"`
	WriterName string `json:"writerName" binding:"omitempty,max=200"`
	Note       string `json:"note" binding:"omitempty,max=2000"`
}

type requestBookListQuery struct {
	rest.ListQuery
	Title string `form:"title" binding:"omitempty,max=200"`
}

type RequestBooksService struct {
	store   *crud.Store[RequestBook]
	uploads storage.Uploader
}

func NewRequestBooksService(col *mongo.Collection, uploads storage.Uploader) *RequestBooksService {
	return &RequestBooksService{
		store:   crud.NewStore[RequestBook](col, ""),
		uploads: uploads,
	}
}

// Add files a book request. Titles are deduplicated per requester,
// case-insensitively, so the same book is not requested twice under different
// casing.
func (s *RequestBooksService) Add(ctx context.Context, userID string, req createRequestBookRequest) (*RequestBook, error) {
	title := strings.TrimSpace(req.Title)
	dup := bson.M{
		"title":     primitive.Regex{Pattern: "^" + regexp.QuoteMeta(title) + "$", Options: "i"},
		"createdBy": userID,
	}
	if _, err := s.store.FindOne(ctx, dup); err == nil {
		return nil, crud.ErrConflict
	} else if err != crud.ErrNotFound {
		return nil, err
	}
	rb := &RequestBook{Title: title, WriterName: req.WriterName, Note: req.Note}
	rb.IsActive = true
	return s.store.Create(ctx, rb, "", userID)
}

func (s *RequestBooksService) List(ctx context.Context, q requestBookListQuery) (*crud.Page[RequestBook], error) {
	filter := bson.M{}
	crud.Substring(filter, "title", q.Title)
	return s.store.List(ctx, q.Params(filter))
}

// AttachCover stores an uploaded cover image and records its durable URL on
// the request.
func (s *RequestBooksService) AttachCover(ctx context.Context, id, key, contentType string, r io.Reader, size int64, by string) (*RequestBook, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	url, err := s.uploads.Upload(ctx, key, r, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload cover: %w", err)
	}
	return s.store.Update(ctx, id, bson.M{"coverUrl": url}, by)
}

// RegisterRequestBookRoutes mounts the book-request endpoints. The cover
// upload route is only mounted when object storage is configured.
func RegisterRequestBookRoutes(rg *gin.RouterGroup, svc *RequestBooksService) {
	g := rg.Group("/requestbooks")

	g.POST("", validation.Validate(validation.Body[createRequestBookRequest]()), func(c *gin.Context) {
		req := validation.FromBody[createRequestBookRequest](c)
		rb, err := svc.Add(c.Request.Context(), rest.Caller(c), *req)
		if err != nil {
			rest.WriteErr(c, "request book", err)
			return
		}
		envelope.Created(rb, "request book created successfully").Write(c)
	})

	g.GET("", validation.Validate(validation.Query[requestBookListQuery]()), func(c *gin.Context) {
		q := validation.FromQuery[requestBookListQuery](c)
		page, err := svc.List(c.Request.Context(), *q)
		if err != nil {
			rest.WriteErr(c, "request books", err)
			return
		}
		envelope.Ok(page, "request books fetched successfully").Write(c)
	})

	g.GET(":id", validation.Validate(validation.URI[rest.IDParam]()), func(c *gin.Context) {
		p := validation.FromURI[rest.IDParam](c)
		rb, err := svc.store.Get(c.Request.Context(), p.ID)
		if err != nil {
			rest.WriteErr(c, "request book", err)
			return
		}
		envelope.Ok(rb, "request book fetched successfully").Write(c)
	})

	g.DELETE(":id", validation.Validate(validation.URI[rest.IDParam]()), func(c *gin.Context) {
		p := validation.FromURI[rest.IDParam](c)
		if err := svc.store.Delete(c.Request.Context(), p.ID); err != nil {
			rest.WriteErr(c, "request book", err)
			return
		}
		envelope.Ok(nil, "request book deleted successfully").Write(c)
	})

	if svc.uploads == nil {
		return
	}
	g.POST(":id/cover", validation.Validate(validation.URI[rest.IDParam]()), func(c *gin.Context) {
		p := validation.FromURI[rest.IDParam](c)
		fh, err := c.FormFile("cover")
		if err != nil {
			envelope.BadRequest("cover file is required").Write(c)
			return
		}
		f, err := fh.Open()
		if err != nil {
			rest.WriteErr(c, "request book cover", err)
			return
		}
		defer f.Close()
		key := fmt.Sprintf("requests/%s-%d%s", p.ID, time.Now().UnixNano(), filepath.Ext(fh.Filename))
		rb, err := svc.AttachCover(c.Request.Context(), p.ID, key, fh.Header.Get("Content-Type"), f, fh.Size, rest.Caller(c))
		if err != nil {
			rest.WriteErr(c, "request book cover", err)
			return
		}
		envelope.Ok(rb, "request book cover uploaded successfully").Write(c)
	})
}
