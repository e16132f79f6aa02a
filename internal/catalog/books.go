package catalog

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/internal/crud"
	"github.com/openshelf/openshelf/internal/envelope"
	"github.com/openshelf/openshelf/internal/rest"
	"github.com/openshelf/openshelf/internal/storage"
	"github.com/openshelf/openshelf/internal/validation"
)

type CreateBookRequest struct {
	Title         string   `json:"title" binding:"required,min=1,max=200"`
	WriterID      string   `json:"writerId" binding:"required,objectid"`
	PublicationID string   `json:"publicationId" binding:"omitempty,objectid"`
	TranslatorID  string   `json:"translatorId" binding:"omitempty,objectid"`
	SubjectIDs    []string `json:"subjectIds" binding:"omitempty,dive,objectid"`
	Summary       string   `json:"summary" binding:"omitempty,min=10,max=2000"`
	Price         float64  `json:"price" binding:"omitempty,gte=0"`
	PageCount     int      `json:"pageCount" binding:"omitempty,gte=1"`
	Edition       string   `json:"edition" binding:"omitempty,max=60"`
	IsActive      *bool    `json:"isActive"`
}

type UpdateBookRequest struct {
	Title         *string   `json:"title" binding:"omitempty,min=1,max=200"`
	WriterID      *string   `json:"writerId" binding:"omitempty,objectid"`
	PublicationID *string   `json:"publicationId" binding:"omitempty,objectid"`
	TranslatorID  *string   `json:"translatorId" binding:"omitempty,objectid"`
	SubjectIDs    *[]string `json:"subjectIds" binding:"omitempty,dive,objectid"`
	Summary       *string   `json:"summary" binding:"omitempty,min=10,max=2000"`
	Price         *float64  `json:"price" binding:"omitempty,gte=0"`
	PageCount     *int      `json:"pageCount" binding:"omitempty,gte=1"`
	Edition       *string   `json:"edition" binding:"omitempty,max=60"`
	IsActive      *bool     `json:"isActive"`
}

type ListBooksQuery struct {
	rest.ListQuery
	Title         string `form:"title" binding:"omitempty,max=200"`
	WriterID      string `form:"writerId" binding:"omitempty,objectid"`
	PublicationID string `form:"publicationId" binding:"omitempty,objectid"`
	SubjectID     string `form:"subjectId" binding:"omitempty,objectid"`
	IsActive      *bool  `form:"isActive"`
}

// NewBooksResource wires /books. When an uploader is configured, a cover
// upload route is attached by RegisterBookRoutes.
func NewBooksResource(db *mongo.Database) *rest.Resource[Book] {
	return &rest.Resource[Book]{
		Name:       "books",
		Store:      crud.NewStore[Book](db.Collection("books"), "title"),
		CreateBody: validation.Body[CreateBookRequest](),
		UpdateBody: validation.Body[UpdateBookRequest](),
		ListQuery:  validation.Query[ListBooksQuery](),
		ToModel: func(c *gin.Context) (*Book, string) {
			req := validation.FromBody[CreateBookRequest](c)
			b := &Book{
				Title:      req.Title,
				SubjectIDs: crud.OIDs(req.SubjectIDs),
				Summary:    req.Summary,
				Price:      req.Price,
				PageCount:  req.PageCount,
				Edition:    req.Edition,
			}
			b.WriterID = crud.OID(req.WriterID)
			if req.PublicationID != "" {
				b.PublicationID = crud.OID(req.PublicationID)
			}
			if req.TranslatorID != "" {
				b.TranslatorID = crud.OID(req.TranslatorID)
			}
			b.IsActive = true
			if req.IsActive != nil {
				b.IsActive = *req.IsActive
			}
			return b, b.Title
		},
		ToUpdate: func(c *gin.Context) bson.M {
			req := validation.FromBody[UpdateBookRequest](c)
			set := bson.M{}
			if req.Title != nil {
				set["title"] = *req.Title
			}
			if req.WriterID != nil {
				set["writerId"] = crud.OID(*req.WriterID)
			}
			if req.PublicationID != nil {
				set["publicationId"] = crud.OID(*req.PublicationID)
			}
			if req.TranslatorID != nil {
				set["translatorId"] = crud.OID(*req.TranslatorID)
			}
			if req.SubjectIDs != nil {
				set["subjectIds"] = crud.OIDs(*req.SubjectIDs)
			}
			if req.Summary != nil {
				set["summary"] = *req.Summary
			}
			if req.Price != nil {
				set["price"] = *req.Price
			}
			if req.PageCount != nil {
				set["pageCount"] = *req.PageCount
			}
			if req.Edition != nil {
				set["edition"] = *req.Edition
			}
			if req.IsActive != nil {
				set["isActive"] = *req.IsActive
			}
			return set
		},
		ToFilter: func(c *gin.Context) crud.ListParams {
			q := validation.FromQuery[ListBooksQuery](c)
			f := bson.M{}
			crud.Substring(f, "title", q.Title)
			crud.EqID(f, "writerId", q.WriterID)
			crud.EqID(f, "publicationId", q.PublicationID)
			crud.EqID(f, "subjectIds", q.SubjectID)
			crud.EqBool(f, "isActive", q.IsActive)
			return q.Params(f)
		},
	}
}

// RegisterBookRoutes mounts the standard set plus the cover upload route.
func RegisterBookRoutes(rg *gin.RouterGroup, db *mongo.Database, uploads storage.Uploader) {
	res := NewBooksResource(db)
	g := res.Register(rg)
	if uploads != nil {
		g.POST("/:id/cover", validation.Validate(validation.URI[rest.IDParam]()), coverUploadHandler(res.Store, uploads))
	}
}

// coverUploadHandler streams a multipart "cover" file to object storage and
// stores the returned URL on the book.
func coverUploadHandler(store *crud.Store[Book], uploads storage.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := validation.FromURI[rest.IDParam](c).ID
		if _, err := store.Get(c.Request.Context(), id); err != nil {
			rest.WriteErr(c, "books", err)
			return
		}

		fh, err := c.FormFile("cover")
		if err != nil {
			envelope.BadRequest("cover file is required").Write(c)
			return
		}
		f, err := fh.Open()
		if err != nil {
			rest.WriteErr(c, "books", err)
			return
		}
		defer f.Close()

		key := fmt.Sprintf("covers/%s-%d%s", id, time.Now().UnixNano(), filepath.Ext(fh.Filename))
		url, err := uploads.Upload(c.Request.Context(), key, f, fh.Size, fh.Header.Get("Content-Type"))
		if err != nil {
			rest.WriteErr(c, "books", err)
			return
		}

		rec, err := store.Update(c.Request.Context(), id, bson.M{"coverUrl": url}, rest.Caller(c))
		if err != nil {
			rest.WriteErr(c, "books", err)
			return
		}
		envelope.Ok(rec, "cover uploaded").Write(c)
	}
}
