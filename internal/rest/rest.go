// Package rest adapts resource stores to the HTTP surface. A Resource wires
// the standard REST route set (create, list, get, update, delete, bulk
// delete) for one store; the handlers only extract validated inputs, call the
// store and translate the outcome into the response envelope.
package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openshelf/openshelf/internal/crud"
	"github.com/openshelf/openshelf/internal/envelope"
	"github.com/openshelf/openshelf/internal/validation"
	"github.com/openshelf/openshelf/pkg/logger"
)

// IDParam is the shared path-parameter schema for /:id routes.
type IDParam struct {
	ID string `uri:"id" binding:"required,objectid"`
}

// ListQuery is embedded by every resource's list-query schema.
type ListQuery struct {
	Page  int64  `form:"page,default=1" binding:"min=1"`
	Limit int64  `form:"limit,default=10" binding:"min=1,max=100"`
	Sort  string `form:"sort" binding:"omitempty,max=60"`
}

// BulkDeleteQuery carries the comma-separated id list of DELETE /<resource>.
type BulkDeleteQuery struct {
	IDs string `form:"ids" binding:"required"`
}

// Params folds the shared paging fields and a resource filter into ListParams.
func (q ListQuery) Params(filter bson.M) crud.ListParams {
	return crud.ListParams{Page: q.Page, Limit: q.Limit, Sort: q.Sort, Filter: filter}
}

// Caller returns the authenticated caller identity from the auth middleware
// claims, or "system" on unauthenticated deployments.
func Caller(c *gin.Context) string {
	if v, ok := c.Get("claims"); ok {
		if cm, ok := v.(map[string]interface{}); ok {
			if sub, ok := cm["sub"].(string); ok && sub != "" {
				return sub
			}
		}
	}
	return "system"
}

// WriteErr maps the expected domain errors to their envelope class; anything
// else is logged with full detail and surfaced as a generic 500.
func WriteErr(c *gin.Context, resource string, err error) {
	switch {
	case errors.Is(err, crud.ErrNotFound):
		envelope.NotFound(resource + " not found").Write(c)
	case errors.Is(err, crud.ErrConflict):
		envelope.Conflict(resource + " already exists").Write(c)
	case errors.Is(err, crud.ErrEmptyUpdate):
		envelope.BadRequest("update requires at least one field").Write(c)
	default:
		logger.Errorf("%s %s: %s: %v", c.Request.Method, c.FullPath(), resource, err)
		envelope.Internal().Write(c)
	}
}

// SplitIDs parses the bulk-delete id list, rejecting malformed entries before
// any deletion runs.
func SplitIDs(raw string) ([]string, bool) {
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, err := primitive.ObjectIDFromHex(p); err != nil {
			return nil, false
		}
		ids = append(ids, p)
	}
	return ids, len(ids) > 0
}

// Resource wires the standard route set for one store. The three binder
// functions translate validated DTOs into store inputs; CreateHandler, when
// set, replaces the stock create route for resources with extra create rules.
type Resource[T any] struct {
	Name  string
	Store *crud.Store[T]

	CreateBody validation.Pair
	UpdateBody validation.Pair
	ListQuery  validation.Pair

	ToModel  func(c *gin.Context) (rec *T, uniqueValue string)
	ToUpdate func(c *gin.Context) bson.M
	ToFilter func(c *gin.Context) crud.ListParams

	CreateHandler gin.HandlerFunc
}

// Register mounts the routes under rg and returns the resource group so
// callers can attach extra routes (cover uploads, returns, …).
func (r *Resource[T]) Register(rg *gin.RouterGroup) *gin.RouterGroup {
	g := rg.Group("/" + r.Name)

	create := r.CreateHandler
	if create == nil {
		create = r.create
	}
	g.POST("", validation.Validate(r.CreateBody), create)
	g.GET("", validation.Validate(r.ListQuery), r.list)
	g.GET("/:id", validation.Validate(validation.URI[IDParam]()), r.get)
	g.PUT("/:id", validation.Validate(validation.URI[IDParam](), r.UpdateBody), r.update)
	g.DELETE("/:id", validation.Validate(validation.URI[IDParam]()), r.delete)
	g.DELETE("", validation.Validate(validation.Query[BulkDeleteQuery]()), r.bulkDelete)
	return g
}

func (r *Resource[T]) create(c *gin.Context) {
	rec, unique := r.ToModel(c)
	out, err := r.Store.Create(c.Request.Context(), rec, unique, Caller(c))
	if err != nil {
		WriteErr(c, r.Name, err)
		return
	}
	envelope.Created(out, r.Name+" created").Write(c)
}

func (r *Resource[T]) list(c *gin.Context) {
	page, err := r.Store.List(c.Request.Context(), r.ToFilter(c))
	if err != nil {
		WriteErr(c, r.Name, err)
		return
	}
	envelope.Ok(page, r.Name+" fetched").Write(c)
}

func (r *Resource[T]) get(c *gin.Context) {
	id := validation.FromURI[IDParam](c).ID
	rec, err := r.Store.Get(c.Request.Context(), id)
	if err != nil {
		WriteErr(c, r.Name, err)
		return
	}
	envelope.Ok(rec, r.Name+" fetched").Write(c)
}

func (r *Resource[T]) update(c *gin.Context) {
	id := validation.FromURI[IDParam](c).ID
	rec, err := r.Store.Update(c.Request.Context(), id, r.ToUpdate(c), Caller(c))
	if err != nil {
		WriteErr(c, r.Name, err)
		return
	}
	envelope.Ok(rec, r.Name+" updated").Write(c)
}

func (r *Resource[T]) delete(c *gin.Context) {
	id := validation.FromURI[IDParam](c).ID
	if err := r.Store.Delete(c.Request.Context(), id); err != nil {
		WriteErr(c, r.Name, err)
		return
	}
	envelope.Ok(nil, r.Name+" deleted").Write(c)
}

func (r *Resource[T]) bulkDelete(c *gin.Context) {
	ids, ok := SplitIDs(validation.FromQuery[BulkDeleteQuery](c).IDs)
	if !ok {
		envelope.BadRequest("ids must be a comma-separated list of object ids").Write(c)
		return
	}
	res := r.Store.DeleteMany(c.Request.Context(), ids)
	if res.Failed > 0 {
		envelope.New(http.StatusInternalServerError, res, "some deletions failed").Write(c)
		return
	}
	envelope.Ok(res, r.Name+" deletion summary").Write(c)
}
