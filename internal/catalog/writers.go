package catalog

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/internal/crud"
	"github.com/openshelf/openshelf/internal/rest"
	"github.com/openshelf/openshelf/internal/validation"
)

type CreateWriterRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=120"`
	Biography string `json:"biography" binding:"omitempty,max=3000"`
	IsActive  *bool  `json:"isActive"`
}

type UpdateWriterRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=2,max=120"`
	Biography *string `json:"biography" binding:"omitempty,max=3000"`
	IsActive  *bool   `json:"isActive"`
}

type ListWritersQuery struct {
	rest.ListQuery
	Name     string `form:"name" binding:"omitempty,max=120"`
	IsActive *bool  `form:"isActive"`
}

func NewWritersResource(db *mongo.Database) *rest.Resource[Writer] {
	return &rest.Resource[Writer]{
		Name:       "writers",
		Store:      crud.NewStore[Writer](db.Collection("writers"), "name"),
		CreateBody: validation.Body[CreateWriterRequest](),
		UpdateBody: validation.Body[UpdateWriterRequest](),
		ListQuery:  validation.Query[ListWritersQuery](),
		ToModel: func(c *gin.Context) (*Writer, string) {
			req := validation.FromBody[CreateWriterRequest](c)
			w := &Writer{Name: req.Name, Biography: req.Biography}
			w.IsActive = true
			if req.IsActive != nil {
				w.IsActive = *req.IsActive
			}
			return w, w.Name
		},
		ToUpdate: func(c *gin.Context) bson.M {
			req := validation.FromBody[UpdateWriterRequest](c)
			set := bson.M{}
			if req.Name != nil {
				set["name"] = *req.Name
			}
			if req.Biography != nil {
				set["biography"] = *req.Biography
			}
			if req.IsActive != nil {
				set["isActive"] = *req.IsActive
			}
			return set
		},
		ToFilter: func(c *gin.Context) crud.ListParams {
			q := validation.FromQuery[ListWritersQuery](c)
			f := bson.M{}
			crud.Substring(f, "name", q.Name)
			crud.EqBool(f, "isActive", q.IsActive)
			return q.Params(f)
		},
	}
}
