package catalog

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/internal/crud"
	"github.com/openshelf/openshelf/internal/rest"
	"github.com/openshelf/openshelf/internal/validation"
)

type CreateTranslatorRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=120"`
	Biography string `json:"biography" binding:"omitempty,max=3000"`
	IsActive  *bool  `json:"isActive"`
}

type UpdateTranslatorRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=2,max=120"`
	Biography *string `json:"biography" binding:"omitempty,max=3000"`
	IsActive  *bool   `json:"isActive"`
}

type ListTranslatorsQuery struct {
	rest.ListQuery
	Name     string `form:"name" binding:"omitempty,max=120"`
	IsActive *bool  `form:"isActive"`
}

func NewTranslatorsResource(db *mongo.Database) *rest.Resource[Translator] {
	return &rest.Resource[Translator]{
		Name:       "translators",
		Store:      crud.NewStore[Translator](db.Collection("translators"), "name"),
		CreateBody: validation.Body[CreateTranslatorRequest](),
		UpdateBody: validation.Body[UpdateTranslatorRequest](),
		ListQuery:  validation.Query[ListTranslatorsQuery](),
		ToModel: func(c *gin.Context) (*Translator, string) {
			req := validation.FromBody[CreateTranslatorRequest](c)
			tr := &Translator{Name: req.Name, Biography: req.Biography}
			tr.IsActive = true
			if req.IsActive != nil {
				tr.IsActive = *req.IsActive
			}
			return tr, tr.Name
		},
		ToUpdate: func(c *gin.Context) bson.M {
			req := validation.FromBody[UpdateTranslatorRequest](c)
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
			q := validation.FromQuery[ListTranslatorsQuery](c)
			f := bson.M{}
			crud.Substring(f, "name", q.Name)
			crud.EqBool(f, "isActive", q.IsActive)
			return q.Params(f)
		},
	}
}
