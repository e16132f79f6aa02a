package catalog

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/internal/crud"
	"github.com/openshelf/openshelf/internal/rest"
	"github.com/openshelf/openshelf/internal/validation"
)

type CreatePublicationRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=150"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Address     string `json:"address" binding:"omitempty,max=300"`
	IsActive    *bool  `json:"isActive"`
}

type UpdatePublicationRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=150"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Address     *string `json:"address" binding:"omitempty,max=300"`
	IsActive    *bool   `json:"isActive"`
}

type ListPublicationsQuery struct {
	rest.ListQuery
	Name     string `form:"name" binding:"omitempty,max=150"`
	IsActive *bool  `form:"isActive"`
}

func NewPublicationsResource(db *mongo.Database) *rest.Resource[Publication] {
	return &rest.Resource[Publication]{
		Name:       "publications",
		Store:      crud.NewStore[Publication](db.Collection("publications"), "name"),
		CreateBody: validation.Body[CreatePublicationRequest](),
		UpdateBody: validation.Body[UpdatePublicationRequest](),
		ListQuery:  validation.Query[ListPublicationsQuery](),
		ToModel: func(c *gin.Context) (*Publication, string) {
			req := validation.FromBody[CreatePublicationRequest](c)
			p := &Publication{Name: req.Name, Description: req.Description, Address: req.Address}
			p.IsActive = true
			if req.IsActive != nil {
				p.IsActive = *req.IsActive
			}
			return p, p.Name
		},
		ToUpdate: func(c *gin.Context) bson.M {
			req := validation.FromBody[UpdatePublicationRequest](c)
			set := bson.M{}
			if req.Name != nil {
				set["name"] = *req.Name
			}
			if req.Description != nil {
				set["description"] = *req.Description
			}
			if req.Address != nil {
				set["address"] = *req.Address
			}
			if req.IsActive != nil {
				set["isActive"] = *req.IsActive
			}
			return set
		},
		ToFilter: func(c *gin.Context) crud.ListParams {
			q := validation.FromQuery[ListPublicationsQuery](c)
			f := bson.M{}
			crud.Substring(f, "name", q.Name)
			crud.EqBool(f, "isActive", q.IsActive)
			return q.Params(f)
		},
	}
}
