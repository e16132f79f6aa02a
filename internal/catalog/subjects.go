package catalog

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/internal/crud"
	"github.com/openshelf/openshelf/internal/rest"
	"github.com/openshelf/openshelf/internal/validation"
)

type CreateSubjectRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool  `json:"isActive"`
}

type UpdateSubjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive"`
}

type ListSubjectsQuery struct {
	rest.ListQuery
	Name     string `form:"name" binding:"omitempty,max=100"`
	IsActive *bool  `form:"isActive"`
}

func NewSubjectsResource(db *mongo.Database) *rest.Resource[Subject] {
	return &rest.Resource[Subject]{
		Name:       "subjects",
		Store:      crud.NewStore[Subject](db.Collection("subjects"), "name"),
		CreateBody: validation.Body[CreateSubjectRequest](),
		UpdateBody: validation.Body[UpdateSubjectRequest](),
		ListQuery:  validation.Query[ListSubjectsQuery](),
		ToModel: func(c *gin.Context) (*Subject, string) {
			req := validation.FromBody[CreateSubjectRequest](c)
			s := &Subject{Name: req.Name, Description: req.Description}
			s.IsActive = true
			if req.IsActive != nil {
				s.IsActive = *req.IsActive
			}
			return s, s.Name
		},
		ToUpdate: func(c *gin.Context) bson.M {
			req := validation.FromBody[UpdateSubjectRequest](c)
			set := bson.M{}
			if req.Name != nil {
				set["name"] = *req.Name
			}
			if req.Description != nil {
				set["description"] = *req.Description
			}
			if req.IsActive != nil {
				set["isActive"] = *req.IsActive
			}
			return set
		},
		ToFilter: func(c *gin.Context) crud.ListParams {
			q := validation.FromQuery[ListSubjectsQuery](c)
			f := bson.M{}
			crud.Substring(f, "name", q.Name)
			crud.EqBool(f, "isActive", q.IsActive)
			return q.Params(f)
		},
	}
}
