package accounts

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/internal/crud"
	"github.com/openshelf/openshelf/internal/rest"
	"github.com/openshelf/openshelf/internal/validation"
)

type CreatePermissionRequest struct {
	Name        string `json:"name" binding:"required,permname,max=80"`
	Description string `json:"description" binding:"omitempty,max=500"`
	Group       string `json:"group" binding:"omitempty,max=60"`
	IsActive    *bool  `json:"isActive"`
}

type UpdatePermissionRequest struct {
	Name        *string `json:"name" binding:"omitempty,permname,max=80"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Group       *string `json:"group" binding:"omitempty,max=60"`
	IsActive    *bool   `json:"isActive"`
}

type ListPermissionsQuery struct {
	rest.ListQuery
	Name     string `form:"name" binding:"omitempty,max=80"`
	Group    string `form:"group" binding:"omitempty,max=60"`
	IsActive *bool  `form:"isActive"`
}

func NewPermissionsResource(db *mongo.Database) *rest.Resource[Permission] {
	return &rest.Resource[Permission]{
		Name:       "permissions",
		Store:      crud.NewStore[Permission](db.Collection("permissions"), "name"),
		CreateBody: validation.Body[CreatePermissionRequest](),
		UpdateBody: validation.Body[UpdatePermissionRequest](),
		ListQuery:  validation.Query[ListPermissionsQuery](),
		ToModel: func(c *gin.Context) (*Permission, string) {
			req := validation.FromBody[CreatePermissionRequest](c)
			p := &Permission{Name: req.Name, Description: req.Description, Group: req.Group}
			p.IsActive = true
			if req.IsActive != nil {
				p.IsActive = *req.IsActive
			}
			return p, p.Name
		},
		ToUpdate: func(c *gin.Context) bson.M {
			req := validation.FromBody[UpdatePermissionRequest](c)
			set := bson.M{}
			if req.Name != nil {
				set["name"] = *req.Name
			}
			if req.Description != nil {
				set["description"] = *req.Description
			}
			if req.Group != nil {
				set["group"] = *req.Group
			}
			if req.IsActive != nil {
				set["isActive"] = *req.IsActive
			}
			return set
		},
		ToFilter: func(c *gin.Context) crud.ListParams {
			q := validation.FromQuery[ListPermissionsQuery](c)
			f := bson.M{}
			crud.Substring(f, "name", q.Name)
			crud.Eq(f, "group", q.Group)
			crud.EqBool(f, "isActive", q.IsActive)
			return q.Params(f)
		},
	}
}
