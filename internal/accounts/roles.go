package accounts

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/internal/crud"
	"github.com/openshelf/openshelf/internal/rest"
	"github.com/openshelf/openshelf/internal/validation"
)

type CreateRoleRequest struct {
	Name          string   `json:"name" binding:"required,min=2,max=60"`
	Description   string   `json:"description" binding:"omitempty,max=500"`
	PermissionIDs []string `json:"permissionIds" binding:"omitempty,dive,objectid"`
	IsActive      *bool    `json:"isActive"`
}

type UpdateRoleRequest struct {
	Name          *string   `json:"name" binding:"omitempty,min=2,max=60"`
	Description   *string   `json:"description" binding:"omitempty,max=500"`
	PermissionIDs *[]string `json:"permissionIds" binding:"omitempty,dive,objectid"`
	IsActive      *bool     `json:"isActive"`
}

type ListRolesQuery struct {
	rest.ListQuery
	Name     string `form:"name" binding:"omitempty,max=60"`
	IsActive *bool  `form:"isActive"`
}

func NewRolesResource(db *mongo.Database) *rest.Resource[Role] {
	return &rest.Resource[Role]{
		Name:       "roles",
		Store:      crud.NewStore[Role](db.Collection("roles"), "name"),
		CreateBody: validation.Body[CreateRoleRequest](),
		UpdateBody: validation.Body[UpdateRoleRequest](),
		ListQuery:  validation.Query[ListRolesQuery](),
		ToModel: func(c *gin.Context) (*Role, string) {
			req := validation.FromBody[CreateRoleRequest](c)
			r := &Role{
				Name:          req.Name,
				Description:   req.Description,
				PermissionIDs: crud.OIDs(req.PermissionIDs),
			}
			r.IsActive = true
			if req.IsActive != nil {
				r.IsActive = *req.IsActive
			}
			return r, r.Name
		},
		ToUpdate: func(c *gin.Context) bson.M {
			req := validation.FromBody[UpdateRoleRequest](c)
			set := bson.M{}
			if req.Name != nil {
				set["name"] = *req.Name
			}
			if req.Description != nil {
				set["description"] = *req.Description
			}
			if req.PermissionIDs != nil {
				set["permissionIds"] = crud.OIDs(*req.PermissionIDs)
			}
			if req.IsActive != nil {
				set["isActive"] = *req.IsActive
			}
			return set
		},
		ToFilter: func(c *gin.Context) crud.ListParams {
			q := validation.FromQuery[ListRolesQuery](c)
			f := bson.M{}
			crud.Substring(f, "name", q.Name)
			crud.EqBool(f, "isActive", q.IsActive)
			return q.Params(f)
		},
	}
}
