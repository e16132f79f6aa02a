// Package accounts holds the user, role and permission resources.
package accounts

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openshelf/openshelf/internal/crud"
)

type User struct {
	crud.Meta    `bson:",inline"`
	Name         string               `bson:"name" json:"name"`
	Email        string               `bson:"email" json:"email"`
	PasswordHash string               `bson:"password" json:"-"`
	RoleIDs      []primitive.ObjectID `bson:"roleIds" json:"roleIds"`
}

type Role struct {
	crud.Meta     `bson:",inline"`
	Name          string               `bson:"name" json:"name"`
	Description   string               `bson:"description,omitempty" json:"description,omitempty"`
	PermissionIDs []primitive.ObjectID `bson:"permissionIds" json:"permissionIds"`
}

// Permission names follow the action-route convention, e.g. "create-books".
type Permission struct {
	crud.Meta   `bson:",inline"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Group       string `bson:"group,omitempty" json:"group,omitempty"`
}
