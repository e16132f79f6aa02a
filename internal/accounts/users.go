package accounts

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/openshelf/openshelf/internal/crud"
	"github.com/openshelf/openshelf/internal/envelope"
	"github.com/openshelf/openshelf/internal/rest"
	"github.com/openshelf/openshelf/internal/validation"
	"github.com/openshelf/openshelf/pkg/logger"
)

type CreateUserRequest struct {
	Name     string   `json:"name" binding:"required,min=2,max=100"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8,max=72"`
	RoleIDs  []string `json:"roleIds" binding:"omitempty,dive,objectid"`
	IsActive *bool    `json:"isActive"`
}

type UpdateUserRequest struct {
	Name     *string   `json:"name" binding:"omitempty,min=2,max=100"`
	Password *string   `json:"password" binding:"omitempty,min=8,max=72"`
	RoleIDs  *[]string `json:"roleIds" binding:"omitempty,dive,objectid"`
	IsActive *bool     `json:"isActive"`
}

type ListUsersQuery struct {
	rest.ListQuery
	Name     string `form:"name" binding:"omitempty,max=100"`
	Email    string `form:"email" binding:"omitempty,max=200"`
	RoleID   string `form:"roleId" binding:"omitempty,objectid"`
	IsActive *bool  `form:"isActive"`
}

// UserStore adds the lookups the generic pipeline does not cover.
type UserStore struct {
	*crud.Store[User]
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{crud.NewStore[User](db.Collection("users"), "email")}
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.FindOne(ctx, bson.M{"email": email})
}

// HashPassword wraps bcrypt so handlers and tests share one cost setting.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(h), err
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NewUsersResource wires /users. Create is overridden: the password must be
// hashed (a fallible step) before the stock pipeline can run.
func NewUsersResource(store *UserStore) *rest.Resource[User] {
	res := &rest.Resource[User]{
		Name:       "users",
		Store:      store.Store,
		CreateBody: validation.Body[CreateUserRequest](),
		UpdateBody: validation.Body[UpdateUserRequest](),
		ListQuery:  validation.Query[ListUsersQuery](),
		ToUpdate: func(c *gin.Context) bson.M {
			req := validation.FromBody[UpdateUserRequest](c)
			set := bson.M{}
			if req.Name != nil {
				set["name"] = *req.Name
			}
			if req.Password != nil {
				if hash, err := HashPassword(*req.Password); err == nil {
					set["password"] = hash
				}
			}
			if req.RoleIDs != nil {
				set["roleIds"] = crud.OIDs(*req.RoleIDs)
			}
			if req.IsActive != nil {
				set["isActive"] = *req.IsActive
			}
			return set
		},
		ToFilter: func(c *gin.Context) crud.ListParams {
			q := validation.FromQuery[ListUsersQuery](c)
			f := bson.M{}
			crud.Substring(f, "name", q.Name)
			crud.Substring(f, "email", q.Email)
			crud.EqID(f, "roleIds", q.RoleID)
			crud.EqBool(f, "isActive", q.IsActive)
			return q.Params(f)
		},
	}
	res.CreateHandler = func(c *gin.Context) {
		req := validation.FromBody[CreateUserRequest](c)
		hash, err := HashPassword(req.Password)
		if err != nil {
			logger.Errorf("hash password: %v", err)
			envelope.Internal().Write(c)
			return
		}
		u := &User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			RoleIDs:      crud.OIDs(req.RoleIDs),
		}
		u.IsActive = true
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
		}
		out, err := store.Create(c.Request.Context(), u, u.Email, rest.Caller(c))
		if err != nil {
			rest.WriteErr(c, "users", err)
			return
		}
		envelope.Created(out, "users created").Write(c)
	}
	return res
}
