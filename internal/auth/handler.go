package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/internal/accounts"
	"github.com/openshelf/openshelf/internal/crud"
	"github.com/openshelf/openshelf/internal/envelope"
	"github.com/openshelf/openshelf/internal/validation"
	"github.com/openshelf/openshelf/pkg/logger"
)

// RoleResolver turns a user's role ids into role names for the token claims.
type RoleResolver interface {
	Names(ctx context.Context, ids []primitive.ObjectID) ([]string, error)
}

type MongoRoleResolver struct {
	col *mongo.Collection
}

func NewMongoRoleResolver(col *mongo.Collection) *MongoRoleResolver {
	return &MongoRoleResolver{col: col}
}

func (r *MongoRoleResolver) Names(ctx context.Context, ids []primitive.ObjectID) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var roles []accounts.Role
	if err := cur.All(ctx, &roles); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names, nil
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// Handler serves login, refresh and logout.
type Handler struct {
	users     *accounts.UserStore
	roles     RoleResolver
	issuer    *Issuer
	blacklist *Blacklist
}

func NewHandler(users *accounts.UserStore, roles RoleResolver, issuer *Issuer, blacklist *Blacklist) *Handler {
	return &Handler{users: users, roles: roles, issuer: issuer, blacklist: blacklist}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/login", validation.Validate(validation.Body[loginRequest]()), h.login)
	a.POST("/refresh", validation.Validate(validation.Body[refreshRequest]()), h.refresh)
	a.POST("/logout", h.logout)
}

func (h *Handler) login(c *gin.Context) {
	req := validation.FromBody[loginRequest](c)
	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err == crud.ErrNotFound {
		envelope.Unauthorized("invalid email or password").Write(c)
		return
	}
	if err != nil {
		logger.Errorf("login lookup failed: %v", err)
		envelope.Internal().Write(c)
		return
	}
	if !accounts.CheckPassword(user.PasswordHash, req.Password) {
		envelope.Unauthorized("invalid email or password").Write(c)
		return
	}
	h.issue(c, user, "logged in successfully")
}

func (h *Handler) refresh(c *gin.Context) {
	req := validation.FromBody[refreshRequest](c)
	sub, err := h.issuer.ParseRefresh(req.RefreshToken)
	if err != nil {
		envelope.Unauthorized("invalid refresh token").Write(c)
		return
	}
	user, err := h.users.Get(c.Request.Context(), sub)
	if err == crud.ErrNotFound {
		envelope.Unauthorized("invalid refresh token").Write(c)
		return
	}
	if err != nil {
		logger.Errorf("refresh lookup failed: %v", err)
		envelope.Internal().Write(c)
		return
	}
	h.issue(c, user, "token refreshed successfully")
}

// logout revokes the presented access token for its remaining lifetime.
func (h *Handler) logout(c *gin.Context) {
	fields := strings.Fields(c.GetHeader("Authorization"))
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		envelope.Unauthorized("missing or malformed Authorization header").Write(c)
		return
	}
	if err := h.blacklist.Add(c.Request.Context(), fields[1], h.issuer.AccessTTL()); err != nil {
		logger.Errorf("token revocation failed: %v", err)
		envelope.Internal().Write(c)
		return
	}
	envelope.Ok(nil, "logged out successfully").Write(c)
}

func (h *Handler) issue(c *gin.Context, user *accounts.User, message string) {
	roles, err := h.roles.Names(c.Request.Context(), user.RoleIDs)
	if err != nil {
		logger.Errorf("role resolution failed: %v", err)
		envelope.Internal().Write(c)
		return
	}
	access, err := h.issuer.AccessToken(user, roles)
	if err != nil {
		logger.Errorf("access token signing failed: %v", err)
		envelope.Internal().Write(c)
		return
	}
	refresh, err := h.issuer.RefreshToken(user)
	if err != nil {
		logger.Errorf("refresh token signing failed: %v", err)
		envelope.Internal().Write(c)
		return
	}
	envelope.Ok(tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(h.issuer.AccessTTL().Seconds()),
	}, message).Write(c)
}
