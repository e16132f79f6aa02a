package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/envelope"
)

// Token is the minimal interface for a verified token exposing its claims.
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the auth middleware depends on.
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// Revocations answers whether an access token has been revoked (logout).
type Revocations interface {
	Contains(ctx context.Context, token string) (bool, error)
}

// Auth verifies Bearer tokens and stores the claims map on the context under
// "claims". A nil revocations skips the revocation check.
func Auth(ver Verifier, rev Revocations) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			envelope.Unauthorized("missing or malformed Authorization header").Write(c)
			c.Abort()
			return
		}
		if rev != nil {
			revoked, err := rev.Contains(c.Request.Context(), raw)
			if err == nil && revoked {
				envelope.Unauthorized("token has been revoked").Write(c)
				c.Abort()
				return
			}
		}
		tok, err := ver.Verify(c.Request.Context(), raw)
		if err != nil {
			envelope.Unauthorized("invalid token").Write(c)
			c.Abort()
			return
		}
		var claims map[string]interface{}
		if err := tok.Claims(&claims); err != nil {
			envelope.Unauthorized("failed to parse claims").Write(c)
			c.Abort()
			return
		}
		c.Set("claims", claims)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the claims carry the named role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := c.Get("claims"); ok {
			if cm, ok := v.(map[string]interface{}); ok {
				if roles, ok := cm["roles"].([]interface{}); ok {
					for _, r := range roles {
						if s, ok := r.(string); ok && s == role {
							c.Next()
							return
						}
					}
				}
			}
		}
		envelope.Forbidden("caller lacks the " + role + " role").Write(c)
		c.Abort()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
