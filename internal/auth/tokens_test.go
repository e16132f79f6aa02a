package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openshelf/openshelf/internal/accounts"
)

func testUser() *accounts.User {
	u := &accounts.User{Name: "Ada", Email: "ada@example.com"}
	u.ID = primitive.NewObjectID()
	return u
}

func TestIssuerAccessTokenRoundTrip(t *testing.T) {
	iss := NewIssuer("test-secret", 15*time.Minute, time.Hour)
	u := testUser()

	raw, err := iss.AccessToken(u, []string{"admin"})
	require.NoError(t, err)

	tok, err := iss.Verify(context.Background(), raw)
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	assert.Equal(t, u.ID.Hex(), claims["sub"])
	assert.Equal(t, "ada@example.com", claims["email"])
	roles, ok := claims["roles"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, roles, "admin")
}

func TestIssuerRejectsRefreshTokenAsAccess(t *testing.T) {
	iss := NewIssuer("test-secret", 15*time.Minute, time.Hour)

	raw, err := iss.RefreshToken(testUser())
	require.NoError(t, err)

	_, err = iss.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuerRejectsWrongSecret(t *testing.T) {
	iss := NewIssuer("test-secret", 15*time.Minute, time.Hour)
	other := NewIssuer("other-secret", 15*time.Minute, time.Hour)

	raw, err := iss.AccessToken(testUser(), nil)
	require.NoError(t, err)

	_, err = other.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuerRejectsExpiredToken(t *testing.T) {
	iss := NewIssuer("test-secret", -time.Minute, time.Hour)

	raw, err := iss.AccessToken(testUser(), nil)
	require.NoError(t, err)

	_, err = iss.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRefresh(t *testing.T) {
	iss := NewIssuer("test-secret", 15*time.Minute, time.Hour)
	u := testUser()

	raw, err := iss.RefreshToken(u)
	require.NoError(t, err)

	sub, err := iss.ParseRefresh(raw)
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), sub)

	access, err := iss.AccessToken(u, nil)
	require.NoError(t, err)
	_, err = iss.ParseRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBlacklist(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	bl := NewBlacklist(client)
	ctx := context.Background()

	revoked, err := bl.Contains(ctx, "some-token")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Add(ctx, "some-token", time.Minute))

	revoked, err = bl.Contains(ctx, "some-token")
	require.NoError(t, err)
	assert.True(t, revoked)

	// entries lapse with the token's own lifetime
	mr.FastForward(2 * time.Minute)
	revoked, err = bl.Contains(ctx, "some-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestBlacklistNilClient(t *testing.T) {
	bl := NewBlacklist(nil)
	ctx := context.Background()

	require.NoError(t, bl.Add(ctx, "tok", time.Minute))
	revoked, err := bl.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)
}
