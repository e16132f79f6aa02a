package envelope

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestNew_SuccessFlag(t *testing.T) {
	require.True(t, Ok(nil, "ok").Success)
	require.True(t, Created(nil, "made").Success)
	require.False(t, BadRequest("bad").Success)
	require.False(t, NotFound("missing").Success)
	require.False(t, Conflict("dup").Success)
	require.False(t, Internal().Success)
}

func TestNew_NilDataBecomesEmptyObject(t *testing.T) {
	e := NotFound("writer not found")
	raw, err := json.Marshal(e)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "data should be an object, got %T", body["data"])
	require.Empty(t, data)
}

func TestWrite_RouteAndStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.GET("/subjects/:id", func(c *gin.Context) {
		Ok(gin.H{"id": c.Param("id")}, "fetched").Write(c)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/subjects/abc", nil)
	g.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "/subjects/:id", body["route"])
	require.Equal(t, float64(http.StatusOK), body["status"])
	require.Equal(t, true, body["success"])
	require.NotEmpty(t, body["timestamp"])
}
