package logger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggedRouter(lines *[]string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ginLogMiddleware(func(s string) { *lines = append(*lines, s) }, []string{"/tokens"}))
	r.PUT("/issues/:key/summary", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": 204})
	})
	r.POST("/tokens", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r
}

func TestGinLogMiddleware_RecordsRequest(t *testing.T) {
	var lines []string
	r := newLoggedRouter(&lines)

	req := httptest.NewRequest(http.MethodPut, "/issues/PROJ-1/summary?dry=1", strings.NewReader(`{"summary":"x"}`))
	req.Header.Set("Authorization", "Basic c2VjcmV0")
	req.Header.Set("X-Jira-User", "user@example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Len(t, lines, 1)
	var rec logRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, requestType, rec.Type)
	assert.Equal(t, http.MethodPut, rec.HTTPMethod)
	assert.Equal(t, "/issues/PROJ-1/summary", rec.RequestPath)
	assert.Equal(t, "dry=1", rec.RequestQuery)
	assert.Equal(t, http.StatusOK, rec.HTTPStatusCode)
	assert.Equal(t, `{"summary":"x"}`, rec.RequestBody)
	assert.JSONEq(t, `{"status":204}`, rec.ResponseBody)
	assert.Equal(t, "user@example.com", rec.User)
	assert.Equal(t, redacted, rec.Headers.Get("Authorization"))
}

func TestGinLogMiddleware_RedactsSecretBodies(t *testing.T) {
	var lines []string
	r := newLoggedRouter(&lines)

	req := httptest.NewRequest(http.MethodPost, "/tokens", strings.NewReader(`{"username":"u","token":"secret-token"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Len(t, lines, 1)
	assert.NotContains(t, lines[0], "secret-token")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestLogTruncate(t *testing.T) {
	rec := &logRecord{
		Type:         requestType,
		RequestBody:  "small",
		ResponseBody: strings.Repeat("x", sizeLimit),
	}

	out := logTruncate(rec)

	assert.Less(t, len(out), sizeLimit)
	assert.Contains(t, out, truncated)
	assert.Contains(t, out, `"requestBody":"small"`)
}

func TestInit_RejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init("loud"))
}
