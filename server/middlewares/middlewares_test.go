package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
	tokenSecret = []byte("test_secret")
}

func protectedRouter() *gin.Engine {
	router := gin.New()
	router.GET("/protected", Protect(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sub": c.GetString(SubKey)})
	})
	router.GET("/open", OptionalAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"scope": c.GetString(ViewerScopeKey),
			"sub":   c.GetString(SubKey),
		})
	})
	return router
}

func TestIssueAndParseToken(t *testing.T) {
	token := IssueToken("user_1")
	assert.Equal(t, "user_1", parseToken(token))

	assert.Empty(t, parseToken(""))
	assert.Empty(t, parseToken("no_signature"))
	assert.Empty(t, parseToken("user_1.deadbeef"))
	// A valid signature only authenticates its own user id.
	assert.Empty(t, parseToken("user_2."+sign("user_1")))
}

func TestProtectRejectsAnonymous(t *testing.T) {
	router := protectedRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+IssueToken("user_1"))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user_1")
}

func TestProtectAcceptsQueryToken(t *testing.T) {
	router := protectedRouter()

	// Websocket clients pass the token as a query parameter.
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected?token="+IssueToken("user_1"), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuthDegradesToPublic(t *testing.T) {
	router := protectedRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/open", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"scope":"public"`)

	// An invalid token degrades rather than rejects.
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", "Bearer garbage.token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"scope":"public"`)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", "Bearer "+IssueToken("user_9"))
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"scope":"authenticated"`)
}
