package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ksaito/chocolatte-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func setupAuthTestRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	m := NewAuthMiddleware(testSecret, false)

	r := gin.New()
	group := r.Group("/", m.Authenticate())
	if len(roles) > 0 {
		group.Use(m.RequireRole(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	r := setupAuthTestRouter()

	token, err := util.GenerateToken(42, "user@example.com", "user", testSecret, time.Hour)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := setupAuthTestRouter()

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	r := setupAuthTestRouter()

	w := doRequest(r, "Token abc.def.ghi")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	r := setupAuthTestRouter()

	token, err := util.GenerateToken(42, "user@example.com", "user", testSecret, -time.Minute)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_EXPIRED")
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	r := setupAuthTestRouter()

	token, err := util.GenerateToken(42, "user@example.com", "user", "other-secret", time.Hour)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	r := setupAuthTestRouter("admin")

	userToken, err := util.GenerateToken(1, "user@example.com", "user", testSecret, time.Hour)
	require.NoError(t, err)
	adminToken, err := util.GenerateToken(2, "admin@example.com", "admin", testSecret, time.Hour)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
