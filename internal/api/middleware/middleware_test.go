package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.POST("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextSubjectKey))
	})
	return r
}

func do(r *gin.Engine, method, auth string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/x", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJWTAuth(t *testing.T) {
	r := newEngine(JWTAuth("secret"))

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "Bearer not-a-jwt").Code)

	wrongKey := sign(t, "other", jwt.MapClaims{"sub": "u1"})
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "Bearer "+wrongKey).Code)

	expired := sign(t, "secret", jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Hour).Unix()})
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "Bearer "+expired).Code)

	ok := sign(t, "secret", jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})
	w := do(r, http.MethodPost, "Bearer "+ok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestRateLimit(t *testing.T) {
	r := newEngine(RateLimit(0.001, 2))

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "").Code)
	w := do(r, http.MethodPost, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
}

func TestCors_Preflight(t *testing.T) {
	r := newEngine(Cors())
	r.OPTIONS("/x", func(c *gin.Context) {})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
}
