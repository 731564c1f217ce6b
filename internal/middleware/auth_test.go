package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"savings-tracker/internal/auth"
	"savings-tracker/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T) (*gin.Engine, *auth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ts := auth.NewTokenService(config.Config{JWTSecret: "test-secret", JWTExpiresIn: time.Hour}, zap.NewNop())

	r := gin.New()
	r.Use(NewAuthMiddleware(ts, zap.NewNop()).RequireAuth())
	r.GET("/me", func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, strconv.FormatInt(id, 10))
	})
	return r, ts
}

func TestRequireAuth_TokenSources(t *testing.T) {
	r, ts := setupRouter(t)
	tok, err := ts.GenerateToken(11)
	require.NoError(t, err)

	reqs := map[string]*http.Request{}

	bearer := httptest.NewRequest(http.MethodGet, "/me", nil)
	bearer.Header.Set("Authorization", "Bearer "+tok)
	reqs["bearer"] = bearer

	legacy := httptest.NewRequest(http.MethodGet, "/me", nil)
	legacy.Header.Set("x-auth-token", tok)
	reqs["x-auth-token"] = legacy

	reqs["query"] = httptest.NewRequest(http.MethodGet, "/me?token="+tok, nil)

	for name, req := range reqs {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "11", w.Body.String())
		})
	}
}

func TestRequireAuth_Rejects(t *testing.T) {
	r, _ := setupRouter(t)

	cases := map[string]func(*http.Request){
		"missing":      func(*http.Request) {},
		"not bearer":   func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
		"empty bearer": func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") },
		"garbage":      func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			mutate(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
