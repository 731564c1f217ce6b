// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"savings-tracker/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const UserIDKey = "user_id"

type AuthMiddleware struct {
	tokenService *auth.TokenService
	log          *zap.Logger
}

func NewAuthMiddleware(ts *auth.TokenService, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenService: ts, log: log}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := extractToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		userID, err := m.tokenService.ParseToken(tokenStr)
		if err != nil {
			m.log.Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// extractToken looks at the Authorization bearer header, then x-auth-token,
// then the token query parameter (browsers cannot set headers on WebSocket upgrades).
func extractToken(c *gin.Context) (string, bool) {
	if h := c.GetHeader("Authorization"); h != "" {
		tok, found := strings.CutPrefix(h, "Bearer ")
		tok = strings.TrimSpace(tok)
		return tok, found && tok != ""
	}
	if tok := strings.TrimSpace(c.GetHeader("x-auth-token")); tok != "" {
		return tok, true
	}
	if tok := c.Query("token"); tok != "" {
		return tok, true
	}
	return "", false
}

// UserID returns the id stored by RequireAuth.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
