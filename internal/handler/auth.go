// internal/handler/auth.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type TokenIssuer interface {
	GenerateToken(userID int64) (string, error)
}

type AuthHandler struct {
	tokens TokenIssuer
}

func NewAuthHandler(tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// Login issues a token for a user id. Development login; there are no passwords here.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		UserID int64 `json:"user_id" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	token, err := h.tokens.GenerateToken(req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
