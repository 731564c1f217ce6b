// internal/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"math"
	"time"

	"savings-tracker/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var ErrInvalidToken = errors.New("invalid token")

// maxUserID is the largest integer a JSON number carries exactly.
const maxUserID = 1<<53 - 1

type TokenService struct {
	secretKey []byte
	expiresIn time.Duration
	log       *zap.Logger
}

func NewTokenService(cfg config.Config, log *zap.Logger) *TokenService {
	return &TokenService{
		secretKey: []byte(cfg.JWTSecret),
		expiresIn: cfg.JWTExpiresIn,
		log:       log,
	}
}

func (s *TokenService) GenerateToken(userID int64) (string, error) {
	expTime := time.Now().Add(s.expiresIn)
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     expTime.Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	s.log.Debug("JWT generated", zap.Int64("user_id", userID), zap.Time("expires_at", expTime))
	return tokenStr, nil
}

func (s *TokenService) ParseToken(tokenStr string) (int64, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}
	// JSON numbers decode as float64
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("%w: user_id claim missing", ErrInvalidToken)
	}
	if userIDFloat < 1 || userIDFloat > maxUserID || userIDFloat != math.Trunc(userIDFloat) {
		return 0, fmt.Errorf("%w: invalid user_id", ErrInvalidToken)
	}
	return int64(userIDFloat), nil
}
