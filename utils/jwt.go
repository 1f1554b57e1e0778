package utils

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sairamconnect/campus-services/models"
)

var JWTSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}
	JWTSecret = []byte(secret)
}

type CustomClaims struct {
	UserID     uint   `json:"user_id"`
	Role       string `json:"role"`
	VendorType string `json:"vendor_type,omitempty"`
	jwt.RegisteredClaims
}

// Actor rebuilds the request identity from the token claims.
func (c *CustomClaims) Actor() models.Actor {
	return models.Actor{
		ID:         c.UserID,
		Role:       c.Role,
		VendorType: c.VendorType,
	}
}

func GenerateToken(user models.User) (string, error) {
	vendorType := ""
	if user.VendorType != nil {
		vendorType = *user.VendorType
	}
	claims := &CustomClaims{
		UserID:     user.ID,
		Role:       user.Role,
		VendorType: vendorType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "CampusServices",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret)
}

func ParseToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

var (
	blacklistedTokens = make(map[string]time.Time)
	blacklistMutex    sync.RWMutex
)

// BlacklistToken invalidates a token until its natural 24h expiry. Used by
// logout; the map is in-process only.
func BlacklistToken(token string) {
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	blacklistedTokens[token] = time.Now().Add(24 * time.Hour)
}

func IsTokenBlacklisted(token string) bool {
	blacklistMutex.RLock()
	defer blacklistMutex.RUnlock()

	if expiry, exists := blacklistedTokens[token]; exists {
		if time.Now().Before(expiry) {
			return true
		}
	}
	return false
}
