package services_test

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"akun/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test_jwt_secret"

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestAuthService_IssueToken(t *testing.T) {
	authService := services.NewAuthService(testJWTSecret)

	before := time.Now()
	token, err := authService.IssueToken("user-123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "user-123", claims["id"])

	exp := time.Unix(int64(claims["exp"].(float64)), 0)
	assert.WithinDuration(t, before.Add(services.SessionDuration), exp, 2*time.Second)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(testJWTSecret)

	token, err := authService.IssueToken("user-123")
	require.NoError(t, err)
	userID, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	// Garbage
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Wrong secret
	other := services.NewAuthService("another_secret")
	foreign, err := other.IssueToken("user-123")
	require.NoError(t, err)
	_, err = authService.ValidateToken(foreign)
	assert.Error(t, err)

	// Expired
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "user-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// No expiry
	eternal := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "user-123"})
	eternalString, _ := eternal.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(eternalString)
	assert.Error(t, err)

	// No user id
	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	anonymousString, _ := anonymous.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(anonymousString)
	assert.Error(t, err)
}

func TestAuthService_SessionCookie(t *testing.T) {
	authService := services.NewAuthService(testJWTSecret)

	cookie := authService.SessionCookie("abc")
	assert.Equal(t, services.SessionCookieName, cookie.Name)
	assert.Equal(t, "abc", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HTTPOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, fiber.CookieSameSiteNoneMode, cookie.SameSite)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), cookie.Expires, 2*time.Second)
}

func TestAuthService_ExpiredSessionCookie(t *testing.T) {
	authService := services.NewAuthService(testJWTSecret)

	cookie := authService.ExpiredSessionCookie()
	assert.Equal(t, services.SessionCookieName, cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HTTPOnly)
	assert.True(t, cookie.Secure)
	assert.False(t, cookie.Expires.After(time.Unix(0, 0)))
}
