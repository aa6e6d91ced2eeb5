package services

import (
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
)

const (
	// SessionCookieName is the cookie carrying the session token.
	SessionCookieName = "token"
	// SessionDuration is how long an issued token and its cookie stay valid.
	SessionDuration = 48 * time.Hour
)

// AuthService issues and verifies session tokens and builds the cookies that carry them.
type AuthService struct {
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
	now        func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: SessionDuration,
		now:        time.Now,
	}
}

// IssueToken returns a signed JWT naming the user, valid for the session duration.
func (s *AuthService) IssueToken(userID string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"exp": now.Add(s.tokenDurat).Unix(),
		"iat": now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the user id it carries.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	// Tokens without an expiry are never accepted.
	if _, ok := claims["exp"]; !ok {
		return "", fmt.Errorf("invalid token: missing expiry")
	}
	userID, ok := claims["id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("invalid token: missing user id")
	}
	return userID, nil
}

// SessionCookie wraps a token in the session cookie.
func (s *AuthService) SessionCookie(token string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.now().Add(s.tokenDurat),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteNoneMode,
		Secure:   true,
	}
}

// ExpiredSessionCookie overwrites the session cookie with an empty value that
// expired at the Unix epoch, telling the client to drop it.
func (s *AuthService) ExpiredSessionCookie() *fiber.Cookie {
	return &fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteNoneMode,
		Secure:   true,
	}
}
