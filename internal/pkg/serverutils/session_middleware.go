package serverutils

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SessionMiddleware authenticates requests with the session token minted at
// session creation. The token travels as a Bearer header, or as a ?token=
// query parameter for clients that cannot set headers (the browser WebSocket
// API, EventSource).
func SessionMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Query("token")
		if tokenString == "" {
			authHeader := c.Get("Authorization")
			if authHeader == "" {
				return fiber.NewError(fiber.StatusUnauthorized, "missing session token")
			}
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		sessionID, err := ParseSessionToken(tokenString, jwtSecret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired session token")
		}

		c.Locals("session_id", sessionID)
		return c.Next()
	}
}

// ParseSessionToken verifies an HS256 session token and returns the
// session_id claim. Shared with the WebSocket handshake, which runs
// outside the fiber middleware chain.
func ParseSessionToken(tokenString, jwtSecret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims type %T", token.Claims)
	}
	sessionID, ok := claims["session_id"].(string)
	if !ok || sessionID == "" {
		return "", fmt.Errorf("token carries no session_id claim")
	}
	return sessionID, nil
}
