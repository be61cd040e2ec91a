package middleware

import (
	"errors"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/makeasinger/lyricarchitect/internal/auth"
	"github.com/makeasinger/lyricarchitect/pkg/response"
)

// Context locals set by the auth middlewares
const (
	LocalUserID = "userId"
	LocalEmail  = "email"
	LocalName   = "name"
)

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	authenticator *auth.Authenticator
}

func NewAuthMiddleware(authenticator *auth.Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// Authenticate validates the bearer token from the Authorization header.
// Browsers cannot set headers on WebSocket upgrades, so upgrade requests may
// pass the token as ?token= instead.
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		if errors.Is(err, auth.ErrMissingToken) && websocket.IsWebSocketUpgrade(c) {
			token, err = c.Query("token"), nil
		}
		if err != nil {
			return response.Unauthorized(c, authMessage(err))
		}

		identity, err := m.authenticator.Authenticate(token)
		if err != nil {
			return response.Unauthorized(c, authMessage(err))
		}

		setIdentity(c, identity)
		return c.Next()
	}
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "Missing authorization header"
	case errors.Is(err, auth.ErrMalformedToken):
		return "Invalid authorization header format"
	case errors.Is(err, auth.ErrNotConfigured):
		return "Authentication not configured"
	default:
		return "Invalid or expired token"
	}
}

func setIdentity(c *fiber.Ctx, identity *auth.Identity) {
	c.Locals(LocalUserID, identity.UserID)
	c.Locals(LocalEmail, identity.Email)
	c.Locals(LocalName, identity.Name)
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) string {
	if userID, ok := c.Locals(LocalUserID).(string); ok {
		return userID
	}
	return ""
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *fiber.Ctx) string {
	if email, ok := c.Locals(LocalEmail).(string); ok {
		return email
	}
	return ""
}
