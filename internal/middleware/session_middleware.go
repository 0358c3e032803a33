package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionCookie is the cookie carrying the browsing session ID that keys
// the cart and checkout state.
const SessionCookie = "dss_session"

// SessionLocal is the Fiber Locals key the session ID is stored under.
const SessionLocal = "session_id"

// CartSession issues a session ID cookie on first contact and exposes the
// ID to handlers via Locals. The cart and checkout flow are scoped to it;
// nothing is shared across sessions.
func CartSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SessionCookie)
		if sessionID == "" {
			sessionID = uuid.New().String()
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    sessionID,
				Expires:  time.Now().Add(30 * 24 * time.Hour),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(SessionLocal, sessionID)
		return c.Next()
	}
}

// SessionID returns the request's browsing session ID.
func SessionID(c *fiber.Ctx) string {
	if id, ok := c.Locals(SessionLocal).(string); ok {
		return id
	}
	return ""
}
