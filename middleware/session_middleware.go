package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"teamhub/models"
	"teamhub/session"
	"teamhub/store"
)

// SessionCookie is the name of the session cookie.
const SessionCookie = "teamhub_session"

// Protected gates an endpoint on a valid session. The cookie token is
// resolved against the server-side session store and the user is loaded
// fresh from the identity store; any failure is a 401 before handler logic
// runs. The authenticated user is exposed via c.Locals("user").
func Protected(sessions session.Manager, st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		userID, err := sessions.UserID(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid or expired session",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Session lookup failed",
			})
		}

		user, err := st.UserByID(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid or expired session",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load user",
			})
		}

		c.Locals("user", user)
		c.Locals("sessionToken", token)

		return c.Next()
	}
}

// CurrentUser returns the authenticated user set by Protected.
func CurrentUser(c *fiber.Ctx) *models.User {
	return c.Locals("user").(*models.User)
}
