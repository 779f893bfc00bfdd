package middleware

import (
	"log"
	"time"

	"assignmentmate/backend/auth"
	"assignmentmate/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const credentialKey = "credential"

// AuthMiddleware is the route guard. Requests without a token are sent to
// the login view; expired tokens are passed through and left to the backend.
func AuthMiddleware(logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cred, err := auth.FromRequest(c)
		if err != nil {
			return utils.Unauthorized(c, "Missing authorization token")
		}
		if cred.Expired(time.Now()) {
			logger.Printf("expired access token for %s on %s", cred.Subject(), c.Path())
		}
		c.Locals(credentialKey, cred)
		return c.Next()
	}
}

// Credential returns the credential stored by AuthMiddleware.
func Credential(c *fiber.Ctx) auth.Credential {
	cred, _ := c.Locals(credentialKey).(auth.Credential)
	return cred
}
