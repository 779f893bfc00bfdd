package controllers

import (
	"log"
	"strconv"

	"assignmentmate/backend/api"
	"assignmentmate/backend/middleware"
	"assignmentmate/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// Upstream hands out backend clients scoped to the caller's credential.
type Upstream struct {
	Client *api.Client
	Logger *log.Logger
}

func (u *Upstream) For(c *fiber.Ctx) *api.Client {
	return u.Client.WithCredential(middleware.Credential(c))
}

// readFailure logs the cause of a failed read and answers with a generic
// message, except for unauthenticated callers who are sent to login.
func (u *Upstream) readFailure(c *fiber.Ctx, err error, message string) error {
	if api.Classify(err) == api.KindUnauthenticated {
		return utils.UpstreamError(c, err)
	}
	u.Logger.Printf("%s %s: %s: %v", c.Method(), c.Path(), api.Classify(err), err)
	return utils.ReadFailure(c, message)
}

func intParam(c *fiber.Ctx, name string) (int, bool) {
	value, err := strconv.Atoi(c.Params(name))
	if err != nil || value < 1 {
		return 0, false
	}
	return value, true
}
