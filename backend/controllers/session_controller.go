package controllers

import (
	"errors"

	"assignmentmate/backend/api"
	"assignmentmate/backend/middleware"
	"assignmentmate/backend/session"
	"assignmentmate/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type SessionController struct {
	*Upstream
	manager *session.Manager
}

func NewSessionController(upstream *Upstream, manager *session.Manager) *SessionController {
	return &SessionController{Upstream: upstream, manager: manager}
}

type mountRequest struct {
	QuizID int `json:"quiz_id" validate:"required,min=1"`
}

type toggleRequest struct {
	Question *int `json:"question" validate:"required,min=0"`
	Option   *int `json:"option" validate:"required,min=0"`
}

// Mount godoc
// @Summary Start a timed attempt
// @Description Starts or resumes the caller's attempt on a quiz and mounts a countdown session for it
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body mountRequest true "Quiz to attempt"
// @Success 201 {object} utils.SuccessResponse
// @Success 200 {object} utils.SuccessResponse "Attempt already completed, redirect to results"
// @Failure 502 {object} utils.ErrorResponse
// @Router /sessions [post]
func (sc *SessionController) Mount(c *fiber.Ctx) error {
	var input mountRequest
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	cred := middleware.Credential(c)
	s := sc.manager.Mount(cred.Subject(), input.QuizID, sc.Client.WithCredential(cred))
	if err := s.Start(c.UserContext()); err != nil {
		return utils.InternalServerError(c, err.Error())
	}

	return renderSnapshot(c, fiber.StatusCreated, s.Snapshot())
}

func (sc *SessionController) Get(c *fiber.Ctx) error {
	s, ok := sc.lookup(c)
	if !ok {
		return utils.NotFound(c, "Session not found")
	}
	return renderSnapshot(c, fiber.StatusOK, s.Snapshot())
}

func (sc *SessionController) Toggle(c *fiber.Ctx) error {
	s, ok := sc.lookup(c)
	if !ok {
		return utils.NotFound(c, "Session not found")
	}

	var input toggleRequest
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	err := s.Toggle(*input.Question, *input.Option)
	switch {
	case err == nil:
		return utils.Success(c, fiber.StatusOK, s.Snapshot())
	case errors.Is(err, session.ErrInvalidSelection):
		return utils.Error(c, fiber.StatusUnprocessableEntity, err)
	case errors.Is(err, session.ErrNotActive):
		return utils.Conflict(c, "Session is not active")
	case errors.Is(err, session.ErrClosed):
		return utils.NotFound(c, "Session not found")
	default:
		return utils.InternalServerError(c, err.Error())
	}
}

// Submit godoc
// @Summary Submit the attempt
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /sessions/{id}/submit [post]
func (sc *SessionController) Submit(c *fiber.Ctx) error {
	s, ok := sc.lookup(c)
	if !ok {
		return utils.NotFound(c, "Session not found")
	}

	err := s.Submit(c.UserContext())
	switch {
	case err == nil:
		snap := s.Snapshot()
		return utils.Redirect(c, snap.Redirect, snap)
	case errors.Is(err, session.ErrSubmitInProgress):
		return utils.Conflict(c, "Submission already in progress")
	case errors.Is(err, session.ErrNotActive):
		return utils.Conflict(c, "Session is not active")
	case errors.Is(err, session.ErrClosed):
		return utils.NotFound(c, "Session not found")
	case errors.Is(err, session.ErrMissingAttempt):
		snap := s.Snapshot()
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Success: false,
			Error:   "Session Error",
			Message: snap.Error,
			Details: snap,
		})
	}

	snap := s.Snapshot()
	status := api.StatusCode(err)
	response := utils.ErrorResponse{
		Success: false,
		Error:   "Submit Failed",
		Message: snap.Notice,
		Details: snap,
	}
	if status == fiber.StatusUnauthorized {
		response.Redirect = utils.LoginRoute
	}
	return c.Status(status).JSON(response)
}

func (sc *SessionController) Unmount(c *fiber.Ctx) error {
	owner := middleware.Credential(c).Subject()
	if err := sc.manager.Unmount(owner, c.Params("id")); err != nil {
		return utils.NotFound(c, "Session not found")
	}
	return utils.NoContent(c)
}

// lookup finds the caller's session and binds its backend calls, the
// countdown's included, to the caller's credential.
func (sc *SessionController) lookup(c *fiber.Ctx) (*session.Session, bool) {
	cred := middleware.Credential(c)
	s, err := sc.manager.Get(cred.Subject(), c.Params("id"))
	if err != nil {
		return nil, false
	}
	s.Rebind(sc.Client.WithCredential(cred))
	return s, true
}

// renderSnapshot answers with a live session as data, a finished one as a
// redirect and a failed one as a gateway error.
func renderSnapshot(c *fiber.Ctx, status int, snap session.Snapshot) error {
	if !snap.State.Terminal() {
		return utils.Success(c, status, snap)
	}
	if snap.Redirect != "" {
		return utils.Redirect(c, snap.Redirect, snap)
	}
	return c.Status(fiber.StatusBadGateway).JSON(utils.ErrorResponse{
		Success: false,
		Error:   "Session Error",
		Message: snap.Error,
		Details: snap,
	})
}
