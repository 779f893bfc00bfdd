package controllers

import (
	"assignmentmate/backend/api"
	"assignmentmate/backend/models"
	"assignmentmate/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	*Upstream
}

func NewAuthController(upstream *Upstream) *AuthController {
	return &AuthController{Upstream: upstream}
}

// Login godoc
// @Summary User login
// @Description Exchanges credentials for the backend token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginInput true "Login credentials"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input models.LoginInput
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	pair, err := ac.Client.ObtainToken(c.UserContext(), input)
	if err != nil {
		if api.Classify(err) == api.KindUnauthenticated {
			return utils.Unauthorized(c, "Invalid credentials.")
		}
		return utils.UpstreamError(c, err)
	}

	return utils.Redirect(c, "/quizzes", pair)
}

func (ac *AuthController) Refresh(c *fiber.Ctx) error {
	var input struct {
		Refresh string `json:"refresh" validate:"required"`
	}
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	pair, err := ac.Client.RefreshToken(c.UserContext(), input.Refresh)
	if err != nil {
		return utils.UpstreamError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, pair)
}

// Signup godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param user body models.SignupInput true "User registration data"
// @Success 200 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/signup [post]
func (ac *AuthController) Signup(c *fiber.Ctx) error {
	var input models.SignupInput
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	user, err := ac.Client.Signup(c.UserContext(), input)
	if err != nil {
		return utils.UpstreamError(c, err)
	}
	return utils.Redirect(c, utils.LoginRoute, user)
}
