package controllers

import (
	"assignmentmate/backend/history"
	"assignmentmate/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type HistoryController struct {
	*Upstream
}

func NewHistoryController(upstream *Upstream) *HistoryController {
	return &HistoryController{Upstream: upstream}
}

func (hc *HistoryController) GetHistory(c *fiber.Ctx) error {
	page := history.NormalizePage(c.QueryInt("page", 1))

	data, err := hc.For(c).History(c.UserContext(), page)
	if err != nil {
		return hc.readFailure(c, err, "Could not load quiz history.")
	}
	return utils.Success(c, fiber.StatusOK, history.Build(page, data))
}
