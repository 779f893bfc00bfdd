package controllers

import (
	"fmt"

	"assignmentmate/backend/models"
	"assignmentmate/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type QuizController struct {
	*Upstream
}

func NewQuizController(upstream *Upstream) *QuizController {
	return &QuizController{Upstream: upstream}
}

func (qc *QuizController) ListQuizzes(c *fiber.Ctx) error {
	quizzes, err := qc.For(c).ListQuizzes(c.UserContext())
	if err != nil {
		return qc.readFailure(c, err, "Could not load quizzes.")
	}

	result := make([]fiber.Map, 0, len(quizzes))
	for _, quiz := range quizzes {
		result = append(result, fiber.Map{
			"id":           quiz.ID,
			"title":        quiz.Title,
			"topic":        quiz.Topic,
			"difficulty":   quiz.Difficulty,
			"questions":    len(quiz.Questions),
			"attempt_url":  fmt.Sprintf("/quiz/attempt/%d", quiz.ID),
			"attempts_url": fmt.Sprintf("/quiz/results/%d", quiz.ID),
		})
	}
	return utils.Success(c, fiber.StatusOK, result)
}

// GenerateQuiz godoc
// @Summary Generate a quiz
// @Description Asks the backend to generate a quiz and points the view at its attempt page
// @Tags quizzes
// @Accept json
// @Produce json
// @Param request body models.GenerateQuizInput true "Quiz parameters"
// @Success 200 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /quizzes/generate [post]
func (qc *QuizController) GenerateQuiz(c *fiber.Ctx) error {
	var input models.GenerateQuizInput
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	quiz, err := qc.For(c).GenerateQuiz(c.UserContext(), input)
	if err != nil {
		qc.Logger.Printf("generate quiz on %q: %v", input.Topic, err)
		return utils.UpstreamError(c, err)
	}
	return utils.Redirect(c, fmt.Sprintf("/quiz/attempt/%d", quiz.ID), fiber.Map{
		"id":    quiz.ID,
		"title": quiz.Title,
	})
}

func (qc *QuizController) ListAttempts(c *fiber.Ctx) error {
	quizID, ok := intParam(c, "quizId")
	if !ok {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	attempts, err := qc.For(c).ListAttempts(c.UserContext(), quizID)
	if err != nil {
		return qc.readFailure(c, err, "Could not load attempts.")
	}

	result := make([]fiber.Map, 0, len(attempts))
	for _, attempt := range attempts {
		result = append(result, fiber.Map{
			"id":           attempt.ID,
			"score":        attempt.Score,
			"completed_at": attempt.CompletedAt,
			"results_url":  fmt.Sprintf("/quiz/results/%d/%d", quizID, attempt.ID),
		})
	}

	// An empty history invites the caller to take the quiz.
	if len(result) == 0 {
		return utils.Success(c, fiber.StatusOK, result, fiber.Map{
			"attempt_url": fmt.Sprintf("/quiz/attempt/%d", quizID),
		})
	}
	return utils.Success(c, fiber.StatusOK, result)
}

func (qc *QuizController) GetResult(c *fiber.Ctx) error {
	quizID, ok := intParam(c, "quizId")
	if !ok {
		return utils.BadRequest(c, "Invalid quiz ID")
	}
	attemptID, ok := intParam(c, "attemptId")
	if !ok {
		return utils.BadRequest(c, "Invalid attempt ID")
	}

	result, err := qc.For(c).GetResult(c.UserContext(), quizID, attemptID)
	if err != nil {
		return utils.UpstreamError(c, err)
	}

	var score float64
	if result.Score != nil {
		score = *result.Score
	}
	incorrect := result.IncorrectQuestions
	if incorrect == nil {
		incorrect = []models.IncorrectQuestion{}
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"attempt_id":          result.ID,
		"quiz_id":             quizID,
		"score":               score,
		"time_taken":          result.TimeTaken,
		"incorrect_questions": incorrect,
		"all_correct":         len(incorrect) == 0,
		"history_url":         "/quiz/history",
	})
}
