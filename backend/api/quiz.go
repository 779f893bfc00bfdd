package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"assignmentmate/backend/models"
)

func (c *Client) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := c.do(ctx, http.MethodGet, "/api/quiz/quizzes/", nil, nil, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (c *Client) GenerateQuiz(ctx context.Context, input models.GenerateQuizInput) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := c.do(ctx, http.MethodPost, "/api/quiz/generate/", nil, input, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// StartQuiz returns the open attempt for the quiz, creating one when none
// exists. A completed attempt may come back when the backend says so.
func (c *Client) StartQuiz(ctx context.Context, quizID int) (*models.Attempt, error) {
	var attempt models.Attempt
	path := fmt.Sprintf("/api/quiz/start/%d/", quizID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &attempt); err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (c *Client) SubmitAttempt(ctx context.Context, attemptID int, answers []models.Answer) (*models.Attempt, error) {
	if answers == nil {
		answers = []models.Answer{}
	}
	payload := struct {
		Answers []models.Answer `json:"answers"`
	}{Answers: answers}

	var attempt models.Attempt
	path := fmt.Sprintf("/api/quiz/submit/%d/", attemptID)
	if err := c.do(ctx, http.MethodPost, path, nil, payload, &attempt); err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (c *Client) ListAttempts(ctx context.Context, quizID int) ([]models.Attempt, error) {
	var attempts []models.Attempt
	path := fmt.Sprintf("/api/quiz/results/%d/", quizID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

func (c *Client) GetResult(ctx context.Context, quizID, attemptID int) (*models.AttemptResult, error) {
	var result models.AttemptResult
	path := fmt.Sprintf("/api/quiz/results/%d/%d/", quizID, attemptID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) History(ctx context.Context, page int) (*models.HistoryPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))

	var history models.HistoryPage
	if err := c.do(ctx, http.MethodGet, "/api/quiz/history/", query, nil, &history); err != nil {
		return nil, err
	}
	return &history, nil
}
