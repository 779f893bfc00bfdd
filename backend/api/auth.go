package api

import (
	"context"
	"net/http"

	"assignmentmate/backend/models"
)

func (c *Client) ObtainToken(ctx context.Context, input models.LoginInput) (*models.TokenPair, error) {
	var pair models.TokenPair
	if err := c.do(ctx, http.MethodPost, "/api/token/", nil, input, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (c *Client) RefreshToken(ctx context.Context, refresh string) (*models.TokenPair, error) {
	payload := map[string]string{"refresh": refresh}

	var pair models.TokenPair
	if err := c.do(ctx, http.MethodPost, "/api/token/refresh/", nil, payload, &pair); err != nil {
		return nil, err
	}
	if pair.Refresh == "" {
		pair.Refresh = refresh
	}
	return &pair, nil
}

func (c *Client) Signup(ctx context.Context, input models.SignupInput) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/api/quiz/signup/", nil, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
