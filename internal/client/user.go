package client

import (
	"context"
	"errors"
	"net/http"

	"energy-cli/internal/session"
	"energy-cli/pkg/models"
)

// Login authenticates and stores the returned token and role in the session,
// so every later request on this client is authorized.
func (c *EnergyClient) Login(ctx context.Context, form models.LoginForm) (models.LoginResult, error) {
	var result models.LoginResult
	if err := c.call(ctx, c.HTTP.R().SetBody(form), http.MethodPost, "/user/user/login", &result); err != nil {
		return models.LoginResult{}, err
	}

	if result.Token == "" {
		return models.LoginResult{}, errors.New("login successful but no token returned")
	}

	if err := c.session.Set(result.Token, session.Role(result.Role)); err != nil {
		return result, err
	}
	return result, nil
}

// Logout drops the session locally. The API has no logout endpoint.
func (c *EnergyClient) Logout() error {
	return c.session.Clear()
}
