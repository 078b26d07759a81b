package placesapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/samirrijal/placemap/internal/core/domain"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userJSON struct {
	ID       json.RawMessage `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
}

// authResponse accepts either token or accessToken, and an optional user.
type authResponse struct {
	User        *userJSON `json:"user"`
	Token       string    `json:"token"`
	AccessToken string    `json:"accessToken"`
}

func (r authResponse) toDomain(fallback domain.User) *domain.AuthResult {
	res := &domain.AuthResult{User: fallback, Token: r.Token}
	if r.User != nil {
		res.User = domain.User{ID: rawID(r.User.ID), Username: r.User.Username, Email: r.User.Email}
	}
	if res.Token == "" {
		res.Token = r.AccessToken
	}
	return res
}

// Login posts to /api/auth/login.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	var resp authResponse
	err := c.do(ctx, call{
		op:     "auth.login",
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   loginRequest{Username: username, Password: password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.toDomain(domain.User{Username: username}), nil
}

// Register posts to /api/auth/register.
func (c *Client) Register(ctx context.Context, username, email, password string) (*domain.AuthResult, error) {
	var resp authResponse
	err := c.do(ctx, call{
		op:     "auth.register",
		method: http.MethodPost,
		path:   "/api/auth/register",
		body:   registerRequest{Username: username, Email: email, Password: password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.toDomain(domain.User{Username: username, Email: email}), nil
}
