package api

import (
	"context"
	"net/http"

	"github.com/0x0BSoD/am5tv/internal/model"
)

type AuthResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         model.User `json:"user"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.sendJSON(ctx, "login", http.MethodPost, "/api/auth/login", authNone,
		credentials{Email: email, Password: password}, &out)
	if err != nil {
		return AuthResponse{}, err
	}
	if out.AccessToken == "" {
		return AuthResponse{}, ErrMalformed
	}
	return out, nil
}

// LoginAdmin logs in and fails with ErrNotAdmin unless the account has the
// admin role.
func (c *Client) LoginAdmin(ctx context.Context, email, password string) (AuthResponse, error) {
	out, err := c.Login(ctx, email, password)
	if err != nil {
		return AuthResponse{}, err
	}
	if !out.User.IsAdmin() {
		return AuthResponse{}, ErrNotAdmin
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, reg model.Registration) error {
	if err := reg.Validate(); err != nil {
		return err
	}
	return c.sendJSON(ctx, "register", http.MethodPost, "/api/auth/register", authNone, reg, nil)
}

// VerifyOTP confirms a registration. The backend logs the account in on
// success; ok is false when it answered without a session.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (resp AuthResponse, ok bool, err error) {
	err = c.sendJSON(ctx, "verify", http.MethodPost, "/api/auth/verify", authNone,
		map[string]string{"email": email, "otp": otp}, &resp)
	if err != nil {
		return AuthResponse{}, false, err
	}
	return resp, resp.AccessToken != "" && resp.User.Email != "", nil
}

func (c *Client) Me(ctx context.Context) (model.User, error) {
	var out model.User
	if err := c.getJSON(ctx, "me", "/api/users/me", nil, authUser, &out); err != nil {
		return model.User{}, err
	}
	return out, nil
}
