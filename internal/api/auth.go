package api

import (
	"context"
	"net/http"
)

// AuthClient logs the admin in and out.
type AuthClient struct {
	c *Client
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token and stores it. It returns false when
// the backend answered without a token. On error the store is left untouched.
func (a *AuthClient) Login(ctx context.Context, username, password string) (bool, error) {
	var resp loginResponse
	err := a.c.do(ctx, public, http.MethodPost, "/auth/login",
		loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		a.c.log.Warn(logModule, "login failed", map[string]any{"username": username, "error": err.Error()})
		return false, err
	}
	if resp.Token == "" {
		return false, nil
	}
	a.c.session.Set(resp.Token)
	a.c.log.Info(logModule, "logged in", map[string]any{"username": username})
	return true, nil
}

// Logout drops the stored token. No backend call is made.
func (a *AuthClient) Logout() {
	a.c.session.Clear()
}
