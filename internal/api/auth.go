package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Credentials are the login/signup identity fields.
type Credentials struct {
	Email    string
	Password string
}

// LoginResult is the session the server grants on login.
type LoginResult struct {
	UserID string
	Token  string
}

// Register creates a new account and returns its user ID.
func (c *Client) Register(ctx context.Context, firstName, lastName string, creds Credentials) (string, error) {
	body := map[string]string{
		"first_name": firstName,
		"last_name":  lastName,
		"email":      creds.Email,
		"password":   creds.Password,
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/user", body)
	if err != nil {
		return "", err
	}
	resp, err := c.do(ctx, req, "/user", http.StatusCreated)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var raw struct {
		ID json.Number `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", err
	}
	return raw.ID.String(), nil
}

// Login exchanges credentials for a session token. The token is not
// installed on the client; callers decide whether to keep it.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	body := map[string]string{"email": creds.Email, "password": creds.Password}
	req, err := c.newRequest(ctx, http.MethodPost, "/login", body)
	if err != nil {
		return LoginResult{}, err
	}
	resp, err := c.do(ctx, req, "/login", http.StatusOK)
	if err != nil {
		return LoginResult{}, err
	}
	defer resp.Body.Close()
	var raw struct {
		ID    json.Number `json:"id"`
		Token string      `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{UserID: raw.ID.String(), Token: raw.Token}, nil
}

// Logout invalidates the current session token server-side.
func (c *Client) Logout(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/logout", nil)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, req, "/logout", http.StatusOK)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func escape(s string) string { return url.PathEscape(s) }
