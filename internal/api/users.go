package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"spacebook/internal/model"
)

type rawUser struct {
	UserID      json.Number `json:"user_id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	FriendCount int         `json:"friend_count"`
}

func (r rawUser) toModel() model.User {
	return model.User{
		ID:          r.UserID.String(),
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		FriendCount: r.FriendCount,
	}
}

// GetUser fetches a user's profile.
func (c *Client) GetUser(ctx context.Context, userID string) (model.User, error) {
	path := "/user/" + escape(userID)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return model.User{}, err
	}
	resp, err := c.do(ctx, req, path, http.StatusOK)
	if err != nil {
		return model.User{}, err
	}
	defer resp.Body.Close()
	var raw rawUser
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return model.User{}, err
	}
	return raw.toModel(), nil
}

// UserUpdate carries the profile fields to change; empty fields are
// left out of the request.
type UserUpdate struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UpdateUser patches the logged-in user's profile.
func (c *Client) UpdateUser(ctx context.Context, userID string, upd UserUpdate) error {
	body := map[string]string{}
	if upd.FirstName != "" {
		body["first_name"] = upd.FirstName
	}
	if upd.LastName != "" {
		body["last_name"] = upd.LastName
	}
	if upd.Email != "" {
		body["email"] = upd.Email
	}
	if upd.Password != "" {
		body["password"] = upd.Password
	}
	if len(body) == 0 {
		return &model.ValidationError{Field: "update", Message: "no fields to update"}
	}
	path := "/user/" + escape(userID)
	req, err := c.newRequest(ctx, http.MethodPatch, path, body)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, req, path, http.StatusOK)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// GetProfilePhoto returns the raw image bytes of a user's photo.
func (c *Client) GetProfilePhoto(ctx context.Context, userID string) ([]byte, error) {
	path := "/user/" + escape(userID) + "/photo"
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, req, path, http.StatusOK)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// UploadProfilePhoto replaces the logged-in user's photo with the
// given PNG bytes.
func (c *Client) UploadProfilePhoto(ctx context.Context, userID string, png []byte) error {
	path := "/user/" + escape(userID) + "/photo"
	req, err := c.newRequest(ctx, http.MethodPost, path, nil)
	if err != nil {
		return err
	}
	req.Body = io.NopCloser(bytes.NewReader(png))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(png)), nil
	}
	req.ContentLength = int64(len(png))
	req.Header.Set("Content-Type", "image/png")
	resp, err := c.do(ctx, req, path, http.StatusOK)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// SearchUsers searches all users by a free-text query.
func (c *Client) SearchUsers(ctx context.Context, query string, limit int) ([]model.User, error) {
	path := fmt.Sprintf("/search?q=%s&limit=%d", escape(query), clamp(limit, 1, 20))
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, req, "/search", http.StatusOK)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var raw []rawUser
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	out := make([]model.User, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.toModel())
	}
	return out, nil
}
