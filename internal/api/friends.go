package api

import (
	"context"
	"encoding/json"
	"net/http"

	"spacebook/internal/model"
)

// GetFriends returns a user's friends list.
func (c *Client) GetFriends(ctx context.Context, userID string) ([]model.User, error) {
	path := "/user/" + escape(userID) + "/friends"
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, req, path, http.StatusOK)
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

// SendFriendRequest asks another user to become a friend.
func (c *Client) SendFriendRequest(ctx context.Context, userID string) error {
	path := "/user/" + escape(userID) + "/friends"
	req, err := c.newRequest(ctx, http.MethodPost, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, req, path, http.StatusCreated)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// GetFriendRequests returns requests waiting on the logged-in user.
func (c *Client) GetFriendRequests(ctx context.Context) ([]model.FriendRequest, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/friendrequests", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, req, "/friendrequests", http.StatusOK)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var raw []struct {
		UserID    json.Number `json:"user_id"`
		FirstName string      `json:"first_name"`
		LastName  string      `json:"last_name"`
		Email     string      `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	out := make([]model.FriendRequest, 0, len(raw))
	for _, r := range raw {
		out = append(out, model.FriendRequest{
			UserID:    r.UserID.String(),
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
		})
	}
	return out, nil
}

// AcceptFriendRequest accepts a pending request from userID.
func (c *Client) AcceptFriendRequest(ctx context.Context, userID string) error {
	path := "/friendrequests/" + escape(userID)
	req, err := c.newRequest(ctx, http.MethodPost, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, req, path, http.StatusOK)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// RejectFriendRequest declines a pending request from userID.
func (c *Client) RejectFriendRequest(ctx context.Context, userID string) error {
	path := "/friendrequests/" + escape(userID)
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, req, path, http.StatusOK)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}
