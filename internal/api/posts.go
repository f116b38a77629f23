package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"spacebook/internal/model"
)

type rawPost struct {
	PostID    json.Number `json:"post_id"`
	Text      string      `json:"text"`
	Timestamp string      `json:"timestamp"`
	Author    rawUser     `json:"author"`
	NumLikes  int         `json:"numLikes"`
}

func (r rawPost) toModel() model.Post {
	ts, _ := time.Parse(time.RFC3339, r.Timestamp)
	return model.Post{
		ID:        r.PostID.String(),
		Author:    r.Author.toModel(),
		Text:      r.Text,
		Timestamp: ts,
		Likes:     r.NumLikes,
	}
}

// CreatePost submits a new post to the user's profile. Success is
// HTTP 201 only; 401 surfaces as AuthError so the caller can redirect
// to login, anything else as PublishError.
func (c *Client) CreatePost(ctx context.Context, userID, text string) error {
	path := "/user/" + escape(userID) + "/post"
	req, err := c.newRequest(ctx, http.MethodPost, path, map[string]string{"text": text})
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, req, path, http.StatusCreated)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// GetPosts returns the posts on a user's profile.
func (c *Client) GetPosts(ctx context.Context, userID string) ([]model.Post, error) {
	path := "/user/" + escape(userID) + "/post"
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, req, path, http.StatusOK)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var raw []rawPost
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	out := make([]model.Post, 0, len(raw))
	for _, p := range raw {
		out = append(out, p.toModel())
	}
	return out, nil
}

// GetPost returns a single post.
func (c *Client) GetPost(ctx context.Context, userID, postID string) (model.Post, error) {
	path := "/user/" + escape(userID) + "/post/" + escape(postID)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return model.Post{}, err
	}
	resp, err := c.do(ctx, req, path, http.StatusOK)
	if err != nil {
		return model.Post{}, err
	}
	defer resp.Body.Close()
	var raw rawPost
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return model.Post{}, err
	}
	return raw.toModel(), nil
}

// UpdatePost rewrites the text of an existing post.
func (c *Client) UpdatePost(ctx context.Context, userID, postID, text string) error {
	path := "/user/" + escape(userID) + "/post/" + escape(postID)
	req, err := c.newRequest(ctx, http.MethodPatch, path, map[string]string{"text": text})
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, req, path, http.StatusOK)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// DeletePost removes a post from a profile.
func (c *Client) DeletePost(ctx context.Context, userID, postID string) error {
	path := "/user/" + escape(userID) + "/post/" + escape(postID)
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

// LikePost likes a friend's post.
func (c *Client) LikePost(ctx context.Context, userID, postID string) error {
	path := "/user/" + escape(userID) + "/post/" + escape(postID) + "/like"
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

// UnlikePost removes a like from a friend's post.
func (c *Client) UnlikePost(ctx context.Context, userID, postID string) error {
	path := "/user/" + escape(userID) + "/post/" + escape(postID) + "/like"
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
