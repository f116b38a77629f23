package model

import "time"

// Draft is a locally stored, not-yet-published post. The ID is
// assigned by the store at creation time and is the only handle other
// components may use to refer to a draft; positions in a listing are
// not stable across deletes.
type Draft struct {
	ID        int64
	UserID    string
	Text      string
	CreatedAt time.Time
}

// User represents a subset of Spacebook user fields used by the client.
type User struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	FriendCount int
}

// Post represents a post on a user's profile.
type Post struct {
	ID        string
	Author    User
	Text      string
	Timestamp time.Time
	Likes     int
}

// FriendRequest is an incoming friend request.
type FriendRequest struct {
	UserID    string
	FirstName string
	LastName  string
	Email     string
}

// JobState is the lifecycle state of a scheduled publish job.
// A job is terminal in every state except JobArmed.
type JobState int

const (
	JobArmed JobState = iota
	JobFiredSuccess
	JobFiredFailure
	JobCanceled
)

func (s JobState) String() string {
	switch s {
	case JobArmed:
		return "armed"
	case JobFiredSuccess:
		return "fired-success"
	case JobFiredFailure:
		return "fired-failure"
	case JobCanceled:
		return "canceled"
	}
	return "unknown"
}
