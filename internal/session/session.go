package session

import (
	"context"
	"errors"

	"spacebook/internal/model"
	"spacebook/internal/store/draftdb"
)

const (
	keyToken  = "session_token"
	keyUserID = "user_id"
)

// Session is the logged-in account state.
type Session struct {
	UserID string
	Token  string
}

// Manager persists the current session in the local store. Drafts are
// always scoped to the session's user ID, so two accounts on the same
// device never see each other's drafts.
type Manager struct {
	db *draftdb.DB
}

func NewManager(db *draftdb.DB) *Manager { return &Manager{db: db} }

// Set stores the session after a successful login.
func (m *Manager) Set(ctx context.Context, userID, token string) error {
	if err := m.db.SetValue(ctx, keyUserID, userID); err != nil {
		return err
	}
	return m.db.SetValue(ctx, keyToken, token)
}

// Current returns the stored session, or ErrNotLoggedIn.
func (m *Manager) Current(ctx context.Context) (Session, error) {
	token, err := m.db.GetValue(ctx, keyToken)
	if errors.Is(err, draftdb.ErrNoValue) {
		return Session{}, model.ErrNotLoggedIn
	}
	if err != nil {
		return Session{}, err
	}
	userID, err := m.db.GetValue(ctx, keyUserID)
	if errors.Is(err, draftdb.ErrNoValue) {
		return Session{}, model.ErrNotLoggedIn
	}
	if err != nil {
		return Session{}, err
	}
	return Session{UserID: userID, Token: token}, nil
}

// Clear drops the stored session. Drafts are kept; they stay scoped
// to their owner's user ID.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.db.DeleteValue(ctx, keyToken); err != nil {
		return err
	}
	return m.db.DeleteValue(ctx, keyUserID)
}

// LoggedIn reports whether a session is stored.
func (m *Manager) LoggedIn(ctx context.Context) bool {
	_, err := m.Current(ctx)
	return err == nil
}
