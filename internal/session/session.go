// Package session tracks the bearer token in client-side storage and the
// login state derived from it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alfredjeanlab/automa/internal/model"
)

// TokenKey is the storage key holding the bearer token.
const TokenKey = "automa_token"

// ErrAnonymous is returned by Refresh when no token is stored.
var ErrAnonymous = errors.New("not logged in")

// Tokens reads and writes the persisted bearer token. It satisfies
// client.TokenSource.
type Tokens struct {
	storage Storage
}

// NewTokens wraps storage.
func NewTokens(storage Storage) *Tokens {
	return &Tokens{storage: storage}
}

// Token returns the persisted token, or "" when none is stored or the
// storage cannot be read.
func (t *Tokens) Token() string {
	tok, err := t.storage.Get(TokenKey)
	if err != nil {
		return ""
	}
	return tok
}

// Save persists tok.
func (t *Tokens) Save(tok string) error {
	return t.storage.Set(TokenKey, tok)
}

// Purge removes the persisted token.
func (t *Tokens) Purge() error {
	return t.storage.Remove(TokenKey)
}

// State is the login state of the client.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticated
	// StateInvalidated is an authenticated session that was torn down by a
	// failed identity check or an explicit logout.
	StateInvalidated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateInvalidated:
		return "invalidated"
	default:
		return "anonymous"
	}
}

// Session is a live login.
type Session struct {
	Token string
}

// Authenticator is the part of the API the session manager needs.
type Authenticator interface {
	Login(ctx context.Context, creds model.Credentials) (*model.Token, error)
	Me(ctx context.Context) (*model.User, error)
}

// Manager owns the session lifecycle: login, current, invalidate.
type Manager struct {
	tokens *Tokens
	auth   Authenticator
	logger *slog.Logger

	mu          sync.Mutex
	invalidated bool
}

// NewManager creates a Manager. A nil logger uses slog.Default().
func NewManager(tokens *Tokens, auth Authenticator, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{tokens: tokens, auth: auth, logger: logger}
}

// Tokens returns the token store the manager writes to.
func (m *Manager) Tokens() *Tokens { return m.tokens }

// Login exchanges credentials for a token and persists it.
func (m *Manager) Login(ctx context.Context, creds model.Credentials) (*Session, error) {
	tok, err := m.auth.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	if err := m.tokens.Save(tok.AccessToken); err != nil {
		return nil, fmt.Errorf("saving token: %w", err)
	}
	m.mu.Lock()
	m.invalidated = false
	m.mu.Unlock()
	m.logger.Debug("session started", "username", creds.Username)
	return &Session{Token: tok.AccessToken}, nil
}

// Current returns the stored session, if any.
func (m *Manager) Current() (*Session, bool) {
	tok := m.tokens.Token()
	if tok == "" {
		return nil, false
	}
	return &Session{Token: tok}, true
}

// Invalidate drops the stored token.
func (m *Manager) Invalidate() error {
	_, had := m.Current()
	if err := m.tokens.Purge(); err != nil {
		return fmt.Errorf("removing token: %w", err)
	}
	if had {
		m.mu.Lock()
		m.invalidated = true
		m.mu.Unlock()
	}
	return nil
}

// State reports the current login state.
func (m *Manager) State() State {
	if _, ok := m.Current(); ok {
		return StateAuthenticated
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.invalidated {
		return StateInvalidated
	}
	return StateAnonymous
}

// Refresh resolves the user behind the stored token. With no token it
// returns ErrAnonymous without calling the API. Any failure of the identity
// call purges the token; this is the only automatic invalidation path.
func (m *Manager) Refresh(ctx context.Context) (*model.User, error) {
	if _, ok := m.Current(); !ok {
		return nil, ErrAnonymous
	}
	u, err := m.auth.Me(ctx)
	if err != nil {
		if perr := m.Invalidate(); perr != nil {
			m.logger.Warn("failed to purge token", "err", perr)
		}
		m.logger.Info("session invalidated", "reason", err)
		return nil, fmt.Errorf("refreshing session: %w", err)
	}
	return u, nil
}
