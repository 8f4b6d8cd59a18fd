// Package auth gates the app behind an authenticated principal and stores
// gateway credentials.
package auth

import (
	"context"
	"errors"
	"os"
	"os/user"
	"sync"
	"time"

	"github.com/pocketlist/pocketlist/internal/config"
	"github.com/pocketlist/pocketlist/internal/output"
)

// TokenEnv overrides stored credentials when set.
const TokenEnv = "POCKETLIST_TOKEN"

// Principal is the authenticated identity the gateway scopes data to.
type Principal struct {
	ID      string `json:"id"`
	Backend string `json:"backend"`
	// Source is where the identity came from: "os", "env" or "store".
	Source string `json:"source"`
}

// Status describes the current authentication state.
type Status struct {
	Backend       string `json:"backend"`
	Origin        string `json:"origin,omitempty"`
	Authenticated bool   `json:"authenticated"`
	Source        string `json:"source,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	Keyring       bool   `json:"keyring"`
}

// Gate resolves the principal for the configured backend.
// The local backend needs no credentials; the basecamp backend needs a token.
type Gate struct {
	cfg   *config.Config
	store *Store

	currentUser func() (*user.User, error)
	now         func() time.Time

	mu        sync.Mutex
	principal *Principal
}

// NewGate creates a gate for cfg backed by store.
func NewGate(cfg *config.Config, store *Store) *Gate {
	return &Gate{
		cfg:         cfg,
		store:       store,
		currentUser: user.Current,
		now:         time.Now,
	}
}

func (g *Gate) origin() string {
	return config.NormalizeBaseURL(g.cfg.BaseURL)
}

// Require returns the authenticated principal or an auth error.
// The result is cached for the life of the gate.
func (g *Gate) Require(ctx context.Context) (*Principal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.principal != nil {
		return g.principal, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var p *Principal
	switch g.cfg.Backend {
	case config.BackendBasecamp:
		_, src, creds, err := g.token()
		if err != nil {
			return nil, err
		}
		id := "me"
		if creds != nil && creds.UserID != "" {
			id = creds.UserID
		}
		p = &Principal{ID: id, Backend: g.cfg.Backend, Source: src}
	default:
		p = &Principal{ID: g.osUser(), Backend: g.cfg.Backend, Source: "os"}
	}

	g.principal = p
	return p, nil
}

func (g *Gate) osUser() string {
	if u, err := g.currentUser(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "default"
}

// AccessToken implements basecamp.TokenProvider.
func (g *Gate) AccessToken(ctx context.Context) (string, error) {
	tok, _, _, err := g.token()
	return tok, err
}

func (g *Gate) token() (string, string, *Credentials, error) {
	if tok := os.Getenv(TokenEnv); tok != "" {
		return tok, "env", nil, nil
	}
	creds, err := g.store.Load(g.origin())
	if err != nil {
		if errors.Is(err, ErrNoCredentials) {
			return "", "", nil, output.ErrAuth("Not authenticated")
		}
		return "", "", nil, &output.Error{Code: output.CodeAuth, Message: "Could not read credentials", Hint: err.Error(), Cause: err}
	}
	if creds.AccessToken == "" {
		return "", "", nil, output.ErrAuth("Stored credentials have no access token")
	}
	return creds.AccessToken, "store", creds, nil
}

// Login stores a token for the configured origin.
func (g *Gate) Login(token, userID string) error {
	if token == "" {
		return output.ErrUsage("token is required")
	}
	g.mu.Lock()
	g.principal = nil
	g.mu.Unlock()
	return g.store.Save(g.origin(), &Credentials{
		AccessToken: token,
		UserID:      userID,
		SavedAt:     g.now().Unix(),
	})
}

// Logout removes stored credentials for the configured origin.
func (g *Gate) Logout() error {
	g.mu.Lock()
	g.principal = nil
	g.mu.Unlock()
	return g.store.Delete(g.origin())
}

// Status reports whether Require would succeed, without caching.
func (g *Gate) Status() Status {
	st := Status{Backend: g.cfg.Backend, Keyring: g.store.UsingKeyring()}
	if g.cfg.Backend != config.BackendBasecamp {
		st.Authenticated = true
		st.Source = "os"
		st.UserID = g.osUser()
		return st
	}

	st.Origin = g.origin()
	if _, src, creds, err := g.token(); err == nil {
		st.Authenticated = true
		st.Source = src
		if creds != nil {
			st.UserID = creds.UserID
		}
	}
	return st
}
