// Package sessions binds login sessions to HTTP exchanges. A session is an
// account id carried by the anniv_session cookie; backends decide whether
// the cookie holds the id itself (signed) or a key into server-side storage.
package sessions

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/anniv/internal/common"
)

// ErrNoSession is returned when a request carries no valid session.
var ErrNoSession = errors.New("no session")

// Backend issues, resolves and revokes session tokens.
type Backend interface {
	Issue(ctx context.Context, accountID string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// Manager creates per-request session handles.
type Manager struct {
	backend Backend
	ttl     time.Duration
	secure  bool
}

// NewManager returns a Manager issuing cookies that live for ttl.
func NewManager(b Backend, ttl time.Duration, secure bool) *Manager {
	return &Manager{backend: b, ttl: ttl, secure: secure}
}

// Handle returns the session handle of one request.
func (m *Manager) Handle(w http.ResponseWriter, r *http.Request) *Handle {
	return &Handle{m: m, w: w, r: r}
}

// Handle is the session of a single request.
type Handle struct {
	m *Manager
	w http.ResponseWriter
	r *http.Request
}

// Set starts a session for accountID and sends its cookie.
func (h *Handle) Set(ctx context.Context, accountID string) error {
	token, err := h.m.backend.Issue(ctx, accountID)
	if err != nil {
		return err
	}
	http.SetCookie(h.w, h.m.cookie(token, int(h.m.ttl/time.Second)))
	return nil
}

// Clear expires the cookie and then revokes the session, if any. The cookie
// is expired even when the backend fails to revoke.
func (h *Handle) Clear(ctx context.Context) error {
	http.SetCookie(h.w, h.m.cookie("", -1))

	if c, err := h.r.Cookie(common.SessionCookieName); err == nil && c.Value != "" {
		if err := h.m.backend.Revoke(ctx, c.Value); err != nil {
			return err
		}
	}
	return nil
}

// AccountID returns the account bound to the request's session.
func (h *Handle) AccountID(ctx context.Context) (string, error) {
	c, err := h.r.Cookie(common.SessionCookieName)
	if err != nil || c.Value == "" {
		return "", ErrNoSession
	}
	return h.m.backend.Resolve(ctx, c.Value)
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
