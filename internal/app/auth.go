// internal/app/auth.go
package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/quizdash/internal/metrics"
)

var ErrWrongPassword = errors.New("wrong password")

// Session is the per-visitor context handed to every page renderer.
type Session struct {
	ID            string
	Authenticated bool
}

// Auth gates the dashboard behind one shared password.
type Auth struct {
	password   string
	store      SessionStore
	ttl        time.Duration
	cookieName string
	secure     bool
}

func NewAuth(config *Config) (*Auth, error) {
	var store SessionStore = NewMemorySessionStore()
	if config.Auth.RedisURL != "" {
		redisStore, err := NewRedisSessionStore(config.Auth.RedisURL, config.Auth.SessionKeyTemplate)
		if err != nil {
			return nil, err
		}
		store = redisStore
	}

	return &Auth{
		password:   config.Auth.Password,
		store:      store,
		ttl:        config.SessionTTL(),
		cookieName: config.Auth.CookieName,
		secure:     config.Auth.SecureCookie,
	}, nil
}

func (a *Auth) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Login checks password and opens a session when it matches. A mismatch
// returns ErrWrongPassword and an unauthenticated session.
func (a *Auth) Login(ctx context.Context, password string) (Session, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) != 1 {
		metrics.LoginAttempts.WithLabelValues("denied").Inc()
		return Session{}, ErrWrongPassword
	}

	id, err := a.store.Create(ctx, a.ttl)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return Session{}, fmt.Errorf("failed to open session: %w", err)
	}
	metrics.LoginAttempts.WithLabelValues("ok").Inc()
	return Session{ID: id, Authenticated: true}, nil
}

// SessionFromRequest resolves the session cookie. Store errors are logged
// and treated as not authenticated.
func (a *Auth) SessionFromRequest(r *http.Request) Session {
	cookie, err := r.Cookie(a.cookieName)
	if err != nil || cookie.Value == "" {
		return Session{}
	}

	ok, err := a.store.Exists(r.Context(), cookie.Value)
	if err != nil {
		logger.Error.Printf("Session lookup failed: %v", err)
		return Session{}
	}
	if !ok {
		return Session{}
	}
	return Session{ID: cookie.Value, Authenticated: true}
}

func (a *Auth) Logout(ctx context.Context, sess Session) error {
	if sess.ID == "" {
		return nil
	}
	return a.store.Delete(ctx, sess.ID)
}

// Cookie returns the cookie carrying sess to the browser.
func (a *Auth) Cookie(sess Session) *http.Cookie {
	return &http.Cookie{
		Name:     a.cookieName,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(a.ttl.Seconds()),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires the session cookie.
func (a *Auth) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
