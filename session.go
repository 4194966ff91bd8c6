package mboardweb

import (
	"context"
	"time"

	"github.com/goliatone/go-router"
)

// SessionStore is the single writer for both session channels: the
// access-token cookie the browser carries and the durable TokenStore
// record holding the refresh token. Nothing else in the application
// writes either channel.
type SessionStore struct {
	store          TokenStore
	revoker        SessionRevoker
	cfg            Config
	cookieDuration time.Duration
	revokeTimeout  time.Duration
	Logger         Logger
}

// SessionStoreOption configures a SessionStore.
type SessionStoreOption func(*SessionStore)

// WithSessionLogger sets the session store logger.
func WithSessionLogger(logger Logger) SessionStoreOption {
	return func(s *SessionStore) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithRevoker sets the remote revoker used during teardown.
func WithRevoker(revoker SessionRevoker) SessionStoreOption {
	return func(s *SessionStore) {
		s.revoker = revoker
	}
}

// WithRevokeTimeout bounds the teardown notification. Teardown must
// finish even when the directory service hangs.
func WithRevokeTimeout(d time.Duration) SessionStoreOption {
	return func(s *SessionStore) {
		if d > 0 {
			s.revokeTimeout = d
		}
	}
}

// NewSessionStore creates a SessionStore over a token store and config.
func NewSessionStore(store TokenStore, cfg Config, opts ...SessionStoreOption) *SessionStore {
	if store == nil {
		panic("Missing TokenStore in session store...")
	}
	if cfg == nil {
		panic("Missing Config in session store...")
	}

	cookieDuration := 24 * time.Hour
	if cfg.GetTokenExpiration() > 0 {
		cookieDuration = time.Duration(cfg.GetTokenExpiration()) * time.Hour
	}

	s := &SessionStore{
		store:          store,
		cfg:            cfg,
		cookieDuration: cookieDuration,
		revokeTimeout:  5 * time.Second,
		Logger:         defLogger{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SaveSession writes the durable record and the cookie in one call.
// The refresh token only ever touches the durable store. Any previous
// session for this browser is removed first so no read can observe a
// mixed pair.
func (s *SessionStore) SaveSession(c router.Context, accessToken, refreshToken string) error {
	if accessToken == "" {
		return ErrSessionNotFound
	}

	if prev := c.Cookies(s.cfg.GetTokenCookieName()); prev != "" && prev != accessToken {
		if err := s.store.Delete(c.Context(), prev); err != nil {
			s.Logger.Error("failed to drop previous session record", "error", err)
		}
	}

	record := &SessionRecord{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}

	if err := s.store.Save(c.Context(), record); err != nil {
		return err
	}

	s.setCookieToken(c, accessToken, s.cookieDuration)
	return nil
}

// AccessToken returns the access token from the cookie channel, "" when
// absent. It never errors.
func (s *SessionStore) AccessToken(c router.Context) string {
	return c.Cookies(s.cfg.GetTokenCookieName())
}

// RefreshToken returns the refresh token from the durable channel, ""
// when absent. Store failures degrade to "" rather than erroring.
func (s *SessionStore) RefreshToken(c router.Context) string {
	accessToken := s.AccessToken(c)
	if accessToken == "" {
		return ""
	}

	record, err := s.store.Get(c.Context(), accessToken)
	if err != nil {
		s.Logger.Error("failed to read session record", "error", err)
		return ""
	}
	if record == nil {
		return ""
	}

	return record.RefreshToken
}

// IsActive reports whether a session token is present. Presence only;
// an expired or garbage token still counts as active here.
func (s *SessionStore) IsActive(c router.Context) bool {
	return s.AccessToken(c) != ""
}

// ClearSession tears a session down: best-effort remote revocation with
// the refresh token, then an unconditional wipe of both channels. It is
// idempotent and never fails the caller.
func (s *SessionStore) ClearSession(c router.Context) {
	accessToken := s.AccessToken(c)

	if s.revoker != nil && accessToken != "" {
		if refreshToken := s.RefreshToken(c); refreshToken != "" {
			ctx, cancel := context.WithTimeout(c.Context(), s.revokeTimeout)
			if err := s.revoker.RevokeSession(ctx, refreshToken); err != nil {
				s.Logger.Info("session revoke failed, clearing anyway", "error", err)
			}
			cancel()
		}
	}

	if accessToken != "" {
		if err := s.store.Delete(c.Context(), accessToken); err != nil {
			s.Logger.Error("failed to delete session record", "error", err)
		}
	}

	s.cookieDel(c, s.cfg.GetTokenCookieName())
}

func (s *SessionStore) setCookieToken(c router.Context, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     s.cfg.GetTokenCookieName(),
		Value:    val,
		Path:     "/",
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   s.cfg.GetCookieSecure(),
		SameSite: "Lax",
	})
}

func (s *SessionStore) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   s.cfg.GetCookieSecure(),
		SameSite: "Lax",
	})
}
