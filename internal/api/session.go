package api

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName     = "promptvault-session"
	identityFlagKey = "identity_ok"
	pinFlagKey      = "pin_ok"
)

// Sessions wraps the cookie session store that carries the two admin gate
// flags. MaxAge 0 makes the cookie session-scoped: closing the browser drops
// both flags, so identity and PIN must be re-proven next visit.
type Sessions struct {
	store sessions.Store
}

// NewSessions builds a cookie-backed session store from the configured secret.
func NewSessions(secret string) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

// Flags returns the identity-verified and PIN-verified flags for the request.
func (s *Sessions) Flags(r *http.Request) (identity, pin bool) {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		return false, false
	}
	identity, _ = session.Values[identityFlagKey].(bool)
	pin, _ = session.Values[pinFlagKey].(bool)
	return identity, pin
}

// SetIdentity marks the identity check as passed for this session.
func (s *Sessions) SetIdentity(w http.ResponseWriter, r *http.Request) error {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		return err
	}
	session.Values[identityFlagKey] = true
	return session.Save(r, w)
}

// SetPIN marks the PIN check as passed for this session.
func (s *Sessions) SetPIN(w http.ResponseWriter, r *http.Request) error {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		return err
	}
	session.Values[pinFlagKey] = true
	return session.Save(r, w)
}

// Clear drops both flags and expires the cookie. Used on logout.
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		return err
	}
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
