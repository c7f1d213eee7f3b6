package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"promptvault/internal/apperr"
	"promptvault/internal/guard"
)

// Login handles POST /api/auth/login. The body shape depends on the
// configured identity strategy: {"email"} for delegated identity,
// {"username","password"} for local credentials. Failures are always the same
// generic message.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	cred := guard.Credentials{Email: req.Email, Username: req.Username, Password: req.Password}
	if err := h.verifier.Verify(r.Context(), cred); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody("invalid credentials"))
		return
	}
	if err := h.sess.SetIdentity(w, r); err != nil {
		slog.Error("session save failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SubmitPIN handles POST /api/auth/pin. The identity check must already have
// passed. The submitted digits are fed through the PIN state machine one at a
// time, so lockout escalation behaves exactly as with keypad entry.
func (h *Handler) SubmitPIN(w http.ResponseWriter, r *http.Request) {
	identity, _ := h.sess.Flags(r)
	if !identity {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if len(req.PIN) != 4 {
		writeJSON(w, http.StatusBadRequest, errorBody("PIN must be 4 digits"))
		return
	}

	var st guard.Status
	var err error
	for i := 0; i < len(req.PIN); i++ {
		st, err = h.guard.Press(req.PIN[i])
		if err != nil {
			break
		}
	}

	switch {
	case errors.Is(err, apperr.ErrLocked):
		writeJSON(w, http.StatusLocked, map[string]any{
			"error":             "locked",
			"retryAfterSeconds": int(st.RetryAfter.Seconds()),
		})
		return
	case err != nil:
		body := map[string]any{"error": "incorrect PIN"}
		if st.RetryAfter > 0 {
			body["retryAfterSeconds"] = int(st.RetryAfter.Seconds())
		}
		writeJSON(w, http.StatusUnauthorized, body)
		return
	}

	if st.State != guard.Success {
		writeJSON(w, http.StatusUnauthorized, errorBody("incorrect PIN"))
		return
	}

	// Terminal Success consumed: arm the machine for the next session.
	h.guard.Reset()
	if err := h.sess.SetPIN(w, r); err != nil {
		slog.Error("session save failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AuthStatus handles GET /api/auth/status.
func (h *Handler) AuthStatus(w http.ResponseWriter, r *http.Request) {
	identity, pin := h.sess.Flags(r)
	st := h.guard.Status()
	writeJSON(w, http.StatusOK, AuthStatusResponse{
		IdentityVerified:  identity,
		PINVerified:       pin,
		GuardState:        st.State.String(),
		DigitsEntered:     st.Entered,
		RetryAfterSeconds: int(st.RetryAfter.Seconds()),
	})
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.guard.Reset()
	if err := h.sess.Clear(w, r); err != nil {
		slog.Error("session clear failed", slog.String("error", err.Error()))
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
