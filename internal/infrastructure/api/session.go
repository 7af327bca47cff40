package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"shopdash-gateway/internal/application"
)

// SessionHandler serves the session read and validation endpoints backing the
// dashboard.
type SessionHandler struct {
	sessions *application.SessionService
	logger   zerolog.Logger
}

// NewSessionHandler creates the session HTTP handler.
func NewSessionHandler(sessions *application.SessionService, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// GetSession returns the non-secret session projection: GET /api/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	shopCookie, err := r.Cookie(ShopCookie)
	if err != nil || shopCookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "No shop cookie found")
		return
	}

	sessionID := h.sessions.DeriveSessionID(shopCookie.Value)
	session, err := h.sessions.LoadSession(r.Context(), sessionID)
	if err != nil || !session.IsAuthenticated() {
		writeError(w, http.StatusUnauthorized, "Invalid session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"shop":    shopCookie.Value,
		"session": session.Redacted(),
	})
}

// ValidateSession reports whether the cookie-identified shop has a usable
// session: GET /api/validate-session
func (h *SessionHandler) ValidateSession(w http.ResponseWriter, r *http.Request) {
	shopCookie, err := r.Cookie(ShopCookie)
	if err != nil || shopCookie.Value == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"valid": false, "error": "No shop cookie"})
		return
	}

	sessionID := h.sessions.DeriveSessionID(shopCookie.Value)
	session, err := h.sessions.LoadSession(r.Context(), sessionID)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"valid": false, "error": "No session found"})
		return
	}
	if !session.IsAuthenticated() {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"valid": false, "error": "No access token"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "shop": shopCookie.Value})
}
