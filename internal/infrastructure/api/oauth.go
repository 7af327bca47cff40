package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"shopdash-gateway/internal/application"
	"shopdash-gateway/internal/config"
	"shopdash-gateway/internal/domain"
	"shopdash-gateway/internal/infrastructure/metrics"
)

// OAuthHandler exposes the begin and callback endpoints of the OAuth flow and
// owns the cookie handling around them.
type OAuthHandler struct {
	oauth   *application.OAuthService
	cfg     *config.Config
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewOAuthHandler creates the OAuth HTTP handler.
func NewOAuthHandler(oauth *application.OAuthService, cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{oauth: oauth, cfg: cfg, metrics: m, logger: logger}
}

// Begin starts the offline OAuth flow: GET /auth/shopify?shop=...
func (h *OAuthHandler) Begin(w http.ResponseWriter, r *http.Request) {
	h.begin(w, r, false)
}

// BeginOnline starts the interactive-user variant: GET /auth/shopify/online?shop=...
func (h *OAuthHandler) BeginOnline(w http.ResponseWriter, r *http.Request) {
	h.begin(w, r, true)
}

func (h *OAuthHandler) begin(w http.ResponseWriter, r *http.Request, isOnline bool) {
	shop := r.URL.Query().Get("shop")
	if shop == "" {
		writeError(w, http.StatusBadRequest, "Missing shop parameter")
		return
	}

	authURL, state, err := h.oauth.BeginAuth(shop)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidShopDomain) {
			writeError(w, http.StatusBadRequest, "Invalid shop domain")
			return
		}
		h.logger.Error().Err(err).Str("shop", shop).Msg("Failed to begin OAuth flow")
		writeError(w, http.StatusInternalServerError, "Authentication process failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     NonceCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.cfg.Production(),
	})
	if isOnline {
		http.SetCookie(w, &http.Cookie{
			Name:     OnlineCookie,
			Value:    "1",
			Path:     "/",
			MaxAge:   600,
			HttpOnly: true,
			Secure:   h.cfg.Production(),
		})
	}

	h.metrics.OAuthBegins.Inc()
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback completes the flow: GET /auth/callback?shop=...&code=...&state=...
// The CSRF check against the nonce cookie happens here, before anything
// touches the network; it is the sole defense against code injection.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	nonce, nonceErr := r.Cookie(NonceCookie)
	// The nonce is single-use; discard it whatever the outcome.
	h.clearCookie(w, NonceCookie)

	if shop == "" || code == "" {
		h.metrics.OAuthCallbacks.WithLabelValues("bad_request").Inc()
		writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	if nonceErr != nil || nonce.Value == "" || nonce.Value != state {
		h.logger.Warn().Str("shop", shop).Msg("OAuth state mismatch")
		h.metrics.OAuthCallbacks.WithLabelValues("state_mismatch").Inc()
		writeError(w, http.StatusForbidden, "State verification failed")
		return
	}

	isOnline := false
	if online, err := r.Cookie(OnlineCookie); err == nil && online.Value == "1" {
		isOnline = true
		h.clearCookie(w, OnlineCookie)
	}

	session, err := h.oauth.CompleteAuth(r.Context(), shop, code, state, isOnline)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidShopDomain) {
			h.metrics.OAuthCallbacks.WithLabelValues("bad_request").Inc()
			writeError(w, http.StatusBadRequest, "Invalid shop domain")
			return
		}
		h.logger.Error().Err(err).Str("shop", shop).Msg("OAuth callback failed")
		h.metrics.OAuthCallbacks.WithLabelValues("exchange_failed").Inc()
		writeError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     ShopCookie,
		Value:    session.Shop,
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cfg.Production(),
	})

	h.metrics.OAuthCallbacks.WithLabelValues("ok").Inc()
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *OAuthHandler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
