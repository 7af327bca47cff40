package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"shopdash-gateway/internal/application"
	"shopdash-gateway/internal/config"
	"shopdash-gateway/internal/infrastructure/metrics"
)

// GraphQLProxy forwards browser GraphQL requests to the shop's Admin API with
// the stored access token attached. The body is forwarded verbatim; the query
// text is syntax-checked first, without re-encoding what goes upstream.
type GraphQLProxy struct {
	sessions   *application.SessionService
	cfg        *config.Config
	metrics    *metrics.Metrics
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewGraphQLProxy creates the proxy handler.
func NewGraphQLProxy(sessions *application.SessionService, cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) *GraphQLProxy {
	return &GraphQLProxy{
		sessions:   sessions,
		cfg:        cfg,
		metrics:    m,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Handle serves POST /api/graphql.
func (p *GraphQLProxy) Handle(w http.ResponseWriter, r *http.Request) {
	shopCookie, err := r.Cookie(ShopCookie)
	if err != nil || shopCookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "No shop found in cookies")
		return
	}
	shop := shopCookie.Value

	sessionID := p.sessions.DeriveSessionID(shop)
	session, err := p.sessions.LoadSession(r.Context(), sessionID)
	if err != nil || !session.IsAuthenticated() {
		writeError(w, http.StatusUnauthorized, "No session found")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	defer r.Body.Close()

	var req struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(body, &req); err != nil || req.Query == "" {
		writeError(w, http.StatusBadRequest, "Malformed GraphQL request")
		return
	}
	if _, err := parser.ParseQuery(&ast.Source{Input: req.Query}); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed GraphQL query")
		return
	}

	upstreamURL := fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shop, p.cfg.APIVersion)
	upstreamReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, upstreamURL, bytes.NewReader(body))
	if err != nil {
		p.logger.Error().Err(err).Str("shop", shop).Msg("Failed to build upstream request")
		writeError(w, http.StatusInternalServerError, "GraphQL request failed")
		return
	}
	upstreamReq.Header.Set("Content-Type", "application/json")
	upstreamReq.Header.Set("X-Shopify-Access-Token", session.AccessToken)

	resp, err := p.httpClient.Do(upstreamReq)
	if err != nil {
		p.logger.Error().Err(err).Str("shop", shop).Msg("Upstream GraphQL request failed")
		writeError(w, http.StatusInternalServerError, "GraphQL request failed")
		return
	}
	defer resp.Body.Close()

	p.metrics.GraphQLProxied.Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}
