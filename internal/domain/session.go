package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Session represents one authorized connection between the app and a shop.
// A session is only valid once the token exchange has completed; before that
// it is a placeholder and must never be persisted.
type Session struct {
	ID          string `json:"id"`
	Shop        string `json:"shop"`
	State       string `json:"state"`
	IsOnline    bool   `json:"isOnline"`
	AccessToken string `json:"accessToken"`
	Scope       string `json:"scope"`
}

// IsAuthenticated reports whether the session carries an access token.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.AccessToken != ""
}

// Redacted returns a copy safe to return to the browser: same fields with the
// access token stripped.
func (s *Session) Redacted() Session {
	out := *s
	out.AccessToken = ""
	return out
}

// OfflineSessionID derives the stable storage key for a shop's offline
// session. The same shop domain always yields the same id.
func OfflineSessionID(shop string) string {
	return "offline_" + shop
}

// OnlineSessionID derives a request-scoped key for an online session.
func OnlineSessionID(shop, state string) string {
	return fmt.Sprintf("%s_%s", shop, state)
}

var shopDomainRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*\.myshopify\.com$`)

// SanitizeShopDomain validates a shop domain supplied by the browser and
// returns its canonical form. Anything that is not a well-formed
// *.myshopify.com hostname is rejected.
func SanitizeShopDomain(shop string) (string, error) {
	shop = strings.TrimSpace(strings.ToLower(shop))
	shop = strings.TrimPrefix(shop, "https://")
	shop = strings.TrimPrefix(shop, "http://")
	shop = strings.TrimSuffix(shop, "/")
	if !shopDomainRe.MatchString(shop) {
		return "", ErrInvalidShopDomain
	}
	return shop, nil
}
