package api

import (
	"encoding/json"
	"net/http"
)

// Cookie names shared across the dashboard endpoints.
const (
	// NonceCookie carries the CSRF state for one OAuth round trip.
	NonceCookie = "shopify_nonce"
	// OnlineCookie marks an in-flight online-mode OAuth round trip.
	OnlineCookie = "shopify_oauth_online"
	// ShopCookie identifies the authenticated shop on dashboard requests.
	ShopCookie = "shopify_shop"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
