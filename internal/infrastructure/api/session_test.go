package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopdash-gateway/internal/domain"
)

func seedSession(t *testing.T, store *fakeStore, session domain.Session) {
	t.Helper()
	raw, err := json.Marshal(session)
	require.NoError(t, err)
	store.data[session.ID] = string(raw)
}

func TestGetSessionNoCookie(t *testing.T) {
	h := NewSessionHandler(newSessionService(newFakeStore()), zerolog.Nop())

	r := httptest.NewRequest("GET", "/api/session", nil)
	w := httptest.NewRecorder()
	h.GetSession(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestGetSessionRedactsToken(t *testing.T) {
	store := newFakeStore()
	seedSession(t, store, domain.Session{
		ID:          domain.OfflineSessionID("foo.myshopify.com"),
		Shop:        "foo.myshopify.com",
		AccessToken: "tok123",
		Scope:       "read_products",
	})
	h := NewSessionHandler(newSessionService(store), zerolog.Nop())

	r := httptest.NewRequest("GET", "/api/session", nil)
	r.AddCookie(&http.Cookie{Name: ShopCookie, Value: "foo.myshopify.com"})
	w := httptest.NewRecorder()
	h.GetSession(w, r)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)

	var body struct {
		Shop    string         `json:"shop"`
		Session domain.Session `json:"session"`
	}
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&body))
	assert.Equal(t, "foo.myshopify.com", body.Shop)
	assert.Equal(t, "read_products", body.Session.Scope)
	// The secret never leaves the server.
	assert.Empty(t, body.Session.AccessToken)
}

func TestValidateSessionNoCookie(t *testing.T) {
	h := NewSessionHandler(newSessionService(newFakeStore()), zerolog.Nop())

	r := httptest.NewRequest("GET", "/api/validate-session", nil)
	w := httptest.NewRecorder()
	h.ValidateSession(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&body))
	assert.Equal(t, false, body["valid"])
}

func TestValidateSessionMissingSession(t *testing.T) {
	h := NewSessionHandler(newSessionService(newFakeStore()), zerolog.Nop())

	r := httptest.NewRequest("GET", "/api/validate-session", nil)
	r.AddCookie(&http.Cookie{Name: ShopCookie, Value: "foo.myshopify.com"})
	w := httptest.NewRecorder()
	h.ValidateSession(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestValidateSessionEmptyTokenNeverValid(t *testing.T) {
	store := newFakeStore()
	seedSession(t, store, domain.Session{
		ID:   domain.OfflineSessionID("foo.myshopify.com"),
		Shop: "foo.myshopify.com",
	})
	h := NewSessionHandler(newSessionService(store), zerolog.Nop())

	r := httptest.NewRequest("GET", "/api/validate-session", nil)
	r.AddCookie(&http.Cookie{Name: ShopCookie, Value: "foo.myshopify.com"})
	w := httptest.NewRecorder()
	h.ValidateSession(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&body))
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, "No access token", body["error"])
}

func TestValidateSessionOK(t *testing.T) {
	store := newFakeStore()
	seedSession(t, store, domain.Session{
		ID:          domain.OfflineSessionID("foo.myshopify.com"),
		Shop:        "foo.myshopify.com",
		AccessToken: "tok123",
	})
	h := NewSessionHandler(newSessionService(store), zerolog.Nop())

	r := httptest.NewRequest("GET", "/api/validate-session", nil)
	r.AddCookie(&http.Cookie{Name: ShopCookie, Value: "foo.myshopify.com"})
	w := httptest.NewRecorder()
	h.ValidateSession(w, r)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&body))
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "foo.myshopify.com", body["shop"])
}
