package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"shopdash-gateway/internal/domain"
	"shopdash-gateway/internal/ports"
)

const (
	offlineSessionTTL = 30 * 24 * time.Hour
	onlineSessionTTL  = 24 * time.Hour
)

// SessionService wraps the credential store with typed load/store/delete
// operations and owns the session serialization rules.
type SessionService struct {
	store  ports.CredentialStore
	logger zerolog.Logger
}

// NewSessionService creates a session service.
func NewSessionService(store ports.CredentialStore, logger zerolog.Logger) *SessionService {
	return &SessionService{store: store, logger: logger}
}

// DeriveSessionID returns the stable store key for a shop's offline session.
func (s *SessionService) DeriveSessionID(shop string) string {
	return domain.OfflineSessionID(shop)
}

// StoreSession serializes the full session record and writes it under its id.
// Offline sessions live 30 days; online sessions one day. A session without
// an access token is a pre-exchange placeholder and is refused.
func (s *SessionService) StoreSession(ctx context.Context, session *domain.Session) error {
	if !session.IsAuthenticated() {
		return fmt.Errorf("refusing to store unauthenticated session for shop %s", session.Shop)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	ttl := offlineSessionTTL
	if session.IsOnline {
		ttl = onlineSessionTTL
	}

	if err := s.store.Put(ctx, session.ID, string(payload), ttl); err != nil {
		s.logger.Error().Err(err).Str("shop", session.Shop).Msg("Failed to store session")
		return fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Info().Str("shop", session.Shop).Str("sessionId", session.ID).Msg("Session stored")
	return nil
}

// LoadSession reads and reconstructs a session. Absent or malformed data
// yields ErrSessionNotFound, never a decoding error: a bad record is
// indistinguishable from no record to the caller.
func (s *SessionService) LoadSession(ctx context.Context, id string) (*domain.Session, error) {
	payload, ok := s.store.Get(ctx, id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		// Some store layers re-quote string payloads on read; tolerate a
		// double-encoded record before giving up.
		var inner string
		if err2 := json.Unmarshal([]byte(payload), &inner); err2 == nil {
			if err3 := json.Unmarshal([]byte(inner), &session); err3 == nil {
				return &session, nil
			}
		}
		s.logger.Warn().Err(err).Str("sessionId", id).Msg("Malformed session record, treating as absent")
		return nil, domain.ErrSessionNotFound
	}

	return &session, nil
}

// DeleteSession removes a session record. Deleting a missing id is a no-op.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Info().Str("sessionId", id).Msg("Session deleted")
	return nil
}
