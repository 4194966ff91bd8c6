package mboardweb

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SessionRecord is the durable side of a browser session: the refresh
// token keyed by the access token the cookie carries.
type SessionRecord struct {
	bun.BaseModel `bun:"table:web_sessions,alias:ws"`

	ID           uuid.UUID `bun:"id,pk,notnull" json:"id"`
	AccessToken  string    `bun:"access_token,notnull,unique" json:"access_token"`
	RefreshToken string    `bun:"refresh_token,notnull" json:"refresh_token"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
}

// TokenStore persists session records. Implementations must treat Save
// as an upsert on the access token and Get as returning nil for a miss.
type TokenStore interface {
	Save(ctx context.Context, record *SessionRecord) error
	Get(ctx context.Context, accessToken string) (*SessionRecord, error)
	Delete(ctx context.Context, accessToken string) error
}

// MemoryTokenStore keeps session records in process memory. It backs
// tests and single-instance deployments that can tolerate relogin on
// restart.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	records map[string]*SessionRecord
}

// NewMemoryTokenStore creates an empty in-memory store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		records: map[string]*SessionRecord{},
	}
}

// Save satisfies the TokenStore interface.
func (s *MemoryTokenStore) Save(ctx context.Context, record *SessionRecord) error {
	if record == nil || record.AccessToken == "" {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *record
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	s.records[stored.AccessToken] = &stored
	return nil
}

// Get satisfies the TokenStore interface. A missing token is not an
// error; it returns nil, nil.
func (s *MemoryTokenStore) Get(ctx context.Context, accessToken string) (*SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[accessToken]
	if !ok {
		return nil, nil
	}

	found := *record
	return &found, nil
}

// Delete satisfies the TokenStore interface. Deleting an absent token
// is a no-op.
func (s *MemoryTokenStore) Delete(ctx context.Context, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, accessToken)
	return nil
}
