package mboardweb

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunTokenStore persists session records through bun, SQLite in the
// shipped binary.
type BunTokenStore struct {
	db *bun.DB
}

// NewBunTokenStore wraps a bun DB handle in a TokenStore.
func NewBunTokenStore(db *bun.DB) *BunTokenStore {
	return &BunTokenStore{db: db}
}

// CreateTable creates the backing table when it does not exist yet.
func (s *BunTokenStore) CreateTable(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*SessionRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create web_sessions table")
	}
	return nil
}

// Save satisfies the TokenStore interface, upserting on the access token.
func (s *BunTokenStore) Save(ctx context.Context, record *SessionRecord) error {
	if record == nil || record.AccessToken == "" {
		return ErrSessionNotFound
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (access_token) DO UPDATE").
		Set("refresh_token = EXCLUDED.refresh_token").
		Set("created_at = EXCLUDED.created_at").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to save session record")
	}

	return nil
}

// Get satisfies the TokenStore interface. A missing token returns nil, nil.
func (s *BunTokenStore) Get(ctx context.Context, accessToken string) (*SessionRecord, error) {
	record := &SessionRecord{}

	err := s.db.NewSelect().
		Model(record).
		Where("access_token = ?", accessToken).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load session record")
	}

	return record, nil
}

// Delete satisfies the TokenStore interface. Deleting an absent token
// is a no-op.
func (s *BunTokenStore) Delete(ctx context.Context, accessToken string) error {
	_, err := s.db.NewDelete().
		Model((*SessionRecord)(nil)).
		Where("access_token = ?", accessToken).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete session record")
	}
	return nil
}
