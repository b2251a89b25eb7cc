package configstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps one jsonb config document per community.
//
// Expected schema:
//
//	CREATE TABLE IF NOT EXISTS community_moderation_configs (
//	    community_id TEXT PRIMARY KEY,
//	    config       JSONB NOT NULL,
//	    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type PostgresStore struct {
	Pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return &PostgresStore{Pool: pool}, nil
}

func (s *PostgresStore) Get(ctx context.Context, communityID string) (*CommunityConfig, error) {
	var raw []byte
	err := s.Pool.QueryRow(ctx,
		`SELECT config FROM community_moderation_configs WHERE community_id = $1`,
		communityID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg CommunityConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing stored config for community %s: %w", communityID, err)
	}
	return &cfg, nil
}

func (s *PostgresStore) Set(ctx context.Context, communityID string, cfg *CommunityConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx,
		`INSERT INTO community_moderation_configs (community_id, config, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (community_id) DO UPDATE SET config = EXCLUDED.config, updated_at = NOW()`,
		communityID, raw,
	)
	return err
}
