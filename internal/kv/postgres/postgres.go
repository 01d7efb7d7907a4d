package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"svitlobot/internal/kv"
)

var _ kv.Store = (*Store)(nil)

// Store is the postgres-backed kv.Store. One table, keyset pagination,
// lazy TTL through an expires_at column.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.Ping(ctxPing); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: p}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the kv table if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			expires_at TIMESTAMPTZ
		)`)
	if err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	const q = `SELECT value FROM kv WHERE key=$1 AND (expires_at IS NULL OR expires_at > now())`
	var v string
	err := s.pool.QueryRow(ctx, q, key).Scan(&v)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	var expires *time.Time
	if ttl > 0 {
		t := time.Now().UTC().Add(ttl)
		expires = &t
	}
	const q = `
		INSERT INTO kv (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key)
		DO UPDATE SET value=EXCLUDED.value, expires_at=EXCLUDED.expires_at
	`
	if _, err := s.pool.Exec(ctx, q, key, value, expires); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM kv WHERE key=$1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, prefix, cursor string, limit int) ([]string, string, bool, error) {
	if limit < 1 {
		limit = 1
	}
	// fetch one extra row to learn whether the scan is complete
	const q = `
		SELECT key FROM kv
		WHERE key LIKE $1 || '%' AND key > $2
		  AND (expires_at IS NULL OR expires_at > now())
		ORDER BY key
		LIMIT $3
	`
	rows, err := s.pool.Query(ctx, q, prefix, cursor, limit+1)
	if err != nil {
		return nil, "", false, fmt.Errorf("list %s: %w", prefix, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, "", false, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, "", false, fmt.Errorf("list %s: %w", prefix, err)
	}

	if len(keys) <= limit {
		return keys, "", true, nil
	}
	keys = keys[:limit]
	return keys, keys[len(keys)-1], false, nil
}
