package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS chat_kv (
	namespace  TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (namespace, key)
)`

// PostgresStore persists chat state so sessions and ads survive restarts.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create chat_kv: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return "", false, err
	}
	defer conn.Close()

	var value string
	err = conn.GetContext(
		ctx,
		&value,
		`SELECT value FROM chat_kv WHERE namespace = $1 AND key = $2`,
		namespace,
		key,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

func (s *PostgresStore) Update(ctx context.Context, namespace string, set map[string]string, del []string) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if len(del) > 0 {
		if _, err = tx.ExecContext(
			ctx,
			`DELETE FROM chat_kv WHERE namespace = $1 AND key = ANY($2)`,
			namespace,
			pq.Array(del),
		); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	for k, v := range set {
		if _, err = tx.NamedExecContext(
			ctx,
			`INSERT INTO chat_kv (namespace, key, value, updated_at)
				VALUES (:namespace, :key, :value, :updated_at)
				ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
			dbEntry{Namespace: namespace, Key: k, Value: v, UpdatedAt: now},
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

type dbEntry struct {
	Namespace string    `db:"namespace"`
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}
