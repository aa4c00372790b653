package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

var _ domain.Storage = (*PostgresStore)(nil)

const createLocalStorageTable = `
        CREATE TABLE IF NOT EXISTS local_storage (
            session_id TEXT        NOT NULL,
            key        TEXT        NOT NULL,
            value      BYTEA       NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (session_id, key)
        )`

// PostgresStore keeps the session's keys as rows of the local_storage
// table, namespaced by session id.
type PostgresStore struct {
	db        *sql.DB
	sessionID string
	log       *logrus.Logger
}

func NewPostgresStore(db *sql.DB, sessionID string, logger *logrus.Logger) (*PostgresStore, error) {
	if sessionID == "" {
		return nil, errors.New("session id cannot be empty")
	}
	if _, err := db.Exec(createLocalStorageTable); err != nil {
		logger.Errorf("Repository: Failed to ensure local_storage table: %v", err)
		return nil, fmt.Errorf("could not prepare local_storage table: %w", err)
	}
	return &PostgresStore{
		db:        db,
		sessionID: sessionID,
		log:       logger,
	}, nil
}

func (r *PostgresStore) Get(key string) ([]byte, bool, error) {
	query := `
        SELECT value
        FROM local_storage
        WHERE session_id = $1 AND key = $2`

	var value []byte
	err := r.db.QueryRow(query, r.sessionID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		r.log.Errorf("Repository: Failed to read key %q for session %s: %v", key, r.sessionID, err)
		return nil, false, fmt.Errorf("could not read key %q: %w", key, err)
	}
	return value, true, nil
}

func (r *PostgresStore) Set(key string, value []byte) error {
	query := `
        INSERT INTO local_storage (session_id, key, value, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (session_id, key)
        DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := r.db.Exec(query, r.sessionID, key, value); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			r.log.Errorf("Repository: Postgres error %s writing key %q: %s", pqErr.Code, key, pqErr.Message)
			return fmt.Errorf("could not write key %q: %s", key, pqErr.Message)
		}
		r.log.Errorf("Repository: Failed to write key %q for session %s: %v", key, r.sessionID, err)
		return fmt.Errorf("could not write key %q: %w", key, err)
	}
	r.log.Debugf("Repository: Stored key %q for session %s (%d bytes)", key, r.sessionID, len(value))
	return nil
}

func (r *PostgresStore) Delete(key string) error {
	query := `DELETE FROM local_storage WHERE session_id = $1 AND key = $2`

	if _, err := r.db.Exec(query, r.sessionID, key); err != nil {
		r.log.Errorf("Repository: Failed to delete key %q for session %s: %v", key, r.sessionID, err)
		return fmt.Errorf("could not delete key %q: %w", key, err)
	}
	return nil
}
