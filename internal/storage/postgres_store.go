package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"charity-workflow-backend/internal/logger"

	_ "github.com/lib/pq"
)

const defaultTable = "kv_store"

// PostgresStore keeps entries in a two column table (key text, value jsonb).
type PostgresStore struct {
	db    *sql.DB
	table string
}

func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	if table == "" {
		table = defaultTable
	}
	return &PostgresStore{db: db, table: table}
}

// EnsureSchema creates the backing table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (key TEXT NOT NULL PRIMARY KEY, value JSONB NOT NULL)`, s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create %s table: %w", s.table, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	logger.StoreCall(BackendPostgres, "SELECT", key)
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, s.table)
	var value []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.StoreResult(BackendPostgres, "SELECT", key, err)
		return nil, err
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	logger.StoreCall(BackendPostgres, "UPSERT", key)
	query := fmt.Sprintf(`INSERT INTO %s (key, value) VALUES ($1, $2)
	          ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, s.table)
	_, err := s.db.ExecContext(ctx, query, key, string(value))
	if err != nil {
		logger.StoreResult(BackendPostgres, "UPSERT", key, err)
	}
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	logger.StoreCall(BackendPostgres, "DELETE", key)
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.table)
	result, err := s.db.ExecContext(ctx, query, key)
	if err != nil {
		logger.StoreResult(BackendPostgres, "DELETE", key, err)
		return err
	}
	rows, _ := result.RowsAffected()
	logger.StoreResult(BackendPostgres, "DELETE", key, nil, "rows_affected", rows)
	return nil
}

func (s *PostgresStore) ListByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	logger.StoreCall(BackendPostgres, "SELECT", prefix+"*")
	query := fmt.Sprintf(`SELECT key, value FROM %s WHERE key LIKE $1 ESCAPE '\'`, s.table)
	rows, err := s.db.QueryContext(ctx, query, likePrefix(prefix))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
