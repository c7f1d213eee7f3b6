// Package store provides the SQLite-backed key-value persistence gateway.
// The whole repository state lives under one key as a JSON blob; the PIN
// guard's lockout record lives under a second, independent key.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
);
`

// Persisted slot keys.
const (
	stateKey = "state_v1"
	guardKey = "guard_v1"
)

// KV wraps a sql.DB with blob slot operations.
type KV struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*KV, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &KV{conn: conn}, nil
}

// Close closes the underlying database connection.
func (k *KV) Close() error {
	return k.conn.Close()
}

// Get returns the blob stored under key, with ok=false when the key is absent.
func (k *KV) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := k.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: get %s: %w", key, err)
	}
	return value, true, nil
}

// Put overwrites the blob stored under key.
func (k *KV) Put(key string, value []byte) error {
	_, err := k.conn.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("store: put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (k *KV) Delete(key string) error {
	if _, err := k.conn.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("store: delete %s: %w", key, err)
	}
	return nil
}
