// Package storage is the durable layer: a SQLite-backed key-value store,
// the activity storage contract on top of it, and the LLM request event
// log. It replaces the browser key-value storage of the original system
// while keeping its key scheme and envelope conventions.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// recordVersion tags every stored record; records written by an
// incompatible version read as not found.
const recordVersion = "1.0.0"

// KV is a string-key/JSON-value store backed by SQLite. Values carry a
// checksum and version; integrity failures on read are indistinguishable
// from absence, which is what the resolution chain expects.
type KV struct {
	db *sql.DB
}

// Open creates a KV store at dsn, applying recommended pragmas and
// creating tables as needed.
func Open(dsn string) (*KV, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &KV{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (kv *KV) DB() *sql.DB {
	return kv.db
}

// Close closes the database connection.
func (kv *KV) Close() error {
	return kv.db.Close()
}

// Set stores value under key, stamping checksum, version, and timestamps.
func (kv *KV) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC()
	_, err := kv.db.ExecContext(ctx, `
		INSERT INTO kv_entries (key, value, checksum, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			checksum = excluded.checksum,
			version = excluded.version,
			updated_at = excluded.updated_at`,
		key, value, Checksum(value), recordVersion, now, now)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Get returns the value stored under key. Missing keys, version
// mismatches, and checksum failures all return ("", false): a corrupt
// record is treated as absent, per the contract's failure semantics.
func (kv *KV) Get(ctx context.Context, key string) (string, bool) {
	var value, checksum, version string
	err := kv.db.QueryRowContext(ctx,
		`SELECT value, checksum, version FROM kv_entries WHERE key = ?`, key,
	).Scan(&value, &checksum, &version)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			fmt.Fprintf(os.Stderr, "warning: read %q: %v\n", key, err)
		}
		return "", false
	}
	if version != recordVersion || checksum != Checksum(value) {
		fmt.Fprintf(os.Stderr, "warning: integrity check failed for %q, treating as not found\n", key)
		return "", false
	}
	return value, true
}

// Delete removes key. Deleting an absent key is not an error.
func (kv *KV) Delete(ctx context.Context, key string) error {
	_, err := kv.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Keys returns all keys with the given prefix, oldest first. An empty
// prefix returns every key.
func (kv *KV) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := kv.db.QueryContext(ctx,
		`SELECT key FROM kv_entries WHERE key LIKE ? || '%' ORDER BY updated_at, key`, prefix)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Len returns the number of stored entries.
func (kv *KV) Len(ctx context.Context) (int, error) {
	var n int
	err := kv.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv_entries`).Scan(&n)
	return n, err
}

// Checksum returns the integrity checksum recorded alongside each value.
func Checksum(value string) string {
	h := fnv.New32a()
	h.Write([]byte(value))
	return fmt.Sprintf("%08x", h.Sum32())
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv_entries (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			checksum TEXT NOT NULL,
			version TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS llm_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TIMESTAMP NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			purpose TEXT NOT NULL,
			input_tokens INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			latency_ms INTEGER NOT NULL DEFAULT 0,
			success INTEGER NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			request_body TEXT NOT NULL DEFAULT '',
			response_body TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. CLASSFORGE_DB environment variable
// 2. $XDG_DATA_HOME/classforge/classforge.db
// 3. ~/.local/share/classforge/classforge.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("CLASSFORGE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "classforge", "classforge.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
