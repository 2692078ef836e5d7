package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "state.sqlite"

// SQLiteGateway persists blobs in a single kv table of a workspace-local SQLite file.
type SQLiteGateway struct {
	path string
	db   *sql.DB
}

// OpenSQLite opens (creating if needed) dir/state.sqlite.
func OpenSQLite(ctx context.Context, dir string) (*SQLiteGateway, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("sqlite gateway: missing dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, sqliteFileName)

	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout helps avoid "database is locked" flakiness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteGateway{path: path, db: db}, nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			k TEXT PRIMARY KEY,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (g *SQLiteGateway) Path() string { return g.path }

func (g *SQLiteGateway) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var js string
	err := g.db.QueryRowContext(ctx, `SELECT json FROM kv WHERE k = ?`, key).Scan(&js)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(js), true, nil
}

func (g *SQLiteGateway) Put(ctx context.Context, key string, value []byte) error {
	nowMs := time.Now().UTC().UnixMilli()
	_, err := g.db.ExecContext(ctx, `INSERT OR REPLACE INTO kv(k, json, updated_at_unixms) VALUES(?, ?, ?)`, key, string(value), nowMs)
	return err
}

func (g *SQLiteGateway) Delete(ctx context.Context, key string) error {
	_, err := g.db.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, key)
	return err
}

func (g *SQLiteGateway) Keys(ctx context.Context) ([]string, error) {
	rows, err := g.db.QueryContext(ctx, `SELECT k FROM kv ORDER BY k`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *SQLiteGateway) Close() error {
	if g == nil || g.db == nil {
		return nil
	}
	return g.db.Close()
}
