// Package sqlite implements the garden repository ports on SQLite, using
// database/sql over the modernc.org/sqlite driver. Timestamps are stored as
// fixed-width RFC3339 UTC text so they sort lexically; block content is
// stored as a tagged JSON document beside its type column.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/garden/pkg/garden"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps the SQLite handle and hands out repository views sharing it.
// The handle is a pooled *sql.DB; views carry no state of their own and may
// be used concurrently.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path, applies the pragmas
// the adapter relies on, and ensures the schema exists.
func Open(path string) (*DB, error) {
	dsn := "file:" + path +
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(wal)&_pragma=busy_timeout(30000)&_pragma=synchronous(normal)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if err := verifySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

// verifySchema checks that the required tables exist and are reachable.
func verifySchema(db *sql.DB) error {
	for _, table := range []string{"channels", "blocks", "connections"} {
		var n int
		err := db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&n)
		if err != nil {
			return fmt.Errorf("verify schema: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("verify schema: required table %q does not exist", table)
		}
	}
	return nil
}

// Close releases the underlying handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Channels returns the ChannelRepository view.
func (d *DB) Channels() garden.ChannelRepository { return &channelRepo{db: d.db} }

// Blocks returns the BlockRepository view.
func (d *DB) Blocks() garden.BlockRepository { return &blockRepo{db: d.db} }

// Connections returns the ConnectionRepository view.
func (d *DB) Connections() garden.ConnectionRepository { return &connectionRepo{db: d.db} }
