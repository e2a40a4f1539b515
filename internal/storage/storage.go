// Package storage persists matches, raw timelines and lane analyses in a
// local SQLite database.
package storage

import (
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a sql.DB for the lolmetrics store.
type DB struct {
	conn    *sql.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("init zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("init zstd decoder: %w", err)
	}

	return &DB{conn: conn, encoder: enc, decoder: dec}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	db.encoder.Close()
	db.decoder.Close()
	return db.conn.Close()
}
