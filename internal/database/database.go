// Package database provides sqlite-backed persistence for zoonet
package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver
)

// Database wraps the sqlite connection and exposes per-entity queries
type Database struct {
	mainDB *sql.DB

	MainMutex sync.RWMutex

	dbPath string
}

// OpenDatabase opens (creating if necessary) the sqlite database at dbPath
// and applies pending schema migrations.
func OpenDatabase(dbPath string) (*Database, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=1"
	if dbPath == ":memory:" {
		// WAL is meaningless in memory; foreign keys still matter for cascades
		dsn = "file::memory:?cache=shared&_foreign_keys=1"
	}

	mainDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite handles one writer at a time, keep the pool small
	mainDB.SetMaxOpenConns(4)

	if err := mainDB.Ping(); err != nil {
		mainDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &Database{
		mainDB: mainDB,
		dbPath: dbPath,
	}

	if err := db.Migrate(); err != nil {
		mainDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Opened database at '%s'", dbPath)
	return db, nil
}

// GetMainDB returns the main database connection for direct access
// This should only be used by specialized tools and tests
func (db *Database) GetMainDB() *sql.DB {
	return db.mainDB
}

// Close shuts down the database connection
func (db *Database) Close() error {
	return db.mainDB.Close()
}
