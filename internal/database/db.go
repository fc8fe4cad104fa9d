package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/001_initial.sql
var initialMigration string

// Supported driver names
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// DB wraps the SQL database connection
type DB struct {
	*sql.DB
	driver string
}

// Open opens or creates the SQLite database at the given path
func Open(path string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with common settings
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", path)
	sqlDB, err := sql.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes
	sqlDB.SetMaxIdleConns(1)

	db := &DB{DB: sqlDB, driver: DriverSQLite}

	// Run migrations
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// OpenMySQL connects to an existing MySQL database. The schema is managed
// outside this program; the DSN must set parseTime=true.
func OpenMySQL(dsn string) (*DB, error) {
	sqlDB, err := sql.Open(DriverMySQL, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{DB: sqlDB, driver: DriverMySQL}, nil
}

// OpenDriver opens the database for the configured driver. target is a
// file path for sqlite3 and a DSN for mysql.
func OpenDriver(driver, target string) (*DB, error) {
	switch driver {
	case DriverSQLite, "":
		return Open(target)
	case DriverMySQL:
		return OpenMySQL(target)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// Driver returns the driver name the database was opened with
func (db *DB) Driver() string {
	return db.driver
}

// migrate runs database migrations; the script is idempotent
func (db *DB) migrate() error {
	if _, err := db.Exec(initialMigration); err != nil {
		return fmt.Errorf("failed to run initial migration: %w", err)
	}

	return nil
}

// Transaction runs a function in a transaction
func (db *DB) Transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Health checks database connectivity
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}
