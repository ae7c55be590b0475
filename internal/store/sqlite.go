package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN should be a file path to the SQLite database file.
// If the directory doesn't exist, it will be created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	// Ensure the directory exists
	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	// Run migrations to ensure tables exist
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

// CreateListing inserts a new listing record and returns it with the assigned id.
func (s *SQLiteStore) CreateListing(l models.Listing) (models.Listing, error) {
	res, err := s.db.Exec(
		`INSERT INTO listings (title, description, price, neighborhood, street, room_count, area, drive_link, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.Title, l.Description, nullFloat(l.Price), l.Neighborhood, l.Street, l.RoomCount, nullFloat(l.Area), l.DriveLink, l.CreatedAt,
	)
	if err != nil {
		slog.Error("SQLiteStore CreateListing failed", "error", err, "title", l.Title)
		return l, fmt.Errorf("failed to insert listing %q: %w", l.Title, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		slog.Error("SQLiteStore CreateListing last insert id failed", "error", err, "title", l.Title)
		return l, err
	}
	l.ID = id
	slog.Debug("SQLiteStore CreateListing succeeded", "id", l.ID, "title", l.Title)
	return l, nil
}

// GetListings returns all persisted listings.
func (s *SQLiteStore) GetListings() ([]models.Listing, error) {
	rows, err := s.db.Query(
		`SELECT id, title, description, price, neighborhood, street, room_count, area, drive_link, created_at FROM listings`)
	if err != nil {
		slog.Error("SQLiteStore GetListings query failed", "error", err)
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			slog.Error("SQLiteStore GetListings scan failed", "error", err)
			return nil, err
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		slog.Error("SQLiteStore GetListings rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate listing rows: %w", err)
	}
	slog.Debug("SQLiteStore GetListings succeeded", "count", len(listings))
	return listings, nil
}

// DeleteListingByTitle removes every listing with the given title.
func (s *SQLiteStore) DeleteListingByTitle(title string) error {
	res, err := s.db.Exec(`DELETE FROM listings WHERE title = ?`, title)
	if err != nil {
		slog.Error("SQLiteStore DeleteListingByTitle failed", "error", err, "title", title)
		return fmt.Errorf("failed to delete listing %q: %w", title, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		slog.Debug("SQLiteStore DeleteListingByTitle no match", "title", title)
		return ErrListingNotFound
	}
	slog.Debug("SQLiteStore DeleteListingByTitle succeeded", "title", title, "deleted", affected)
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close SQLite database", "error", err)
	}
	return err
}
