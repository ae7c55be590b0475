package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("PostgresStore.NewPostgresStore: creating Postgres store", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	// Configure connection pool for better performance
	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")
	return &PostgresStore{db: db}, nil
}

// CreateListing inserts a new listing record and returns it with the assigned id.
func (s *PostgresStore) CreateListing(l models.Listing) (models.Listing, error) {
	err := s.db.QueryRow(
		`INSERT INTO listings (title, description, price, neighborhood, street, room_count, area, drive_link, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		l.Title, l.Description, nullFloat(l.Price), l.Neighborhood, l.Street, l.RoomCount, nullFloat(l.Area), l.DriveLink, l.CreatedAt,
	).Scan(&l.ID)
	if err != nil {
		slog.Error("PostgresStore CreateListing failed", "error", err, "title", l.Title)
		return l, fmt.Errorf("failed to insert listing %q: %w", l.Title, err)
	}
	slog.Debug("PostgresStore CreateListing succeeded", "id", l.ID, "title", l.Title)
	return l, nil
}

// GetListings returns all persisted listings.
func (s *PostgresStore) GetListings() ([]models.Listing, error) {
	rows, err := s.db.Query(
		`SELECT id, title, description, price, neighborhood, street, room_count, area, drive_link, created_at FROM listings`)
	if err != nil {
		slog.Error("PostgresStore GetListings query failed", "error", err)
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			slog.Error("PostgresStore GetListings scan failed", "error", err)
			return nil, err
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		slog.Error("PostgresStore GetListings rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate listing rows: %w", err)
	}
	slog.Debug("PostgresStore GetListings succeeded", "count", len(listings))
	return listings, nil
}

// DeleteListingByTitle removes every listing with the given title.
func (s *PostgresStore) DeleteListingByTitle(title string) error {
	res, err := s.db.Exec(`DELETE FROM listings WHERE title = $1`, title)
	if err != nil {
		slog.Error("PostgresStore DeleteListingByTitle failed", "error", err, "title", title)
		return fmt.Errorf("failed to delete listing %q: %w", title, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		slog.Debug("PostgresStore DeleteListingByTitle no match", "title", title)
		return ErrListingNotFound
	}
	slog.Debug("PostgresStore DeleteListingByTitle succeeded", "title", title, "deleted", affected)
	return nil
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close Postgres database", "error", err)
	}
	return err
}
