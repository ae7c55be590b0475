// Package store provides persistence backends for listing records.
//
// It includes SQLite and PostgreSQL stores behind a shared interface, plus an
// in-memory store for tests.
package store

import (
	"errors"
	"strings"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/models"
)

// ErrListingNotFound is returned when a delete-by-title matches no record.
var ErrListingNotFound = errors.New("listing not found")

// Store defines the persistence operations required by the bot.
type Store interface {
	// CreateListing inserts a new listing and returns it with its assigned id.
	CreateListing(l models.Listing) (models.Listing, error)

	// GetListings returns all persisted listings.
	GetListings() ([]models.Listing, error)

	// DeleteListingByTitle removes every listing with the given title.
	// Returns ErrListingNotFound when no record matched.
	DeleteListingByTitle(title string) error

	// Close releases the underlying database resources.
	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	DSN string
}

// Option defines a configuration option for store backends.
type Option func(*Opts)

// WithSQLiteDSN sets a SQLite file path as the store DSN.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithPostgresDSN sets a PostgreSQL connection string as the store DSN.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// DetectDSNType classifies a DSN as "postgres" or "sqlite". PostgreSQL DSNs
// use a URL scheme or key=value form; everything else is treated as a SQLite
// file path.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}
