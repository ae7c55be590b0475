package store

import (
	"database/sql"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/models"
)

// nullFloat converts an optional float into a nullable database value.
func nullFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanListing scans one listing row, mapping NULL numeric columns back to nil.
func scanListing(row rowScanner) (models.Listing, error) {
	var l models.Listing
	var price, area sql.NullFloat64
	var description, neighborhood, street, roomCount, driveLink sql.NullString
	err := row.Scan(&l.ID, &l.Title, &description, &price, &neighborhood, &street, &roomCount, &area, &driveLink, &l.CreatedAt)
	if err != nil {
		return l, err
	}
	l.Description = description.String
	l.Neighborhood = neighborhood.String
	l.Street = street.String
	l.RoomCount = roomCount.String
	l.DriveLink = driveLink.String
	if price.Valid {
		l.Price = &price.Float64
	}
	if area.Valid {
		l.Area = &area.Float64
	}
	return l, nil
}
