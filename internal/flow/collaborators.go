// Package flow implements the per-sender conversation state machine for the
// listing bot: the dialogue engine, the listing finalizer, and the deletion
// orchestrator. Side effects go through the collaborator interfaces below so
// the state machine can be tested without live services.
package flow

import (
	"context"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/models"
)

// Parser extracts structured listing fields from free text. A nil map with a
// nil error means "could not extract".
type Parser interface {
	Parse(ctx context.Context, text string) (map[string]string, error)
}

// Messenger sends out-of-band WhatsApp messages (progress prompts and
// completion notifications that fall outside the webhook reply envelope).
type Messenger interface {
	SendMessage(ctx context.Context, to string, body string) error
}

// MediaFetcher downloads an inbound attachment by URL.
type MediaFetcher interface {
	FetchMedia(ctx context.Context, url string) ([]byte, error)
}

// DriveService is the remote folder storage contract required by the
// finalizer and the deletion orchestrator.
type DriveService interface {
	CreateFolder(ctx context.Context, name, parentID string) (string, error)
	GetOrCreateFolder(ctx context.Context, name, parentID string) (string, error)
	SetPublicRead(ctx context.Context, id string) error
	UploadDir(ctx context.Context, localDir, folderID string) ([]string, error)
	SearchFoldersByName(ctx context.Context, keyword string) ([]models.FolderInfo, error)
	GetFolderInfo(ctx context.Context, id string) (models.FolderInfo, error)
	DeleteFolder(ctx context.Context, id string) error
}

// ListingStore is the persistence contract required by the finalizer and the
// deletion orchestrator.
type ListingStore interface {
	CreateListing(l models.Listing) (models.Listing, error)
	DeleteListingByTitle(title string) error
}
