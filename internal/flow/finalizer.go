package flow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/models"
)

// driveFolderLinkFormat builds the shareable link for a Drive folder id.
const driveFolderLinkFormat = "https://drive.google.com/drive/folders/%s"

// Finalizer turns a completed draft plus staged photos into a public Drive
// folder and a persisted listing record. It reports only success or failure
// to the engine; step-level errors are logged here.
type Finalizer struct {
	drive        DriveService
	listings     ListingStore
	messenger    Messenger
	rootFolderID string
}

// NewFinalizer creates a finalizer. rootFolderID is the Drive folder all
// listings live under; its absence is a configuration error.
func NewFinalizer(drive DriveService, listings ListingStore, messenger Messenger, rootFolderID string) (*Finalizer, error) {
	if rootFolderID == "" {
		return nil, fmt.Errorf("root drive folder id must be provided")
	}
	return &Finalizer{drive: drive, listings: listings, messenger: messenger, rootFolderID: rootFolderID}, nil
}

// Finalize runs the terminal steps of the add flow: create the listing folder,
// upload the staged photos, persist the record, and clean up the staging
// directory. On failure the staging directory is deliberately left behind for
// manual recovery and the sender gets a retry notification.
func (f *Finalizer) Finalize(ctx context.Context, sender string, draft models.ListingDraft, stagingDir string) error {
	folderID, err := f.createListingFolder(ctx, draft)
	if err != nil {
		slog.Error("Finalizer folder creation failed", "error", err, "sender", sender, "staging_dir", stagingDir)
		f.notifyFailure(ctx, sender)
		return fmt.Errorf("folder creation failed: %w", err)
	}

	links, err := f.drive.UploadDir(ctx, stagingDir, folderID)
	if err != nil {
		slog.Error("Finalizer photo upload failed", "error", err, "sender", sender, "folder_id", folderID)
		f.notifyFailure(ctx, sender)
		return fmt.Errorf("photo upload failed: %w", err)
	}
	if len(links) == 0 {
		slog.Error("Finalizer no photos uploaded", "sender", sender, "folder_id", folderID, "staging_dir", stagingDir)
		f.notifyFailure(ctx, sender)
		return fmt.Errorf("no photos were uploaded to folder %s", folderID)
	}

	driveLink := fmt.Sprintf(driveFolderLinkFormat, folderID)
	listing := models.Listing{
		Title:        ListingTitle(draft.Neighborhood, draft.Street, draft.RoomCount),
		Description:  draft.Description,
		Price:        coerceNumeric(draft.Price),
		Neighborhood: draft.Neighborhood,
		Street:       draft.Street,
		RoomCount:    draft.RoomCount,
		Area:         coerceNumeric(draft.Area),
		DriveLink:    driveLink,
		CreatedAt:    time.Now(),
	}

	if _, err := f.listings.CreateListing(listing); err != nil {
		slog.Error("Finalizer persistence failed", "error", err, "sender", sender, "title", listing.Title)
		f.notifyFailure(ctx, sender)
		return fmt.Errorf("failed to persist listing: %w", err)
	}

	if err := os.RemoveAll(stagingDir); err != nil {
		// The listing is already saved; a leftover staging dir is an operator
		// cleanup concern, not a failure.
		slog.Error("Finalizer staging cleanup failed", "error", err, "staging_dir", stagingDir)
	}

	if err := f.messenger.SendMessage(ctx, sender, fmt.Sprintf("Your listing has been saved!\n\nDrive folder link: %s", driveLink)); err != nil {
		slog.Error("Finalizer success notification failed", "error", err, "sender", sender)
	}
	slog.Info("Finalizer listing saved", "sender", sender, "title", listing.Title, "photos", len(links), "folder_id", folderID)
	return nil
}

// createListingFolder derives the folder name and parent placement from the
// draft, creates the folder, and makes it publicly readable. The default room
// type goes directly under the root folder; any other room count gets a
// get-or-create room-type folder in between.
func (f *Finalizer) createListingFolder(ctx context.Context, draft models.ListingDraft) (string, error) {
	parentID := f.rootFolderID
	if !IsDefaultRoomType(draft.RoomCount) {
		roomFolder := strings.TrimSpace(draft.RoomCount)
		if roomFolder == "" {
			roomFolder = "Belirsiz"
		}
		id, err := f.drive.GetOrCreateFolder(ctx, roomFolder, f.rootFolderID)
		if err != nil {
			return "", fmt.Errorf("failed to resolve room-type folder %q: %w", roomFolder, err)
		}
		parentID = id
	}

	folderID, err := f.drive.CreateFolder(ctx, FolderName(draft.Neighborhood, draft.Street, draft.RoomCount), parentID)
	if err != nil {
		return "", err
	}
	if err := f.drive.SetPublicRead(ctx, folderID); err != nil {
		return "", err
	}
	return folderID, nil
}

func (f *Finalizer) notifyFailure(ctx context.Context, sender string) {
	msg := "An error occurred while saving the listing. Please try again later."
	if err := f.messenger.SendMessage(ctx, sender, msg); err != nil {
		slog.Error("Finalizer failure notification failed", "error", err, "sender", sender)
	}
}

// coerceNumeric parses free text into a number for the area and price fields.
// Unparsable text becomes unknown (nil) rather than aborting the flow. Turkish
// style separators ("1.250.000", "120,5") are normalized first.
func coerceNumeric(text string) *float64 {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if strings.Count(s, ".") > 1 {
		s = strings.ReplaceAll(s, ".", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		slog.Debug("Finalizer numeric coercion failed", "text", text)
		return nil
	}
	return &v
}
