package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/models"
	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/store"
)

// maxPathDepth bounds the ancestor walk when resolving display paths, in case
// of a parent cycle in the remote metadata.
const maxPathDepth = 16

// Deleter orchestrates the delete flow: keyword search with display-path
// resolution, then independent deletion of the remote folder and the matching
// database record.
type Deleter struct {
	drive    DriveService
	listings ListingStore
}

// NewDeleter creates a deletion orchestrator.
func NewDeleter(drive DriveService, listings ListingStore) *Deleter {
	return &Deleter{drive: drive, listings: listings}
}

// Search finds folders whose name contains the keyword and resolves each
// match's full ancestor-chain display path. Folder names resolved during one
// search are memoized so shared ancestors are fetched once.
func (d *Deleter) Search(ctx context.Context, keyword string) ([]models.CandidateFolder, error) {
	folders, err := d.drive.SearchFoldersByName(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("folder search failed: %w", err)
	}

	cache := make(map[string]models.FolderInfo)
	candidates := make([]models.CandidateFolder, 0, len(folders))
	for _, folder := range folders {
		candidates = append(candidates, models.CandidateFolder{
			DisplayPath: d.displayPath(ctx, folder, cache),
			ID:          folder.ID,
		})
	}
	slog.Debug("Deleter search resolved candidates", "keyword", keyword, "count", len(candidates))
	return candidates, nil
}

// displayPath walks the parent chain upward, prepending each ancestor's name.
// A lookup failure on any ancestor degrades to the path resolved so far, so
// the folder's own name is always present.
func (d *Deleter) displayPath(ctx context.Context, folder models.FolderInfo, cache map[string]models.FolderInfo) string {
	segments := []string{folder.Name}
	current := folder
	for depth := 0; depth < maxPathDepth && len(current.Parents) > 0; depth++ {
		parentID := current.Parents[0]
		parent, ok := cache[parentID]
		if !ok {
			info, err := d.drive.GetFolderInfo(ctx, parentID)
			if err != nil {
				slog.Debug("Deleter ancestor lookup failed, truncating path", "error", err, "folder_id", parentID)
				break
			}
			parent = info
			cache[parentID] = parent
		}
		segments = append([]string{parent.Name}, segments...)
		current = parent
	}
	return strings.Join(segments, "/")
}

// DeleteResult aggregates the two independent deletions of the delete flow.
type DeleteResult struct {
	DriveErr error
	StoreErr error
}

// Success reports whether both the remote folder and the database record were
// deleted.
func (r DeleteResult) Success() bool {
	return r.DriveErr == nil && r.StoreErr == nil
}

// Message renders the user-facing outcome. Partial failures name the failing
// side; the result never reads as unqualified success unless both sides
// succeeded.
func (r DeleteResult) Message() string {
	if r.Success() {
		return "The listing and its folder were deleted."
	}
	msg := "Errors occurred while deleting the listing:\n"
	if r.DriveErr != nil {
		msg += fmt.Sprintf("Drive: %v\n", r.DriveErr)
	}
	if r.StoreErr != nil {
		msg += fmt.Sprintf("Database: %v", r.StoreErr)
	}
	return strings.TrimSpace(msg)
}

// Delete removes the remote folder by id and the persisted record by a title
// derived from the display text. Both deletions are attempted independently.
func (d *Deleter) Delete(ctx context.Context, folderID, displayText string) DeleteResult {
	var result DeleteResult

	if err := d.drive.DeleteFolder(ctx, folderID); err != nil {
		slog.Error("Deleter drive folder delete failed", "error", err, "folder_id", folderID)
		result.DriveErr = err
	}

	title := TitleFromDisplay(displayText)
	if err := d.listings.DeleteListingByTitle(title); err != nil {
		if errors.Is(err, store.ErrListingNotFound) {
			slog.Warn("Deleter no database record matched title", "title", title)
		} else {
			slog.Error("Deleter database delete failed", "error", err, "title", title)
		}
		result.StoreErr = err
	}

	slog.Info("Deleter finished", "folder_id", folderID, "title", title, "success", result.Success())
	return result
}
