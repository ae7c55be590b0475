// Package gdrive wraps the Google Drive API for remote listing folder storage.
//
// Each finalized listing gets one public-read folder holding its photos. The
// delete flow searches folders by name and removes them by id.
package gdrive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/models"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Opts holds configuration options for the Drive client.
type Opts struct {
	CredentialsFile string
}

// Option defines a configuration option for the Drive client.
type Option func(*Opts)

// WithCredentialsFile sets the service account credentials file path.
func WithCredentialsFile(path string) Option {
	return func(o *Opts) { o.CredentialsFile = path }
}

// Client wraps the Drive files and permissions services.
type Client struct {
	svc *drive.Service
}

// NewClient creates a Drive client from a service account credentials file.
// Falls back to the GOOGLE_DRIVE_CREDENTIALS_FILE environment variable when no
// option is provided.
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.CredentialsFile == "" {
		cfg.CredentialsFile = os.Getenv("GOOGLE_DRIVE_CREDENTIALS_FILE")
	}
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("drive credentials file must be provided")
	}

	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(drive.DriveScope),
	)
	if err != nil {
		slog.Error("Failed to create Drive service", "error", err)
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	slog.Debug("Drive client created", "credentials_file", cfg.CredentialsFile)
	return &Client{svc: svc}, nil
}

// CreateFolder creates a folder under the given parent and returns its id.
func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	folder, err := c.svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{parentID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		slog.Error("Drive CreateFolder failed", "error", err, "name", name, "parent", parentID)
		return "", fmt.Errorf("failed to create folder %q: %w", name, err)
	}
	slog.Debug("Drive folder created", "id", folder.Id, "name", name)
	return folder.Id, nil
}

// GetOrCreateFolder returns the id of an existing folder with the given name
// under parentID, creating it when absent.
func (c *Client) GetOrCreateFolder(ctx context.Context, name, parentID string) (string, error) {
	q := fmt.Sprintf("mimeType='%s' and name='%s' and '%s' in parents and trashed=false",
		folderMimeType, escapeQuery(name), escapeQuery(parentID))
	list, err := c.svc.Files.List().Q(q).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		slog.Error("Drive GetOrCreateFolder lookup failed", "error", err, "name", name)
		return "", fmt.Errorf("failed to look up folder %q: %w", name, err)
	}
	if len(list.Files) > 0 {
		slog.Debug("Drive folder reused", "id", list.Files[0].Id, "name", name)
		return list.Files[0].Id, nil
	}
	return c.CreateFolder(ctx, name, parentID)
}

// SetPublicRead grants anyone read access to the given file or folder.
func (c *Client) SetPublicRead(ctx context.Context, id string) error {
	_, err := c.svc.Permissions.Create(id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		slog.Error("Drive SetPublicRead failed", "error", err, "id", id)
		return fmt.Errorf("failed to set public permission on %s: %w", id, err)
	}
	return nil
}

// UploadDir uploads every regular file in localDir into the given folder and
// returns the web links of the uploaded files. Per-file failures are logged
// and skipped; callers treat an empty result for a non-empty directory as
// total failure.
func (c *Client) UploadDir(ctx context.Context, localDir, folderID string) ([]string, error) {
	entries, err := os.ReadDir(localDir)
	if err != nil {
		slog.Error("Drive UploadDir read dir failed", "error", err, "dir", localDir)
		return nil, fmt.Errorf("failed to read staging directory %s: %w", localDir, err)
	}
	// Stable upload order regardless of directory listing order.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var links []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		link, err := c.uploadFile(ctx, filepath.Join(localDir, entry.Name()), entry.Name(), folderID)
		if err != nil {
			slog.Error("Drive UploadDir file upload failed", "error", err, "file", entry.Name())
			continue
		}
		links = append(links, link)
	}
	slog.Debug("Drive UploadDir finished", "dir", localDir, "uploaded", len(links))
	return links, nil
}

func (c *Client) uploadFile(ctx context.Context, path, name, folderID string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	file, err := c.svc.Files.Create(&drive.File{
		Name:    name,
		Parents: []string{folderID},
	}).Media(f).Fields("id, webViewLink").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return file.WebViewLink, nil
}

// SearchFoldersByName returns untrashed folders whose name contains the keyword.
func (c *Client) SearchFoldersByName(ctx context.Context, keyword string) ([]models.FolderInfo, error) {
	q := fmt.Sprintf("mimeType='%s' and name contains '%s' and trashed=false", folderMimeType, escapeQuery(keyword))
	list, err := c.svc.Files.List().Q(q).Fields("files(id, name, parents)").Context(ctx).Do()
	if err != nil {
		slog.Error("Drive SearchFoldersByName failed", "error", err, "keyword", keyword)
		return nil, fmt.Errorf("failed to search folders for %q: %w", keyword, err)
	}
	folders := make([]models.FolderInfo, 0, len(list.Files))
	for _, f := range list.Files {
		folders = append(folders, models.FolderInfo{ID: f.Id, Name: f.Name, Parents: f.Parents})
	}
	slog.Debug("Drive SearchFoldersByName succeeded", "keyword", keyword, "count", len(folders))
	return folders, nil
}

// GetFolderInfo returns the name and parents of a folder by id.
func (c *Client) GetFolderInfo(ctx context.Context, id string) (models.FolderInfo, error) {
	f, err := c.svc.Files.Get(id).Fields("id, name, parents").Context(ctx).Do()
	if err != nil {
		return models.FolderInfo{}, fmt.Errorf("failed to get folder %s: %w", id, err)
	}
	return models.FolderInfo{ID: f.Id, Name: f.Name, Parents: f.Parents}, nil
}

// DeleteFolder deletes a folder by id.
func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	if err := c.svc.Files.Delete(id).Context(ctx).Do(); err != nil {
		slog.Error("Drive DeleteFolder failed", "error", err, "id", id)
		return fmt.Errorf("failed to delete folder %s: %w", id, err)
	}
	slog.Debug("Drive folder deleted", "id", id)
	return nil
}

// escapeQuery escapes backslashes and single quotes for Drive query strings.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
