package flow

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// stagingDirPermissions is the mode for per-attempt staging directories.
const stagingDirPermissions = 0755

// NewStagingDir creates a unique staging directory for one listing attempt
// under root. Directories are never reused across attempts.
func NewStagingDir(root, sender string) (string, error) {
	dir := filepath.Join(root, sanitizeSender(sender)+"_"+uuid.NewString())
	if err := os.MkdirAll(dir, stagingDirPermissions); err != nil {
		slog.Error("Failed to create staging directory", "error", err, "dir", dir)
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	slog.Debug("Staging directory created", "dir", dir, "sender", sender)
	return dir, nil
}

// stagePhotoName builds the staged filename for the seq-th photo of one
// listing attempt. seq must be unique for the attempt's staging directory, so
// callers pass the running staged count rather than the per-delivery index:
// the timestamp alone cannot distinguish two deliveries within one second.
func stagePhotoName(seq int, contentType string) string {
	return fmt.Sprintf("photo_%s_%d%s", time.Now().Format("20060102_150405"), seq, mediaExtension(contentType))
}

// mediaExtension maps a declared content type to a file extension. JPEG-family
// kinds map to .jpg; anything else defaults to .png.
func mediaExtension(contentType string) string {
	if strings.Contains(strings.ToLower(contentType), "jpeg") {
		return ".jpg"
	}
	return ".png"
}

// sanitizeSender makes a sender id safe for use in a directory name.
func sanitizeSender(sender string) string {
	return strings.NewReplacer(":", "_", "+", "", "/", "_").Replace(sender)
}
