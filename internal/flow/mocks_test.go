package flow

import (
	"context"
	"fmt"
	"sync"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/models"
)

// mockParser returns canned fields or an error.
type mockParser struct {
	fields map[string]string
	err    error
	calls  int
}

func (m *mockParser) Parse(ctx context.Context, text string) (map[string]string, error) {
	m.calls++
	return m.fields, m.err
}

// mockDrive is an in-memory DriveService recording calls.
type mockDrive struct {
	mu sync.Mutex

	createErr     error
	permissionErr error
	uploadLinks   []string
	uploadErr     error
	searchResults []models.FolderInfo
	searchErr     error
	folderInfo    map[string]models.FolderInfo
	infoErr       error
	deleteErr     error

	createdFolders []string
	uploadedDirs   []string
	deletedIDs     []string
	infoCalls      []string
	nextID         int
}

func newMockDrive() *mockDrive {
	return &mockDrive{folderInfo: make(map[string]models.FolderInfo)}
}

func (m *mockDrive) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return "", m.createErr
	}
	m.nextID++
	id := fmt.Sprintf("folder-%d", m.nextID)
	m.createdFolders = append(m.createdFolders, name)
	return id, nil
}

func (m *mockDrive) GetOrCreateFolder(ctx context.Context, name, parentID string) (string, error) {
	return m.CreateFolder(ctx, name, parentID)
}

func (m *mockDrive) SetPublicRead(ctx context.Context, id string) error {
	return m.permissionErr
}

func (m *mockDrive) UploadDir(ctx context.Context, localDir, folderID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.uploadedDirs = append(m.uploadedDirs, localDir)
	return m.uploadLinks, nil
}

func (m *mockDrive) SearchFoldersByName(ctx context.Context, keyword string) ([]models.FolderInfo, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResults, nil
}

func (m *mockDrive) GetFolderInfo(ctx context.Context, id string) (models.FolderInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infoCalls = append(m.infoCalls, id)
	if m.infoErr != nil {
		return models.FolderInfo{}, m.infoErr
	}
	info, ok := m.folderInfo[id]
	if !ok {
		return models.FolderInfo{}, fmt.Errorf("folder %s not found", id)
	}
	return info, nil
}

func (m *mockDrive) DeleteFolder(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}
