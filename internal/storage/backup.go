package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/interfaces"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// Compile-time interface check
var _ interfaces.BackupStore = (*FileBackupStore)(nil)

// FileBackupStore keeps one JSON ledger snapshot per user
// (portfolio_{uid}.json). Writes go through a temp file + rename so a crash
// mid-write never leaves a torn snapshot.
type FileBackupStore struct {
	path   string
	logger *common.Logger
}

// NewFileBackupStore creates the backup directory if needed.
func NewFileBackupStore(logger *common.Logger, path string) (*FileBackupStore, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup path %s: %w", path, err)
	}
	return &FileBackupStore{path: path, logger: logger}, nil
}

// sanitizeUID keeps filenames safe for arbitrary user IDs.
func sanitizeUID(uid string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", "\x00", "_")
	return replacer.Replace(uid)
}

func (s *FileBackupStore) filename(uid string) string {
	return filepath.Join(s.path, fmt.Sprintf("portfolio_%s.json", sanitizeUID(uid)))
}

// Save writes the snapshot atomically.
func (s *FileBackupStore) Save(uid string, backup *models.PortfolioBackup) error {
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup for %s: %w", uid, err)
	}

	target := s.filename(uid)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize backup %s: %w", target, err)
	}
	return nil
}

// Load reads the snapshot for uid. Returns os.ErrNotExist-wrapped error when
// no backup has been written.
func (s *FileBackupStore) Load(uid string) (*models.PortfolioBackup, error) {
	data, err := os.ReadFile(s.filename(uid))
	if err != nil {
		return nil, fmt.Errorf("failed to read backup for %s: %w", uid, err)
	}
	var backup models.PortfolioBackup
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("failed to parse backup for %s: %w", uid, err)
	}
	return &backup, nil
}

// Delete removes the snapshot, ignoring a missing file.
func (s *FileBackupStore) Delete(uid string) error {
	if err := os.Remove(s.filename(uid)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete backup for %s: %w", uid, err)
	}
	return nil
}
