// Package storage provides document persistence with pluggable backends.
package storage

import (
	"fmt"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/interfaces"
	"github.com/stockseer-ai/stockseer-server/internal/storage/badger"
	"github.com/stockseer-ai/stockseer-server/internal/storage/surreal"
)

// Backend type constants.
const (
	BackendBadger  = "badger"
	BackendSurreal = "surreal"
)

// NewStorageManager creates a storage manager for the configured backend.
// Supported backends: "badger" (embedded, default), "surreal".
func NewStorageManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	backup, err := NewFileBackupStore(logger, config.Storage.Backup.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backup store: %w", err)
	}

	backend := config.Storage.Backend
	if backend == "" {
		backend = BackendBadger
	}

	switch backend {
	case BackendBadger:
		store, err := badger.Open(logger, config.Storage.Path)
		if err != nil {
			return nil, err
		}
		return &manager{docs: store, backup: backup}, nil

	case BackendSurreal:
		store, err := surreal.Connect(logger, &config.Storage.Surreal)
		if err != nil {
			return nil, err
		}
		return &manager{docs: store, backup: backup}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: badger, surreal)", backend)
	}
}

// docStore is the backend-agnostic document store surface.
type docStore interface {
	Profiles() interfaces.ProfileStore
	Records() interfaces.RecordStore
	Contacts() interfaces.ContactStore
	Close() error
}

type manager struct {
	docs   docStore
	backup interfaces.BackupStore
}

func (m *manager) Profiles() interfaces.ProfileStore { return m.docs.Profiles() }
func (m *manager) Records() interfaces.RecordStore   { return m.docs.Records() }
func (m *manager) Contacts() interfaces.ContactStore { return m.docs.Contacts() }
func (m *manager) Backups() interfaces.BackupStore   { return m.backup }

func (m *manager) Close() error {
	return m.docs.Close()
}
