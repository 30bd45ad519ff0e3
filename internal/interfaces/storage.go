// Package interfaces defines service contracts for StockSeer
package interfaces

import (
	"context"

	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// StorageManager coordinates all storage backends.
type StorageManager interface {
	Profiles() ProfileStore
	Records() RecordStore
	Contacts() ContactStore
	Backups() BackupStore

	Close() error
}

// ProfileStore manages user profile documents (users/{uid}).
// Writes overwrite the whole document (last-write-wins).
type ProfileStore interface {
	Get(ctx context.Context, uid string) (*models.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	Save(ctx context.Context, profile *models.UserProfile) error
	Delete(ctx context.Context, uid string) error
	List(ctx context.Context) ([]string, error)
}

// RecordStore manages generic per-user documents keyed by (user, subject, key).
type RecordStore interface {
	Get(ctx context.Context, userID, subject, key string) (*models.UserRecord, error)
	Put(ctx context.Context, record *models.UserRecord) error
	Delete(ctx context.Context, userID, subject, key string) error
	List(ctx context.Context, userID, subject string) ([]*models.UserRecord, error)
	Query(ctx context.Context, userID, subject string, opts QueryOptions) ([]*models.UserRecord, error)
}

// QueryOptions configures query behavior for RecordStore.
type QueryOptions struct {
	Limit   int
	OrderBy string // "datetime_desc" (default), "datetime_asc"
}

// ContactStore manages contact-inbox submissions.
type ContactStore interface {
	Create(ctx context.Context, sub *models.ContactSubmission) error
	List(ctx context.Context, limit int) ([]*models.ContactSubmission, error)
}

// BackupStore keeps one crash-recovery ledger snapshot per user.
type BackupStore interface {
	Save(uid string, backup *models.PortfolioBackup) error
	Load(uid string) (*models.PortfolioBackup, error)
	Delete(uid string) error
}
