package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/interfaces"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// RecordStore persists generic per-user records (notes, reports, chat
// transcripts) as UserRecord entries.
type RecordStore struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// compositeKey builds the storage key: user_id + \x00 + subject + \x00 + key
func compositeKey(userID, subject, key string) string {
	return userID + keySep + subject + keySep + key
}

func (s *RecordStore) Get(_ context.Context, userID, subject, key string) (*models.UserRecord, error) {
	ck := compositeKey(userID, subject, key)
	var rec models.UserRecord
	if err := s.db.Get(ck, &rec); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("%s '%s' not found for user '%s'", subject, key, userID)
		}
		return nil, fmt.Errorf("failed to get %s '%s': %w", subject, key, err)
	}
	return &rec, nil
}

func (s *RecordStore) Put(_ context.Context, record *models.UserRecord) error {
	ck := compositeKey(record.UserID, record.Subject, record.Key)

	// Read existing to increment version
	var existing models.UserRecord
	if err := s.db.Get(ck, &existing); err == nil {
		record.Version = existing.Version + 1
	} else {
		record.Version = 1
	}
	record.DateTime = time.Now()

	if err := s.db.Upsert(ck, record); err != nil {
		return fmt.Errorf("failed to put %s '%s': %w", record.Subject, record.Key, err)
	}
	return nil
}

func (s *RecordStore) Delete(_ context.Context, userID, subject, key string) error {
	ck := compositeKey(userID, subject, key)
	if err := s.db.Delete(ck, models.UserRecord{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete %s '%s': %w", subject, key, err)
	}
	return nil
}

func (s *RecordStore) List(ctx context.Context, userID, subject string) ([]*models.UserRecord, error) {
	return s.Query(ctx, userID, subject, interfaces.QueryOptions{})
}

func (s *RecordStore) Query(_ context.Context, userID, subject string, opts interfaces.QueryOptions) ([]*models.UserRecord, error) {
	var all []models.UserRecord
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to query %s records: %w", subject, err)
	}
	var result []*models.UserRecord
	for i := range all {
		if all[i].UserID == userID && all[i].Subject == subject {
			rec := all[i]
			result = append(result, &rec)
		}
	}

	if opts.OrderBy == "datetime_asc" {
		sort.Slice(result, func(i, j int) bool {
			return result[i].DateTime.Before(result[j].DateTime)
		})
	} else {
		// Default: datetime_desc
		sort.Slice(result, func(i, j int) bool {
			return result[i].DateTime.After(result[j].DateTime)
		})
	}

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}

	return result, nil
}
