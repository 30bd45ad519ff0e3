package surreal

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/interfaces"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// RecordStore persists generic per-user records in the user_record table.
type RecordStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func recordID(userID, subject, key string) string {
	return userID + "_" + subject + "_" + key
}

func (s *RecordStore) Get(ctx context.Context, userID, subject, key string) (*models.UserRecord, error) {
	record, err := surrealdb.Select[models.UserRecord](ctx, s.db, surrealmodels.NewRecordID("user_record", recordID(userID, subject, key)))
	if err != nil {
		return nil, fmt.Errorf("failed to select %s record: %w", subject, err)
	}
	if record == nil || record.UserID == "" {
		return nil, fmt.Errorf("%s '%s' not found for user '%s'", subject, key, userID)
	}
	return record, nil
}

func (s *RecordStore) Put(ctx context.Context, record *models.UserRecord) error {
	if existing, err := s.Get(ctx, record.UserID, record.Subject, record.Key); err == nil {
		record.Version = existing.Version + 1
	} else {
		record.Version = 1
	}
	record.DateTime = time.Now()

	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID("user_record", recordID(record.UserID, record.Subject, record.Key)),
		"record": record,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.UserRecord](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to put %s record after retries: %w", record.Subject, lastErr)
}

func (s *RecordStore) Delete(ctx context.Context, userID, subject, key string) error {
	_, err := surrealdb.Delete[models.UserRecord](ctx, s.db, surrealmodels.NewRecordID("user_record", recordID(userID, subject, key)))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete %s record: %w", subject, err)
	}
	return nil
}

func (s *RecordStore) List(ctx context.Context, userID, subject string) ([]*models.UserRecord, error) {
	return s.Query(ctx, userID, subject, interfaces.QueryOptions{})
}

func (s *RecordStore) Query(ctx context.Context, userID, subject string, opts interfaces.QueryOptions) ([]*models.UserRecord, error) {
	sql := "SELECT * FROM user_record WHERE user_id = $user_id AND subject = $subject"

	if opts.OrderBy == "datetime_asc" {
		sql += " ORDER BY datetime ASC"
	} else {
		sql += " ORDER BY datetime DESC"
	}
	if opts.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	vars := map[string]any{
		"user_id": userID,
		"subject": subject,
	}

	results, err := surrealdb.Query[[]models.UserRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s records: %w", subject, err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.UserRecord
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}
