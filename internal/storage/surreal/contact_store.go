package surreal

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// ContactStore persists contact form submissions in the contact_submission table.
type ContactStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func (s *ContactStore) Create(ctx context.Context, submission *models.ContactSubmission) error {
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = time.Now()
	}

	sql := "UPSERT $rid CONTENT $submission"
	vars := map[string]any{
		"rid":        surrealmodels.NewRecordID("contact_submission", submission.ID),
		"submission": submission,
	}

	_, err := surrealdb.Query[[]models.ContactSubmission](ctx, s.db, sql, vars)
	if err != nil {
		return fmt.Errorf("failed to create contact submission: %w", err)
	}
	return nil
}

func (s *ContactStore) List(ctx context.Context, limit int) ([]*models.ContactSubmission, error) {
	sql := "SELECT * FROM contact_submission ORDER BY created_at DESC"
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", limit)
	}

	results, err := surrealdb.Query[[]models.ContactSubmission](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact submissions: %w", err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.ContactSubmission
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}
