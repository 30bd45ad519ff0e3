package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// ContactStore persists contact-inbox submissions.
type ContactStore struct {
	db     *badgerhold.Store
	logger *common.Logger
}

func contactKey(id string) string {
	return "contact" + keySep + id
}

func (s *ContactStore) Create(_ context.Context, sub *models.ContactSubmission) error {
	if sub.ID == "" {
		return fmt.Errorf("contact submission id is required")
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	if err := s.db.Insert(contactKey(sub.ID), sub); err != nil {
		return fmt.Errorf("failed to save contact submission '%s': %w", sub.ID, err)
	}
	return nil
}

func (s *ContactStore) List(_ context.Context, limit int) ([]*models.ContactSubmission, error) {
	var all []models.ContactSubmission
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list contact submissions: %w", err)
	}

	// Most recent first
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	result := make([]*models.ContactSubmission, 0, len(all))
	for i := range all {
		if limit > 0 && len(result) >= limit {
			break
		}
		sub := all[i]
		result = append(result, &sub)
	}
	return result, nil
}
