// Package surreal implements the document store on SurrealDB, the optional
// server-backed engine.
package surreal

import (
	"context"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/interfaces"
)

// Store wraps a SurrealDB connection and exposes the per-domain stores.
type Store struct {
	db     *surrealdb.DB
	logger *common.Logger

	profiles *ProfileStore
	records  *RecordStore
	contacts *ContactStore
}

// Connect opens a SurrealDB connection, signs in, selects the configured
// namespace/database, and ensures the tables exist.
func Connect(logger *common.Logger, cfg *common.SurrealConfig) (*Store, error) {
	ctx := context.Background()

	db, err := surrealdb.New(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": cfg.Username,
		"pass": cfg.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	// SurrealDB v3 errors on querying non-existent tables
	for _, table := range []string{"user_profile", "user_record", "contact_submission"} {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return nil, fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}

	logger.Info().
		Str("address", cfg.URL).
		Str("namespace", cfg.Namespace).
		Str("database", cfg.Database).
		Msg("SurrealDB document store initialized")

	s := &Store{db: db, logger: logger}
	s.profiles = &ProfileStore{db: db, logger: logger}
	s.records = &RecordStore{db: db, logger: logger}
	s.contacts = &ContactStore{db: db, logger: logger}
	return s, nil
}

// Profiles returns the profile document store.
func (s *Store) Profiles() interfaces.ProfileStore { return s.profiles }

// Records returns the generic per-user record store.
func (s *Store) Records() interfaces.RecordStore { return s.records }

// Contacts returns the contact-inbox store.
func (s *Store) Contacts() interfaces.ContactStore { return s.contacts }

// Close closes the SurrealDB connection.
func (s *Store) Close() error {
	return s.db.Close(context.Background())
}

// isNotFoundError detects SurrealDB "record does not exist" failures.
func isNotFoundError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "not exist")
}
