// Package badger implements the document store using BadgerHold, the
// embedded default backend.
package badger

import (
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/interfaces"
)

// Store wraps a BadgerHold database and exposes the per-domain stores.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger

	profiles *ProfileStore
	records  *RecordStore
	contacts *ContactStore
}

// Open opens (or creates) the BadgerHold database at path.
func Open(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open document store at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("Document store opened")

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

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// keySep is the composite key separator. Using a null byte prevents
// collisions when user IDs or record keys contain ":" characters.
const keySep = "\x00"
