// Package badgerstore implements the db repositories on an embedded Badger database
package badgerstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
	"github.com/timshannon/badgerhold/v4"
)

type Store struct {
	hold *badgerhold.Store
}

// Open opens (or creates) a Badger database in dir
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Clean(dir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create badger directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = dir
	options.ValueDir = dir
	options.Logger = nil

	hold, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	log.Info().Str("path", dir).Msg("📋 Badger store opened")
	return &Store{hold: hold}, nil
}

// OpenInMemory opens a throwaway store that lives as long as the process
func OpenInMemory() (*Store, error) {
	options := badgerhold.DefaultOptions
	options.Options = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)

	hold, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory badger database: %w", err)
	}
	return &Store{hold: hold}, nil
}

func (s *Store) Close() error {
	if s.hold != nil {
		return s.hold.Close()
	}
	return nil
}
