// Package directory holds the in-memory employee record store and its
// Badger-backed snapshot. Records and their flattened metadata are replaced
// wholesale on each load; the snapshot lets a restart restore both without
// re-embedding.
package directory

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/CodeWithNed/company-vector-db/engine/domain"
)

// Store is the record store. All methods are safe for concurrent use.
type Store struct {
	db *badger.DB

	mu      sync.RWMutex
	records map[string]domain.Employee
	order   []domain.Metadata // load order
}

// badgerLoggerAdapter routes Badger's logging through slog.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens (or creates) the store at path and restores any persisted
// snapshot. With inMemory set, nothing touches disk; used in tests.
func Open(path string, inMemory bool) (*Store, error) {
	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("directory: create %s: %w", path, err)
		}
		opts = badger.DefaultOptions(path)
	}
	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("directory: open badger: %w", err)
	}

	s := &Store{
		db:      db,
		records: make(map[string]domain.Employee),
	}
	if err := s.restore(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Len returns the number of loaded records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns the record for an employee ID.
func (s *Store) Get(id string) (domain.Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.records[id]
	return e, ok
}

// All returns the loaded records in load order.
func (s *Store) All() []domain.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Employee, 0, len(s.order))
	for _, m := range s.order {
		out = append(out, s.records[m.ID])
	}
	return out
}

// Metadata returns a copy of the metadata sequence in load order.
func (s *Store) Metadata() []domain.Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Metadata, len(s.order))
	copy(out, s.order)
	return out
}

// Replace persists the batch as the new snapshot and swaps the in-memory
// state. The snapshot is a single key, so the write is atomic; on persist
// failure the previous in-memory state is kept.
func (s *Store) Replace(employees []domain.Employee) error {
	records := make(map[string]domain.Employee, len(employees))
	order := make([]domain.Metadata, 0, len(employees))
	for _, e := range employees {
		records[e.ID] = e
		order = append(order, domain.MetadataFor(e))
	}

	if err := s.persist(employees); err != nil {
		return err
	}

	s.mu.Lock()
	s.records = records
	s.order = order
	s.mu.Unlock()
	return nil
}

// ManagerChain walks up to levels manager references starting from id. The
// chain stops at the first missing record or top-level employee.
func (s *Store) ManagerChain(id string, levels int) []domain.ManagerRef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chain []domain.ManagerRef
	current := id
	for range levels {
		e, ok := s.records[current]
		if !ok || e.Manager == nil {
			break
		}
		chain = append(chain, *e.Manager)
		current = e.Manager.ID
	}
	return chain
}
