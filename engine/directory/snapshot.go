package directory

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/CodeWithNed/company-vector-db/engine/domain"
)

// snapshotKey holds the whole directory as one value. Directories are small
// (thousands of records, not millions) and a single key keeps the replace
// atomic.
var snapshotKey = []byte("directory/snapshot")

type snapshot struct {
	Employees []domain.Employee `json:"employees"`
}

func (s *Store) persist(employees []domain.Employee) error {
	data, err := json.Marshal(snapshot{Employees: employees})
	if err != nil {
		return fmt.Errorf("directory: marshal snapshot: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey, data)
	})
	if err != nil {
		return fmt.Errorf("directory: persist snapshot: %w", err)
	}
	return nil
}

func (s *Store) restore() error {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("directory: read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("directory: decode snapshot: %w", err)
	}

	records := make(map[string]domain.Employee, len(snap.Employees))
	order := make([]domain.Metadata, 0, len(snap.Employees))
	for _, e := range snap.Employees {
		records[e.ID] = e
		order = append(order, domain.MetadataFor(e))
	}

	s.mu.Lock()
	s.records = records
	s.order = order
	s.mu.Unlock()
	return nil
}
