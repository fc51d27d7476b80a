package memory

import (
	"bytes"
	"sort"
	"sync"

	"github.com/praxis-ledger/praxis/storage"
)

// Database is an in-memory implementation of the storage engine. The
// committed state lives in an immutable sorted table; merging a patch
// publishes a fresh table, so snapshots are O(1) and stay frozen no
// matter how many merges follow them.
type Database struct {
	mu    sync.Mutex
	table *table
}

// NewDatabase creates an empty in-memory database.
func NewDatabase() *Database {
	return &Database{table: &table{}}
}

// Snapshot returns an isolated read view of the latest committed
// state. It never blocks and never fails.
func (d *Database) Snapshot() (storage.Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return &snapshot{table: d.table}, nil
}

// Fork returns a writable overlay seeded from the latest committed
// state.
func (d *Database) Fork() (*storage.Fork, error) {
	snap, err := d.Snapshot()
	if err != nil {
		return nil, err
	}
	return storage.NewFork(snap), nil
}

// Merge applies all changes of the patch at once by publishing a new
// table. Snapshots taken before the merge keep reading the old table.
func (d *Database) Merge(patch storage.Patch) error {
	if patch.IsEmpty() {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.table = d.table.apply(patch)
	return nil
}

func (d *Database) Close() error {
	return nil
}

type entry struct {
	key, value []byte
}

// table is a sorted list of key/value pairs. It is immutable once
// published by a merge.
type table struct {
	entries []entry
}

// findItem finds a key in the table, if it exists. If the key does not
// exist, the returned index is the position at which it would have to
// be inserted to keep the table sorted.
func (t *table) findItem(key []byte) (index int, exists bool) {
	index = sort.Search(len(t.entries), func(i int) bool {
		return bytes.Compare(t.entries[i].key, key) >= 0
	})
	exists = index < len(t.entries) && bytes.Equal(t.entries[index].key, key)
	return index, exists
}

// apply merges the sorted patch entries with the sorted table into a
// freshly allocated table, leaving the receiver untouched.
func (t *table) apply(patch storage.Patch) *table {
	changes := patch.Entries()
	merged := make([]entry, 0, len(t.entries)+len(changes))

	i, j := 0, 0
	for i < len(t.entries) && j < len(changes) {
		cmp := bytes.Compare(t.entries[i].key, changes[j].Key)
		switch {
		case cmp < 0:
			merged = append(merged, t.entries[i])
			i++
		case cmp > 0:
			if !changes[j].Change.Deleted {
				merged = append(merged, entry{key: changes[j].Key, value: changes[j].Change.Value})
			}
			j++
		default:
			if !changes[j].Change.Deleted {
				merged = append(merged, entry{key: changes[j].Key, value: changes[j].Change.Value})
			}
			i++
			j++
		}
	}
	merged = append(merged, t.entries[i:]...)
	for ; j < len(changes); j++ {
		if !changes[j].Change.Deleted {
			merged = append(merged, entry{key: changes[j].Key, value: changes[j].Change.Value})
		}
	}

	return &table{entries: merged}
}

// snapshot is a frozen view of one published table.
type snapshot struct {
	table *table
}

func (s *snapshot) Get(key []byte) ([]byte, error) {
	if index, exists := s.table.findItem(key); exists {
		return s.table.entries[index].value, nil
	}
	return nil, nil
}

func (s *snapshot) Has(key []byte) (bool, error) {
	_, exists := s.table.findItem(key)
	return exists, nil
}

func (s *snapshot) Iterator(from []byte) storage.Iterator {
	index := 0
	if from != nil {
		index, _ = s.table.findItem(from)
	}
	return &iterator{entries: s.table.entries, index: index}
}

func (s *snapshot) Release() {
	// nothing to free; the table is shared and garbage collected
}

// iterator is a cursor over the entries of one frozen table.
type iterator struct {
	entries []entry
	index   int
}

func (it *iterator) Next() (key, value []byte, ok bool) {
	key, value, ok = it.Peek()
	if ok {
		it.index++
	}
	return key, value, ok
}

func (it *iterator) Peek() (key, value []byte, ok bool) {
	if it.index >= len(it.entries) {
		return nil, nil, false
	}
	return it.entries[it.index].key, it.entries[it.index].value, true
}
