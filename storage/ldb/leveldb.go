package ldb

import (
	"bytes"
	"fmt"

	"github.com/praxis-ledger/praxis/storage"
	"github.com/syndtr/goleveldb/leveldb"
	ldbiterator "github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Database is a LevelDB-backed implementation of the storage engine.
// Snapshots map to LevelDB snapshots and merges to atomic batch
// writes, so the all-or-nothing contract of Merge is carried by the
// underlying store.
type Database struct {
	db *leveldb.DB
}

// OpenDatabase opens (or creates) a LevelDB store in the given
// directory.
func OpenDatabase(path string) (*Database, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb at %s; %w", path, err)
	}
	return &Database{db: db}, nil
}

func (d *Database) Snapshot() (storage.Snapshot, error) {
	snap, err := d.db.GetSnapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire leveldb snapshot; %w", err)
	}
	return &snapshot{snap: snap}, nil
}

func (d *Database) Fork() (*storage.Fork, error) {
	snap, err := d.Snapshot()
	if err != nil {
		return nil, err
	}
	return storage.NewFork(snap), nil
}

func (d *Database) Merge(patch storage.Patch) error {
	if patch.IsEmpty() {
		return nil
	}
	batch := new(leveldb.Batch)
	for _, entry := range patch.Entries() {
		if entry.Change.Deleted {
			batch.Delete(entry.Key)
		} else {
			batch.Put(entry.Key, entry.Change.Value)
		}
	}
	if err := d.db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return fmt.Errorf("failed to merge patch into leveldb; %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// snapshot wraps a LevelDB snapshot. It tracks the cursors it handed
// out so that Release can free cursors that were not fully drained.
type snapshot struct {
	snap    *leveldb.Snapshot
	cursors []*iterator
}

func (s *snapshot) Get(key []byte) ([]byte, error) {
	value, err := s.snap.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key from leveldb snapshot; %w", err)
	}
	return value, nil
}

func (s *snapshot) Has(key []byte) (bool, error) {
	exists, err := s.snap.Has(key, nil)
	if err != nil {
		return false, fmt.Errorf("failed to probe key in leveldb snapshot; %w", err)
	}
	return exists, nil
}

func (s *snapshot) Iterator(from []byte) storage.Iterator {
	var slice *util.Range
	if from != nil {
		slice = &util.Range{Start: bytes.Clone(from)}
	}
	cursor := &iterator{it: s.snap.NewIterator(slice, nil)}
	s.cursors = append(s.cursors, cursor)
	return cursor
}

func (s *snapshot) Release() {
	for _, cursor := range s.cursors {
		cursor.release()
	}
	s.cursors = nil
	s.snap.Release()
}

// iterator adapts a LevelDB iterator to the single-pass peek-ahead
// cursor contract. LevelDB reuses its key/value buffers, so the
// pending pair is copied out.
type iterator struct {
	it         ldbiterator.Iterator
	key, value []byte
	ready      bool
	done       bool
}

func (it *iterator) Next() (key, value []byte, ok bool) {
	key, value, ok = it.Peek()
	it.ready = false
	return key, value, ok
}

func (it *iterator) Peek() (key, value []byte, ok bool) {
	if it.done {
		return nil, nil, false
	}
	if !it.ready {
		if !it.it.Next() {
			it.release()
			return nil, nil, false
		}
		it.key = bytes.Clone(it.it.Key())
		it.value = bytes.Clone(it.it.Value())
		it.ready = true
	}
	return it.key, it.value, true
}

func (it *iterator) release() {
	if !it.done {
		it.done = true
		it.it.Release()
	}
}
