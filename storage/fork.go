package storage

import (
	"bytes"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Fork is a mutable, in-memory overlay of changes on top of a base
// snapshot. Reads see the buffered changes layered over the base view;
// the underlying database is never touched until the extracted patch
// is merged.
//
// A fork is bound to a single call chain and must not be accessed from
// multiple goroutines at once.
type Fork struct {
	base    Snapshot
	changes map[string]Change
}

// NewFork creates a writable overlay on top of the given base view.
func NewFork(base Snapshot) *Fork {
	return &Fork{
		base:    base,
		changes: make(map[string]Change),
	}
}

// Get returns the value visible through this fork: a buffered change
// if one exists for the key, the base snapshot's value otherwise.
func (f *Fork) Get(key []byte) ([]byte, error) {
	if change, exists := f.changes[string(key)]; exists {
		if change.Deleted {
			return nil, nil
		}
		return change.Value, nil
	}
	return f.base.Get(key)
}

// Has returns true if a value for the key is visible through this fork.
func (f *Fork) Has(key []byte) (bool, error) {
	if change, exists := f.changes[string(key)]; exists {
		return !change.Deleted, nil
	}
	return f.base.Has(key)
}

// Put buffers the assignment of the value to the key. The inputs are
// copied; the caller may reuse its slices.
func (f *Fork) Put(key, value []byte) {
	f.changes[string(key)] = Change{Value: bytes.Clone(value)}
}

// Delete buffers the removal of the key.
func (f *Fork) Delete(key []byte) {
	f.changes[string(key)] = Change{Deleted: true}
}

// Iterator returns a cursor over the pairs visible through this fork,
// merging the buffered overlay with the base snapshot. Changes applied
// to the fork after the cursor was created are not reflected by it.
func (f *Fork) Iterator(from []byte) Iterator {
	return newOverlayIterator(f.sortedChanges(from), f.base.Iterator(from))
}

// IntoPatch finalizes the buffered changes into an immutable patch and
// releases the base snapshot. The fork must not be used afterwards.
func (f *Fork) IntoPatch() Patch {
	entries := make([]PatchEntry, 0, len(f.changes))
	for key, change := range f.changes {
		entries = append(entries, PatchEntry{Key: []byte(key), Change: change})
	}
	f.base.Release()
	f.changes = nil
	return NewPatch(entries)
}

// Release discards all buffered changes and releases the base
// snapshot. The fork must not be used afterwards.
func (f *Fork) Release() {
	f.base.Release()
	f.changes = nil
}

func (f *Fork) sortedChanges(from []byte) []PatchEntry {
	keys := maps.Keys(f.changes)
	slices.Sort(keys)
	entries := make([]PatchEntry, 0, len(keys))
	for _, key := range keys {
		if from != nil && key < string(from) {
			continue
		}
		entries = append(entries, PatchEntry{Key: []byte(key), Change: f.changes[key]})
	}
	return entries
}
