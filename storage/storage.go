package storage

//go:generate mockgen -source storage.go -destination storage_mock.go -package storage

// Reader is the common read surface of snapshots and forks. Keys are
// arbitrary byte sequences; iteration follows their lexicographic
// order.
type Reader interface {
	// Get returns the value stored under the given key, or nil if the
	// key is not present.
	Get(key []byte) ([]byte, error)

	// Has returns true if a value is stored under the given key.
	Has(key []byte) (bool, error)

	// Iterator returns a fresh cursor positioned at the first key
	// greater than or equal to from. A nil from starts at the first
	// key. The cursor is single-pass; a new one may be requested from
	// the same view at any time.
	Iterator(from []byte) Iterator
}

// Snapshot is an immutable, isolated read view of the database as of a
// point in time. Its reads are stable even if patches are merged into
// the underlying database concurrently.
type Snapshot interface {
	Reader

	// Release frees resources associated with this view. The snapshot
	// must not be used afterwards.
	Release()
}

// Iterator is a single-pass cursor over an ordered sequence of
// key/value pairs. It is not restartable once consumed; request a new
// cursor from the originating view instead.
type Iterator interface {
	// Next returns the next pair and advances the cursor. ok is false
	// once the sequence is exhausted.
	Next() (key, value []byte, ok bool)

	// Peek returns the next pair without advancing the cursor, letting
	// merge-style joins inspect the pending item of several cursors
	// before consuming one of them.
	Peek() (key, value []byte, ok bool)
}

// Database is an ordered key/value store providing isolated read views
// and buffered write overlays that merge atomically.
//
// Merges must be serialized by the caller; the store performs no
// conflict detection between concurrently open forks.
type Database interface {
	// Snapshot returns an isolated read-only view of the latest
	// committed state.
	Snapshot() (Snapshot, error)

	// Fork returns a writable overlay seeded from the latest committed
	// state.
	Fork() (*Fork, error)

	// Merge atomically applies every change of the patch; either all
	// changes become visible to subsequent snapshots and forks or, on
	// an I/O failure, none do.
	Merge(patch Patch) error

	// Close flushes and closes the store.
	Close() error
}
