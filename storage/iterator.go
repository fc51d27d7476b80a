package storage

import "bytes"

// overlayIterator merges the ordered change list of a fork with the
// ordered cursor of its base snapshot. Overlay entries shadow base
// pairs with the same key; deletions hide them entirely.
type overlayIterator struct {
	overlay []PatchEntry
	base    Iterator

	key, value []byte
	ready      bool
	done       bool
}

func newOverlayIterator(overlay []PatchEntry, base Iterator) *overlayIterator {
	return &overlayIterator{overlay: overlay, base: base}
}

func (it *overlayIterator) Next() (key, value []byte, ok bool) {
	key, value, ok = it.Peek()
	it.ready = false
	return key, value, ok
}

func (it *overlayIterator) Peek() (key, value []byte, ok bool) {
	if it.done {
		return nil, nil, false
	}
	if !it.ready {
		it.advance()
		if it.done {
			return nil, nil, false
		}
	}
	return it.key, it.value, true
}

// advance moves the cursor to the next visible pair, consuming overlay
// entries and base pairs as needed.
func (it *overlayIterator) advance() {
	for {
		baseKey, baseValue, baseOk := it.base.Peek()

		if len(it.overlay) == 0 {
			if !baseOk {
				it.done = true
				return
			}
			it.base.Next()
			it.key, it.value, it.ready = baseKey, baseValue, true
			return
		}

		entry := it.overlay[0]
		cmp := -1
		if baseOk {
			cmp = bytes.Compare(entry.Key, baseKey)
		}
		switch {
		case cmp < 0:
			// pending overlay entry comes first
			it.overlay = it.overlay[1:]
			if entry.Change.Deleted {
				continue // tombstone for a key absent in the base
			}
			it.key, it.value, it.ready = entry.Key, entry.Change.Value, true
			return
		case cmp == 0:
			// overlay shadows the base pair
			it.overlay = it.overlay[1:]
			it.base.Next()
			if entry.Change.Deleted {
				continue
			}
			it.key, it.value, it.ready = entry.Key, entry.Change.Value, true
			return
		default:
			it.base.Next()
			it.key, it.value, it.ready = baseKey, baseValue, true
			return
		}
	}
}
