package storage

import (
	"bytes"
	"encoding/binary"

	"github.com/praxis-ledger/praxis/common"
	"golang.org/x/exp/slices"
)

// Change is a single buffered mutation of one key: either storing a
// value or deleting the key.
type Change struct {
	Value   []byte
	Deleted bool
}

// PatchEntry is one keyed change within a patch.
type PatchEntry struct {
	Key    []byte
	Change Change
}

// Patch is the finalized, immutable change-set extracted from a fork.
// Its entries are sorted by key and unique, making the encoding - and
// therefore the digest - deterministic across nodes replaying the same
// transaction log.
type Patch struct {
	entries []PatchEntry
}

// NewPatch creates a patch from the given entries. The entries are
// sorted by key; for duplicate keys the later entry wins.
func NewPatch(entries []PatchEntry) Patch {
	slices.SortStableFunc(entries, func(a, b PatchEntry) int {
		return bytes.Compare(a.Key, b.Key)
	})
	unique := entries[:0]
	for i := 0; i < len(entries); i++ {
		if i+1 < len(entries) && bytes.Equal(entries[i].Key, entries[i+1].Key) {
			continue
		}
		unique = append(unique, entries[i])
	}
	return Patch{entries: unique}
}

// Entries provides the changes of this patch in ascending key order.
// The returned slice must not be modified.
func (p Patch) Entries() []PatchEntry {
	return p.entries
}

// Size returns the number of changes in this patch.
func (p Patch) Size() int {
	return len(p.entries)
}

// IsEmpty is true if the patch contains no changes.
func (p Patch) IsEmpty() bool {
	return len(p.entries) == 0
}

const patchEncodingVersion byte = 0

// Hash computes the Keccak-256 digest of the canonical encoding of
// this patch. Two patches carrying the same changes hash identically,
// which lets replaying nodes cross-check commit effects.
func (p Patch) Hash() common.Hash {
	size := 1
	for _, entry := range p.entries {
		size += 4 + len(entry.Key) + 1 + 4 + len(entry.Change.Value)
	}
	data := make([]byte, 0, size)
	data = append(data, patchEncodingVersion)
	for _, entry := range p.entries {
		data = binary.BigEndian.AppendUint32(data, uint32(len(entry.Key)))
		data = append(data, entry.Key...)
		if entry.Change.Deleted {
			data = append(data, 1)
			continue
		}
		data = append(data, 0)
		data = binary.BigEndian.AppendUint32(data, uint32(len(entry.Change.Value)))
		data = append(data, entry.Change.Value...)
	}
	return common.Keccak256(data)
}
