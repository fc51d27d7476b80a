package storage

import (
	"testing"
)

func TestNewPatch_EntriesAreSortedAndDeduplicated(t *testing.T) {
	patch := NewPatch([]PatchEntry{
		{Key: []byte("b"), Change: Change{Value: []byte("old")}},
		{Key: []byte("a"), Change: Change{Value: []byte("1")}},
		{Key: []byte("b"), Change: Change{Value: []byte("new")}},
	})

	entries := patch.Entries()
	if len(entries) != 2 {
		t.Fatalf("unexpected number of entries, wanted 2, got %d", len(entries))
	}
	if string(entries[0].Key) != "a" {
		t.Errorf("unexpected first key, wanted a, got %q", entries[0].Key)
	}
	if string(entries[1].Key) != "b" || string(entries[1].Change.Value) != "new" {
		t.Errorf("later duplicate did not win, got %q=%q", entries[1].Key, entries[1].Change.Value)
	}
}

func TestPatch_EmptyPatchIsReportedAsEmpty(t *testing.T) {
	patch := NewPatch(nil)
	if !patch.IsEmpty() {
		t.Errorf("empty patch not reported as empty")
	}
	if patch.Size() != 0 {
		t.Errorf("unexpected size of empty patch: %d", patch.Size())
	}
}

func TestPatch_HashIsIndependentOfInsertionOrder(t *testing.T) {
	first := NewPatch([]PatchEntry{
		{Key: []byte("a"), Change: Change{Value: []byte("1")}},
		{Key: []byte("b"), Change: Change{Deleted: true}},
		{Key: []byte("c"), Change: Change{Value: []byte("3")}},
	})
	second := NewPatch([]PatchEntry{
		{Key: []byte("c"), Change: Change{Value: []byte("3")}},
		{Key: []byte("a"), Change: Change{Value: []byte("1")}},
		{Key: []byte("b"), Change: Change{Deleted: true}},
	})

	if first.Hash() != second.Hash() {
		t.Errorf("patches with identical changes hash differently")
	}
}

func TestPatch_HashDistinguishesContent(t *testing.T) {
	base := NewPatch([]PatchEntry{
		{Key: []byte("a"), Change: Change{Value: []byte("1")}},
	})
	tests := map[string]Patch{
		"different value": NewPatch([]PatchEntry{
			{Key: []byte("a"), Change: Change{Value: []byte("2")}},
		}),
		"different key": NewPatch([]PatchEntry{
			{Key: []byte("b"), Change: Change{Value: []byte("1")}},
		}),
		"deletion instead of assignment": NewPatch([]PatchEntry{
			{Key: []byte("a"), Change: Change{Deleted: true}},
		}),
		"empty value instead of deletion": NewPatch([]PatchEntry{
			{Key: []byte("a"), Change: Change{Value: []byte{}}},
		}),
	}
	for name, patch := range tests {
		t.Run(name, func(t *testing.T) {
			if patch.Hash() == base.Hash() {
				t.Errorf("patch with different content hashes like the base patch")
			}
		})
	}
}
