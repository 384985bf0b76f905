package editor

import "testing"

func makeEntries(ids ...string) []Entry {
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, Entry{
			ID:      id,
			ImageID: "img-" + id,
		})
	}
	return entries
}

func assertOrderContiguous(t *testing.T, entries []Entry) {
	t.Helper()
	for idx, entry := range entries {
		if entry.Order != idx {
			t.Fatalf("entry %s at position %d has order %d", entry.ID, idx, entry.Order)
		}
	}
}

func assertSequence(t *testing.T, entries []Entry, ids ...string) {
	t.Helper()
	if len(entries) != len(ids) {
		t.Fatalf("expected %d entries, got %d", len(ids), len(entries))
	}
	for idx, id := range ids {
		if entries[idx].ID != id {
			t.Fatalf("expected %s at position %d, got %s", id, idx, entries[idx].ID)
		}
	}
	assertOrderContiguous(t, entries)
}

func TestMoveForward(t *testing.T) {
	ed := New(makeEntries("a", "b", "c"), "", nil)

	ed.Move(0, 2)

	assertSequence(t, ed.Entries(), "b", "c", "a")
}

func TestMoveBackward(t *testing.T) {
	ed := New(makeEntries("a", "b"), "", nil)

	ed.Move(1, 0)

	assertSequence(t, ed.Entries(), "b", "a")
}

func TestMoveIsPermutation(t *testing.T) {
	ed := New(makeEntries("a", "b", "c", "d", "e"), "", nil)

	before := make(map[string]int)
	for _, entry := range ed.Entries() {
		before[entry.ID]++
	}

	ed.Move(3, 1)
	ed.Move(0, 4)
	ed.Move(2, 2)

	after := make(map[string]int)
	for _, entry := range ed.Entries() {
		after[entry.ID]++
	}

	if len(before) != len(after) {
		t.Fatalf("entry set changed: %v vs %v", before, after)
	}
	for id, count := range before {
		if after[id] != count {
			t.Fatalf("entry %s count changed: %d vs %d", id, count, after[id])
		}
	}
	assertOrderContiguous(t, ed.Entries())
}

func TestMoveSameIndexIsNoOp(t *testing.T) {
	fired := 0
	ed := New(makeEntries("a", "b", "c"), "", func([]Entry) {
		fired++
	})

	ed.Move(1, 1)

	assertSequence(t, ed.Entries(), "a", "b", "c")
	if fired != 0 {
		t.Fatalf("expected no callback on same-index move, got %d", fired)
	}
}

func TestMoveFiresCallbackWithFullList(t *testing.T) {
	var snapshot []Entry
	ed := New(makeEntries("a", "b", "c"), "", func(entries []Entry) {
		snapshot = entries
	})

	ed.Move(2, 0)

	if snapshot == nil {
		t.Fatalf("expected callback to fire")
	}
	assertSequence(t, snapshot, "c", "a", "b")
}

func TestRemovePreservesRelativeOrder(t *testing.T) {
	ed := New(makeEntries("a", "b", "c", "d"), "", nil)

	if err := ed.Remove("b"); err != nil {
		t.Fatalf("failed to remove entry: %v", err)
	}

	assertSequence(t, ed.Entries(), "a", "c", "d")
}

func TestRemoveUnknownEntry(t *testing.T) {
	ed := New(makeEntries("a"), "", nil)

	if err := ed.Remove("missing"); err != ErrEntryNotFound {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	if ed.Len() != 1 {
		t.Fatalf("list must stay untouched on failed removal")
	}
}

func TestRemoveClearsDanglingCover(t *testing.T) {
	ed := New(makeEntries("a", "b", "c"), "img-b", nil)

	if err := ed.Remove("b"); err != nil {
		t.Fatalf("failed to remove entry: %v", err)
	}

	if ed.Cover() != "" {
		t.Fatalf("expected cover to be cleared, got %q", ed.Cover())
	}
}

func TestRemoveKeepsCoverWhenImageStillPresent(t *testing.T) {
	entries := makeEntries("a", "b")
	// 两条记录引用同一张图片
	entries = append(entries, Entry{ID: "c", ImageID: "img-b"})
	ed := New(entries, "img-b", nil)

	if err := ed.Remove("b"); err != nil {
		t.Fatalf("failed to remove entry: %v", err)
	}

	if ed.Cover() != "img-b" {
		t.Fatalf("cover must survive while another entry references the image")
	}
}

func TestRemoveKeepsCoverOfOtherImage(t *testing.T) {
	ed := New(makeEntries("a", "b", "c"), "img-a", nil)

	if err := ed.Remove("b"); err != nil {
		t.Fatalf("failed to remove entry: %v", err)
	}

	if ed.Cover() != "img-a" {
		t.Fatalf("unrelated cover must not change, got %q", ed.Cover())
	}
}

func TestSetCoverFlagsExactlyOneEntry(t *testing.T) {
	ed := New(makeEntries("a", "b", "c"), "", nil)

	if ed.CoverEntryID() != "" {
		t.Fatalf("expected no cover entry initially")
	}

	ed.SetCover("img-b")
	if ed.CoverEntryID() != "b" {
		t.Fatalf("expected entry b to carry the cover flag")
	}

	ed.SetCover("img-c")
	if ed.CoverEntryID() != "c" {
		t.Fatalf("expected the flag to move to entry c")
	}
}

func TestSetCoverUnknownImage(t *testing.T) {
	ed := New(makeEntries("a"), "", nil)

	// 不校验归属，但渲染时不会有任何条目被标记
	ed.SetCover("img-elsewhere")
	if ed.Cover() != "img-elsewhere" {
		t.Fatalf("cover must be overwritten unconditionally")
	}
	if ed.CoverEntryID() != "" {
		t.Fatalf("no entry may carry the flag for an absent image")
	}
}

func TestResetClearsCover(t *testing.T) {
	ed := New(makeEntries("a", "b"), "img-a", nil)

	ed.Reset(makeEntries("x", "y", "z"))

	if ed.Cover() != "" {
		t.Fatalf("reset must clear the cover selection")
	}
	assertSequence(t, ed.Entries(), "x", "y", "z")
}

func TestNewRenumbersInput(t *testing.T) {
	entries := makeEntries("a", "b", "c")
	entries[0].Order = 7
	entries[1].Order = 7
	entries[2].Order = 2

	ed := New(entries, "", nil)

	assertSequence(t, ed.Entries(), "a", "b", "c")
}
