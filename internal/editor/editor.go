// Package editor holds the in-memory state of one gallery editing
// session: the ordered membership list, the cover selection, the drag
// gesture lifecycle and the confirmation-gated removal flows. Nothing
// here touches gin or gorm; persistence happens only when the caller
// explicitly saves the session through the service layer.
package editor

import "errors"

var (
	ErrEntryNotFound    = errors.New("gallery entry not found")
	ErrMoveInProgress   = errors.New("another move is already in progress")
	ErrNoActiveMove     = errors.New("no move in progress")
	ErrRemovalPending   = errors.New("a removal is already awaiting confirmation")
	ErrNoPendingRemoval = errors.New("no removal awaiting confirmation")
)

// Entry 表示编辑会话中的一条画廊成员记录。
// ID 是成员记录自身的标识，区别于其引用的图片 ID。
type Entry struct {
	ID      string
	ImageID string
	Title   string
	Caption string
	Order   int
}

// Editor owns the membership list and cover selection for one gallery
// editing session. It is the sole writer of the Order fields and keeps
// them a contiguous 0..N-1 permutation after every mutation.
type Editor struct {
	entries  []Entry
	cover    string
	onChange func([]Entry)
}

// New copies the given entries into a fresh session and renumbers them
// by position. onChange, if non-nil, receives a snapshot of the full
// list after every mutating operation so caller state is replaced in
// one step.
func New(entries []Entry, coverImageID string, onChange func([]Entry)) *Editor {
	e := &Editor{
		entries:  make([]Entry, len(entries)),
		cover:    coverImageID,
		onChange: onChange,
	}
	copy(e.entries, entries)
	e.renumber()
	return e
}

// Entries returns a snapshot of the current list.
func (e *Editor) Entries() []Entry {
	out := make([]Entry, len(e.entries))
	copy(out, e.entries)
	return out
}

// Len returns the number of entries in the session.
func (e *Editor) Len() int {
	return len(e.entries)
}

// Cover returns the image id currently selected as cover, empty when
// no cover is set.
func (e *Editor) Cover() string {
	return e.cover
}

// Move removes the entry at src and reinserts it at dst, shifting
// everything strictly between the two positions by one, then renumbers
// the whole list. src == dst is a no-op and fires no callback.
// Out-of-range indices are a caller bug and panic.
func (e *Editor) Move(src, dst int) {
	if src == dst {
		return
	}

	moved := e.entries[src]
	e.entries = append(e.entries[:src], e.entries[src+1:]...)
	e.entries = append(e.entries, Entry{})
	copy(e.entries[dst+1:], e.entries[dst:])
	e.entries[dst] = moved

	e.renumber()
	e.fireChange()
}

// Remove drops the entry with the given membership id and renumbers
// the remainder. When the removed entry was the last one referencing
// the cover image, the cover selection is cleared so it never dangles.
func (e *Editor) Remove(entryID string) error {
	idx := e.indexOf(entryID)
	if idx < 0 {
		return ErrEntryNotFound
	}

	removed := e.entries[idx]
	e.entries = append(e.entries[:idx], e.entries[idx+1:]...)
	e.renumber()

	if e.cover != "" && e.cover == removed.ImageID && e.coverEntryIndex() < 0 {
		e.cover = ""
	}

	e.fireChange()
	return nil
}

// SetCover unconditionally overwrites the cover selection with the
// given image id. Callers are expected to pass an id drawn from a
// currently rendered entry; no membership check is performed here.
func (e *Editor) SetCover(imageID string) {
	e.cover = imageID
}

// CoverEntryID returns the membership id of the single entry flagged
// as cover at render time, or empty when no entry matches the current
// selection.
func (e *Editor) CoverEntryID() string {
	if idx := e.coverEntryIndex(); idx >= 0 {
		return e.entries[idx].ID
	}
	return ""
}

// Reset replaces the whole session with the given entries and clears
// the cover selection, mirroring a full form reset.
func (e *Editor) Reset(entries []Entry) {
	e.entries = make([]Entry, len(entries))
	copy(e.entries, entries)
	e.cover = ""
	e.renumber()
	e.fireChange()
}

func (e *Editor) indexOf(entryID string) int {
	for i := range e.entries {
		if e.entries[i].ID == entryID {
			return i
		}
	}
	return -1
}

func (e *Editor) coverEntryIndex() int {
	if e.cover == "" {
		return -1
	}
	for i := range e.entries {
		if e.entries[i].ImageID == e.cover {
			return i
		}
	}
	return -1
}

func (e *Editor) renumber() {
	for i := range e.entries {
		e.entries[i].Order = i
	}
}

func (e *Editor) fireChange() {
	if e.onChange != nil {
		e.onChange(e.Entries())
	}
}
