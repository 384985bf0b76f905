package editor

// DragSession tracks a single drag gesture over the membership list.
// It is the capability boundary between pointer/keyboard bindings and
// the reorder operation: a gesture begins, then either completes at a
// target index or is cancelled, and only completion mutates the list.
type DragSession struct {
	editor *Editor
	active string
}

// NewDragSession binds a drag session to an editing session.
func NewDragSession(e *Editor) *DragSession {
	return &DragSession{editor: e}
}

// BeginMove records the entry being dragged and enters the dragging
// state. Starting a second gesture before the first resolves is a
// caller error.
func (d *DragSession) BeginMove(entryID string) error {
	if d.active != "" {
		return ErrMoveInProgress
	}
	if d.editor.indexOf(entryID) < 0 {
		return ErrEntryNotFound
	}
	d.active = entryID
	return nil
}

// Active returns the entry id of the in-flight gesture. The second
// return value is false when the session is idle; the overlay proxy
// for the dragged entry should only be shown while it is true.
func (d *DragSession) Active() (string, bool) {
	return d.active, d.active != ""
}

// CompleteMove drops the dragged entry at toIndex and returns the
// session to idle. Dropping at the entry's current position commits
// nothing, matching a drag that ends where it started.
func (d *DragSession) CompleteMove(toIndex int) error {
	if d.active == "" {
		return ErrNoActiveMove
	}

	src := d.editor.indexOf(d.active)
	d.active = ""
	if src < 0 {
		// 条目在拖拽期间被移除，放弃本次手势。
		return ErrEntryNotFound
	}

	d.editor.Move(src, toIndex)
	return nil
}

// CancelMove discards the pending gesture without mutating the list,
// covering drops outside any target and explicit cancels such as
// focus loss.
func (d *DragSession) CancelMove() {
	d.active = ""
}
