package editor

// RemovalDialog is the two-step gate in front of destructive actions:
// a removal request parks a target until the user explicitly confirms
// or cancels. The dialog is modal — at most one target is pending at a
// time.
type RemovalDialog struct {
	target string
	open   bool
}

// Request parks the given target and opens the dialog.
func (d *RemovalDialog) Request(target string) error {
	if d.open {
		return ErrRemovalPending
	}
	d.target = target
	d.open = true
	return nil
}

// Pending reports the parked target, if any.
func (d *RemovalDialog) Pending() (string, bool) {
	return d.target, d.open
}

// Confirm runs apply against the parked target. On success the dialog
// closes and the target is cleared; on failure it stays open so the
// action can be retried or cancelled.
func (d *RemovalDialog) Confirm(apply func(target string) error) error {
	if !d.open {
		return ErrNoPendingRemoval
	}
	if err := apply(d.target); err != nil {
		return err
	}
	d.target = ""
	d.open = false
	return nil
}

// Cancel closes the dialog without touching anything else.
func (d *RemovalDialog) Cancel() {
	d.target = ""
	d.open = false
}
