package editor

import (
	"context"
	"sync"
)

// GalleryUsage describes one gallery currently referencing an image.
type GalleryUsage struct {
	GalleryID    string
	GalleryTitle string
	IsCover      bool
}

// UsageChecker resolves which galleries reference an image. The
// context is cancelled when the dialog closes before the check
// returns.
type UsageChecker func(ctx context.Context, imageID string) ([]GalleryUsage, error)

// Deleter issues the actual delete request. force authorizes the
// server-side cascade when the image is still referenced.
type Deleter func(imageID string, force bool) error

// UsageState tracks the usage check attached to an open dialog.
type UsageState int

const (
	UsageLoading UsageState = iota
	UsageReady
	UsageFailed
)

// DeleteDialog drives the confirmation flow for deleting an image
// outright. Opening it starts an asynchronous usage check whose result
// is discarded if it lands after the dialog was closed or reopened;
// confirming never waits for the check and derives the force flag from
// whatever is known at that moment.
type DeleteDialog struct {
	mu     sync.Mutex
	check  UsageChecker
	delete Deleter

	imageID  string
	open     bool
	gen      int
	cancel   context.CancelFunc
	state    UsageState
	usage    []GalleryUsage
	checkErr error
}

// NewDeleteDialog wires the dialog to its collaborators.
func NewDeleteDialog(check UsageChecker, del Deleter) *DeleteDialog {
	return &DeleteDialog{check: check, delete: del}
}

// Open parks the image as the pending deletion target and kicks off
// the usage check. The dialog is modal.
func (d *DeleteDialog) Open(imageID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.open {
		return ErrRemovalPending
	}

	d.open = true
	d.imageID = imageID
	d.startCheckLocked()
	return nil
}

// Retry restarts a failed or stale usage check for the open dialog.
func (d *DeleteDialog) Retry() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return ErrNoPendingRemoval
	}
	d.startCheckLocked()
	return nil
}

// Usage reports the current state of the usage check. The slice is
// only meaningful when the state is UsageReady, the error only when it
// is UsageFailed.
func (d *DeleteDialog) Usage() (UsageState, []GalleryUsage, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	usage := make([]GalleryUsage, len(d.usage))
	copy(usage, d.usage)
	return d.state, usage, d.checkErr
}

// Pending reports the parked image id, if any.
func (d *DeleteDialog) Pending() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.imageID, d.open
}

// Confirm issues the delete request. The force flag is set unless the
// usage check completed and found zero referencing galleries: with
// usage unknown the user-initiated action is let through rather than
// silently blocked. On delete failure the dialog stays open for retry;
// on success it closes and the pending check result, if any, is
// discarded.
func (d *DeleteDialog) Confirm() error {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return ErrNoPendingRemoval
	}
	imageID := d.imageID
	force := d.state != UsageReady || len(d.usage) > 0
	d.mu.Unlock()

	if err := d.delete(imageID, force); err != nil {
		return err
	}

	d.Close()
	return nil
}

// Close cancels any in-flight usage check and resets the dialog. A
// check result arriving afterwards is silently dropped.
func (d *DeleteDialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.gen++
	d.open = false
	d.imageID = ""
	d.state = UsageLoading
	d.usage = nil
	d.checkErr = nil
}

func (d *DeleteDialog) startCheckLocked() {
	if d.cancel != nil {
		d.cancel()
	}
	d.gen++
	gen := d.gen

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.state = UsageLoading
	d.usage = nil
	d.checkErr = nil

	imageID := d.imageID
	go func() {
		usage, err := d.check(ctx, imageID)

		d.mu.Lock()
		defer d.mu.Unlock()
		if gen != d.gen || !d.open {
			// 迟到的结果属于已关闭或已重开的对话框，直接丢弃。
			return
		}
		if err != nil {
			d.state = UsageFailed
			d.checkErr = err
			return
		}
		d.state = UsageReady
		d.usage = usage
	}()
}
