package editor

import (
	"context"
	"errors"
	"testing"
	"time"
)

type deleteCall struct {
	imageID string
	force   bool
}

func waitForState(t *testing.T, d *DeleteDialog, want UsageState) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		state, _, _ := d.Usage()
		if state == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	state, _, _ := d.Usage()
	t.Fatalf("usage state never reached %d, last %d", want, state)
}

func TestDeleteDialogUnusedImageDeletesWithoutForce(t *testing.T) {
	var calls []deleteCall
	d := NewDeleteDialog(
		func(context.Context, string) ([]GalleryUsage, error) {
			return nil, nil
		},
		func(imageID string, force bool) error {
			calls = append(calls, deleteCall{imageID, force})
			return nil
		},
	)

	if err := d.Open("img-1"); err != nil {
		t.Fatalf("failed to open dialog: %v", err)
	}
	waitForState(t, d, UsageReady)

	if err := d.Confirm(); err != nil {
		t.Fatalf("failed to confirm: %v", err)
	}

	if len(calls) != 1 || calls[0].force {
		t.Fatalf("expected one non-force delete, got %v", calls)
	}
	if _, open := d.Pending(); open {
		t.Fatalf("dialog must close after successful delete")
	}
}

func TestDeleteDialogReferencedImageDeletesWithForce(t *testing.T) {
	usage := []GalleryUsage{{GalleryID: "7", GalleryTitle: "街头光影", IsCover: true}}

	var calls []deleteCall
	d := NewDeleteDialog(
		func(context.Context, string) ([]GalleryUsage, error) {
			return usage, nil
		},
		func(imageID string, force bool) error {
			calls = append(calls, deleteCall{imageID, force})
			return nil
		},
	)

	if err := d.Open("img-1"); err != nil {
		t.Fatalf("failed to open dialog: %v", err)
	}
	waitForState(t, d, UsageReady)

	state, got, _ := d.Usage()
	if state != UsageReady || len(got) != 1 || !got[0].IsCover {
		t.Fatalf("expected cover usage to surface, got %v (%d)", got, state)
	}

	if err := d.Confirm(); err != nil {
		t.Fatalf("failed to confirm: %v", err)
	}
	if len(calls) != 1 || !calls[0].force {
		t.Fatalf("expected one force delete, got %v", calls)
	}
}

func TestDeleteDialogFailedCheckStillForces(t *testing.T) {
	var calls []deleteCall
	d := NewDeleteDialog(
		func(context.Context, string) ([]GalleryUsage, error) {
			return nil, errors.New("usage lookup failed")
		},
		func(imageID string, force bool) error {
			calls = append(calls, deleteCall{imageID, force})
			return nil
		},
	)

	if err := d.Open("img-1"); err != nil {
		t.Fatalf("failed to open dialog: %v", err)
	}
	waitForState(t, d, UsageFailed)

	if _, _, err := d.Usage(); err == nil {
		t.Fatalf("expected the check error to surface for the retry affordance")
	}

	if err := d.Confirm(); err != nil {
		t.Fatalf("confirm must stay available when usage is unknown: %v", err)
	}
	if len(calls) != 1 || !calls[0].force {
		t.Fatalf("unknown usage must err toward force, got %v", calls)
	}
}

func TestDeleteDialogConfirmWhileCheckInFlight(t *testing.T) {
	release := make(chan struct{})

	var calls []deleteCall
	d := NewDeleteDialog(
		func(ctx context.Context, _ string) ([]GalleryUsage, error) {
			select {
			case <-release:
			case <-ctx.Done():
			}
			return nil, ctx.Err()
		},
		func(imageID string, force bool) error {
			calls = append(calls, deleteCall{imageID, force})
			return nil
		},
	)
	defer close(release)

	if err := d.Open("img-1"); err != nil {
		t.Fatalf("failed to open dialog: %v", err)
	}

	// 不等待检查完成，确认应立即可用并按未知引用处理
	if err := d.Confirm(); err != nil {
		t.Fatalf("confirm must not wait for the check: %v", err)
	}
	if len(calls) != 1 || !calls[0].force {
		t.Fatalf("in-flight usage must err toward force, got %v", calls)
	}
}

func TestDeleteDialogDiscardsStaleResultAfterClose(t *testing.T) {
	release := make(chan struct{})
	usage := []GalleryUsage{{GalleryID: "1", GalleryTitle: "旧画廊"}}

	d := NewDeleteDialog(
		func(ctx context.Context, _ string) ([]GalleryUsage, error) {
			<-release
			return usage, nil
		},
		func(string, bool) error { return nil },
	)

	if err := d.Open("img-1"); err != nil {
		t.Fatalf("failed to open dialog: %v", err)
	}
	d.Close()
	close(release)

	// 给迟到的结果一点时间，确认它被丢弃
	time.Sleep(50 * time.Millisecond)
	if state, got, _ := d.Usage(); state != UsageLoading || len(got) != 0 {
		t.Fatalf("stale result must be discarded, got state %d usage %v", state, got)
	}
	if _, open := d.Pending(); open {
		t.Fatalf("dialog must stay closed")
	}
}

func TestDeleteDialogCancelsCheckOnClose(t *testing.T) {
	cancelled := make(chan struct{})

	d := NewDeleteDialog(
		func(ctx context.Context, _ string) ([]GalleryUsage, error) {
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		},
		func(string, bool) error { return nil },
	)

	if err := d.Open("img-1"); err != nil {
		t.Fatalf("failed to open dialog: %v", err)
	}
	d.Close()

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatalf("closing the dialog must cancel the in-flight check")
	}
}

func TestDeleteDialogRetryAfterFailure(t *testing.T) {
	attempts := 0
	d := NewDeleteDialog(
		func(context.Context, string) ([]GalleryUsage, error) {
			attempts++
			if attempts == 1 {
				return nil, errors.New("transient")
			}
			return nil, nil
		},
		func(string, bool) error { return nil },
	)

	if err := d.Open("img-1"); err != nil {
		t.Fatalf("failed to open dialog: %v", err)
	}
	waitForState(t, d, UsageFailed)

	if err := d.Retry(); err != nil {
		t.Fatalf("failed to retry: %v", err)
	}
	waitForState(t, d, UsageReady)
}

func TestDeleteDialogIsModal(t *testing.T) {
	d := NewDeleteDialog(
		func(context.Context, string) ([]GalleryUsage, error) { return nil, nil },
		func(string, bool) error { return nil },
	)

	if err := d.Open("img-1"); err != nil {
		t.Fatalf("failed to open dialog: %v", err)
	}
	if err := d.Open("img-2"); err != ErrRemovalPending {
		t.Fatalf("expected ErrRemovalPending, got %v", err)
	}
	if err := d.Retry(); err != nil {
		t.Fatalf("retry must work on the open dialog: %v", err)
	}

	d.Close()
	if err := d.Retry(); err != ErrNoPendingRemoval {
		t.Fatalf("expected ErrNoPendingRemoval after close, got %v", err)
	}
	if err := d.Confirm(); err != ErrNoPendingRemoval {
		t.Fatalf("expected ErrNoPendingRemoval after close, got %v", err)
	}
}
