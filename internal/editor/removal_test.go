package editor

import (
	"errors"
	"testing"
)

func TestRemovalDialogConfirmAppliesMutation(t *testing.T) {
	ed := New(makeEntries("a", "b", "c"), "", nil)
	var dialog RemovalDialog

	if err := dialog.Request("b"); err != nil {
		t.Fatalf("failed to request removal: %v", err)
	}

	if err := dialog.Confirm(ed.Remove); err != nil {
		t.Fatalf("failed to confirm removal: %v", err)
	}

	assertSequence(t, ed.Entries(), "a", "c")
	if _, pending := dialog.Pending(); pending {
		t.Fatalf("dialog must close after successful confirmation")
	}
}

func TestRemovalDialogCancelLeavesListUnchanged(t *testing.T) {
	ed := New(makeEntries("a", "b", "c"), "", nil)
	var dialog RemovalDialog

	if err := dialog.Request("b"); err != nil {
		t.Fatalf("failed to request removal: %v", err)
	}
	dialog.Cancel()

	assertSequence(t, ed.Entries(), "a", "b", "c")
	if _, pending := dialog.Pending(); pending {
		t.Fatalf("dialog must close on cancel")
	}
	if err := dialog.Confirm(ed.Remove); err != ErrNoPendingRemoval {
		t.Fatalf("expected ErrNoPendingRemoval after cancel, got %v", err)
	}
}

func TestRemovalDialogIsModal(t *testing.T) {
	var dialog RemovalDialog

	if err := dialog.Request("a"); err != nil {
		t.Fatalf("failed to request removal: %v", err)
	}
	if err := dialog.Request("b"); err != ErrRemovalPending {
		t.Fatalf("expected ErrRemovalPending, got %v", err)
	}

	if target, _ := dialog.Pending(); target != "a" {
		t.Fatalf("pending target must stay %q, got %q", "a", target)
	}
}

func TestRemovalDialogStaysOpenOnApplyFailure(t *testing.T) {
	var dialog RemovalDialog
	failure := errors.New("save rejected")

	if err := dialog.Request("a"); err != nil {
		t.Fatalf("failed to request removal: %v", err)
	}
	if err := dialog.Confirm(func(string) error { return failure }); !errors.Is(err, failure) {
		t.Fatalf("expected apply failure to propagate, got %v", err)
	}

	if _, pending := dialog.Pending(); !pending {
		t.Fatalf("dialog must stay open so the action can be retried")
	}

	if err := dialog.Confirm(func(string) error { return nil }); err != nil {
		t.Fatalf("retry must succeed: %v", err)
	}
	if _, pending := dialog.Pending(); pending {
		t.Fatalf("dialog must close after the successful retry")
	}
}
