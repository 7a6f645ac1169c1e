package platform

import (
	"errors"
	"testing"
)

func TestAcquireInstanceConflictsPerWorkspace(t *testing.T) {
	first, err := AcquireInstance("worktick-test", "/home/dev/alpha")
	if err != nil {
		t.Fatalf("AcquireInstance failed: %v", err)
	}
	defer first.Release()

	if _, err := AcquireInstance("worktick-test", "/home/dev/alpha"); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Expected ErrAlreadyRunning for the same workspace, got %v", err)
	}
}

func TestAcquireInstanceAllowsDistinctWorkspaces(t *testing.T) {
	first, err := AcquireInstance("worktick-test", "/home/dev/alpha")
	if err != nil {
		t.Fatalf("AcquireInstance failed: %v", err)
	}
	defer first.Release()

	second, err := AcquireInstance("worktick-test", "/home/dev/beta")
	if err != nil {
		t.Fatalf("Expected distinct workspaces to coexist, got %v", err)
	}
	defer second.Release()

	if first.Address() == second.Address() {
		t.Errorf("Expected distinct ports, both bound %s", first.Address())
	}
}

func TestReleaseFreesTheLock(t *testing.T) {
	guard, err := AcquireInstance("worktick-test", "/home/dev/alpha")
	if err != nil {
		t.Fatalf("AcquireInstance failed: %v", err)
	}
	if err := guard.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	again, err := AcquireInstance("worktick-test", "/home/dev/alpha")
	if err != nil {
		t.Fatalf("Expected reacquire after release, got %v", err)
	}
	again.Release()
}
