package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_NoFileReturnsEmptyState(t *testing.T) {
	mgr, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	st, err := mgr.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(st.Targets) != 0 {
		t.Errorf("Expected empty state, got %d targets", len(st.Targets))
	}
}

func TestRecordRun_RoundTrip(t *testing.T) {
	mgr, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	err = mgr.RecordRun("backup", &Target{
		URL:      "git@example.com:org/repo.git",
		Status:   StatusSucceeded,
		Branches: 3,
		Tags:     7,
	})
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	got, err := mgr.GetTarget("backup")
	if err != nil {
		t.Fatalf("GetTarget failed: %v", err)
	}
	if got.Status != StatusSucceeded {
		t.Errorf("Status: got %s", got.Status)
	}
	if got.Branches != 3 || got.Tags != 7 {
		t.Errorf("Counts: got %d branches, %d tags", got.Branches, got.Tags)
	}
	if got.LastRun.IsZero() {
		t.Error("LastRun not set")
	}
}

func TestRecordRun_OverwritesPreviousRecord(t *testing.T) {
	mgr, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if err := mgr.RecordRun("backup", &Target{Status: StatusFailed, LastError: "timeout"}); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if err := mgr.RecordRun("backup", &Target{Status: StatusSucceeded}); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	got, err := mgr.GetTarget("backup")
	if err != nil {
		t.Fatalf("GetTarget failed: %v", err)
	}
	if got.Status != StatusSucceeded {
		t.Errorf("Expected latest record, got %s", got.Status)
	}
	if got.LastError != "" {
		t.Errorf("Stale error kept: %s", got.LastError)
	}
}

func TestGetTarget_Unknown(t *testing.T) {
	mgr, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if _, err := mgr.GetTarget("nope"); err == nil {
		t.Error("Expected error for unknown target")
	}
}

func TestLoad_CorruptedFile(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "state.yaml"), []byte("{not yaml"), 0644); err != nil {
		t.Fatalf("Failed to write state: %v", err)
	}

	if _, err := mgr.Load(); err == nil {
		t.Error("Expected error for corrupted state")
	}
}
