package statedir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManager_CreateRelative(t *testing.T) {
	root := t.TempDir()
	mgr := NewManager(root, ".branchlaunch")

	if mgr.Exists() {
		t.Fatal("Exists() reported true before Create()")
	}
	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	expected := filepath.Join(root, ".branchlaunch")
	if got := mgr.File("events.db"); got != filepath.Join(expected, "events.db") {
		t.Errorf("Expected journal in %s, got: %s", expected, got)
	}
	if !mgr.Exists() {
		t.Errorf("State directory does not exist: %s", expected)
	}

	data, err := os.ReadFile(filepath.Join(expected, ".gitignore"))
	if err != nil {
		t.Fatalf("Expected .gitignore: %v", err)
	}
	if string(data) != "*\n" {
		t.Errorf("Unexpected .gitignore content: %q", data)
	}
}

func TestManager_CreateKeepsExistingFiles(t *testing.T) {
	root := t.TempDir()
	mgr := NewManager(root, "")
	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	marker := mgr.File("events.db")
	if err := os.WriteFile(marker, []byte("journal"), 0o600); err != nil {
		t.Fatalf("Failed to create marker file: %v", err)
	}
	ignore := mgr.File(".gitignore")
	if err := os.WriteFile(ignore, []byte("custom\n"), 0o600); err != nil {
		t.Fatalf("Failed to rewrite .gitignore: %v", err)
	}

	if err := mgr.Create(); err != nil {
		t.Fatalf("second Create() failed: %v", err)
	}

	if _, err := os.Stat(marker); err != nil {
		t.Errorf("State file was removed: %v", err)
	}
	if data, _ := os.ReadFile(ignore); string(data) != "custom\n" {
		t.Errorf("Existing .gitignore was overwritten: %q", data)
	}
}

func TestManager_AbsolutePaths(t *testing.T) {
	abs := t.TempDir()
	mgr := NewManager("/unused", abs)
	if got := mgr.File("events.db"); got != filepath.Join(abs, "events.db") {
		t.Errorf("Expected absolute dir to be kept, got %s", got)
	}
	if !mgr.Exists() {
		t.Error("Expected existing absolute dir to be reported")
	}

	file := filepath.Join(abs, "other.db")
	if mgr.File(file) != file {
		t.Errorf("Expected absolute file to be kept, got %s", mgr.File(file))
	}
}
