package osfilesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestFileSystem_WriteCreatesParents(t *testing.T) {
	fsys := New()
	path := filepath.Join(t.TempDir(), "a", "b", "frame.png")

	if err := fsys.WriteFile(path, []byte("frame")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(data) != "frame" {
		t.Errorf("expected %q, got %q", "frame", data)
	}
}

func TestFileSystem_RenameReplaces(t *testing.T) {
	fsys := New()
	dir := t.TempDir()
	tmp := filepath.Join(dir, "vid.tmp.png")
	dst := filepath.Join(dir, "vid.png")

	if err := os.WriteFile(dst, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tmp, []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := fsys.Rename(tmp, dst); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	data, _ := os.ReadFile(dst)
	if string(data) != "new" {
		t.Errorf("expected destination replaced, got %q", data)
	}
	if exists, _ := fsys.Exists(tmp); exists {
		t.Error("temp file must be gone after rename")
	}
}

func TestFileSystem_ExistsAndRemove(t *testing.T) {
	fsys := New()
	dir := t.TempDir()
	path := filepath.Join(dir, "x")

	if exists, err := fsys.Exists(path); err != nil || exists {
		t.Fatalf("expected missing file, got exists=%v err=%v", exists, err)
	}
	if err := fsys.MkdirAll(path); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if exists, _ := fsys.Exists(path); !exists {
		t.Fatal("expected directory to exist")
	}
	if err := fsys.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if exists, _ := fsys.Exists(path); exists {
		t.Error("expected directory to be removed")
	}
}

func TestIsLocked(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"permission", &os.LinkError{Op: "rename", Old: "a", New: "b", Err: fs.ErrPermission}, true},
		{"wrapped permission", fmt.Errorf("publish: %w", os.ErrPermission), true},
		{"not exist", &os.PathError{Op: "open", Path: "a", Err: fs.ErrNotExist}, false},
		{"other", errors.New("boom"), false},
		{"errno EACCES", syscall.EACCES, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLocked(tt.err); got != tt.want {
				t.Errorf("IsLocked(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
