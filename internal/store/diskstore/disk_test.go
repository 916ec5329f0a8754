package diskstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/discochess/huffpack/internal/store"
)

func TestStore_Open(t *testing.T) {
	dir := t.TempDir()

	data := []byte("file data")
	if err := os.WriteFile(filepath.Join(dir, "input.txt"), data, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	rc, err := s.Open(context.Background(), "input.txt")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("Open() content = %q, want %q", got, data)
	}
}

func TestStore_OpenAbsolute(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere.bin")
	if err := os.WriteFile(abs, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rc, err := s.Open(context.Background(), abs)
	if err != nil {
		t.Fatalf("Open(%q) error = %v", abs, err)
	}
	rc.Close()
}

func TestStore_OpenNotFound(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	_, err = s.Open(context.Background(), "missing.txt")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Open() error = %v, want ErrNotFound", err)
	}
}

func TestStore_OpenDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	s, _ := New(dir)
	if _, err := s.Open(context.Background(), "sub"); err == nil {
		t.Error("Open() on a directory should fail")
	}
}

func TestStore_Create(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	wc, err := s.Create(context.Background(), "out.huf")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := wc.Write([]byte("payload")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := wc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "out.huf"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("file content = %q, want %q", got, "payload")
	}
}

func TestStore_CreateInMissingDir(t *testing.T) {
	s, _ := New(t.TempDir())
	if _, err := s.Create(context.Background(), "no/such/dir/out.huf"); err == nil {
		t.Error("Create() in a missing directory should fail")
	}
}

func TestStore_CanceledContext(t *testing.T) {
	s, _ := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Open(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("Open() error = %v, want context.Canceled", err)
	}
	if _, err := s.Create(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("Create() error = %v, want context.Canceled", err)
	}
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path")
	if err == nil {
		t.Error("New() with invalid path should return error")
	}
}

func TestNew_NotDirectory(t *testing.T) {
	// Create a file, not a directory.
	f, err := os.CreateTemp("", "test")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	defer os.Remove(f.Name())

	_, err = New(f.Name())
	if err == nil {
		t.Error("New() with file (not directory) should return error")
	}
}
