package utils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")

	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	})
	if err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("content = %q, want %q", got, "hello")
	}
}

func TestWriteFileAtomicFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	boom := errors.New("boom")

	err := WriteFileAtomic(path, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped boom", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("directory holds %d entries after a failed write, want 0", len(entries))
	}
}

func TestWriteFileAtomicReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	for _, content := range []string{"first", "second"} {
		c := content
		if err := WriteFileAtomic(path, func(w io.Writer) error {
			_, err := io.WriteString(w, c)
			return err
		}); err != nil {
			t.Fatalf("WriteFileAtomic(%q): %v", c, err)
		}
	}
	got, _ := os.ReadFile(path)
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}
}

func TestRequestDir(t *testing.T) {
	base := t.TempDir()
	id1, dir1, err := RequestDir(base)
	if err != nil {
		t.Fatalf("RequestDir: %v", err)
	}
	id2, dir2, err := RequestDir(base)
	if err != nil {
		t.Fatalf("RequestDir: %v", err)
	}
	if id1 == id2 || dir1 == dir2 {
		t.Errorf("RequestDir returned the same directory twice: %s", dir1)
	}
	if filepath.Dir(dir1) != base || filepath.Base(dir1) != id1 {
		t.Errorf("dir = %s, want %s/%s", dir1, base, id1)
	}
	if fi, err := os.Stat(dir2); err != nil || !fi.IsDir() {
		t.Errorf("request dir %s not created: %v", dir2, err)
	}
}
