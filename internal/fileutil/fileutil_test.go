//go:build !windows

package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMoveFile(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()

	src := filepath.Join(srcDir, "doc.txt")
	if err := os.WriteFile(src, []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := MoveFile(src, destDir); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source still exists after move")
	}
	moved, err := os.ReadFile(filepath.Join(destDir, "doc.txt"))
	if err != nil {
		t.Fatalf("moved file unreadable: %v", err)
	}
	if string(moved) != "payload" {
		t.Errorf("moved content = %q", moved)
	}
}

func TestMoveFile_CollisionGetsCounter(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(destDir, "doc.txt"), []byte("existing"), 0644); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(srcDir, "doc.txt")
	if err := os.WriteFile(src, []byte("incoming"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := MoveFile(src, destDir); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	moved, err := os.ReadFile(filepath.Join(destDir, "doc_1.txt"))
	if err != nil {
		t.Fatalf("expected doc_1.txt: %v", err)
	}
	if string(moved) != "incoming" {
		t.Errorf("doc_1.txt content = %q", moved)
	}
}

func TestFindUniqueName(t *testing.T) {
	taken := map[string]bool{"a.jpg": true, "a_1.jpg": true}
	got := findUniqueName("a.jpg", func(name string) bool { return !taken[name] })
	if got != "a_2.jpg" {
		t.Errorf("findUniqueName = %q, want a_2.jpg", got)
	}
}
