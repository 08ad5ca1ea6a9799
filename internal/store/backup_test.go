package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBackup_LastAndTrim(t *testing.T) {
	s := openTestStore(t, 0)

	if _, ok := s.LastBackup("/a.txt"); ok {
		t.Fatal("expected no backup")
	}
	s.RecordBackup("/a.txt", []byte("one"), 2)
	s.RecordBackup("/a.txt", []byte("two"), 2)
	s.RecordBackup("/a.txt", []byte("three"), 2)

	b, ok := s.LastBackup("/a.txt")
	if !ok || string(b.Content) != "three" {
		t.Fatalf("LastBackup = %q, %v", b.Content, ok)
	}
	if n := s.Backups("/a.txt"); n != 2 {
		t.Errorf("Backups = %d, want 2", n)
	}
}

func TestBackup_SkipsDuplicate(t *testing.T) {
	s := openTestStore(t, 0)
	s.RecordBackup("/a.txt", []byte("same"), 10)
	s.RecordBackup("/a.txt", []byte("same"), 10)
	if n := s.Backups("/a.txt"); n != 1 {
		t.Errorf("Backups = %d, want 1", n)
	}
}

func TestBackup_TooLarge(t *testing.T) {
	s := openTestStore(t, 0)
	s.RecordBackup("/big.txt", []byte(strings.Repeat("x", MaxBackupSize+1)), 10)
	if n := s.Backups("/big.txt"); n != 0 {
		t.Errorf("Backups = %d, want 0", n)
	}
}

func TestBackup_NilStore(t *testing.T) {
	var s *Store
	s.RecordBackup("/a.txt", []byte("x"), 1)
	if _, ok := s.LastBackup("/a.txt"); ok {
		t.Error("nil store returned a backup")
	}
}

func TestSnapshotFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "f.txt")
	if _, ok := SnapshotFile(p); ok {
		t.Fatal("missing file snapshotted")
	}
	if err := os.WriteFile(p, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, ok := SnapshotFile(p)
	if !ok || string(data) != "data" {
		t.Errorf("SnapshotFile = %q, %v", data, ok)
	}
}
