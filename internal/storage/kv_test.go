package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// exerciseKV runs the behaviour every backend must share.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "workouts"); err != nil || ok {
		t.Fatalf("Get on empty store = ok %v, err %v; want absent", ok, err)
	}
	if err := kv.Put(ctx, "workouts", []byte(`[1]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := kv.Put(ctx, "workouts", []byte(`[2]`)); err != nil {
		t.Fatalf("second Put: %v", err)
	}
	got, ok, err := kv.Get(ctx, "workouts")
	if err != nil || !ok {
		t.Fatalf("Get after Put = ok %v, err %v", ok, err)
	}
	if string(got) != `[2]` {
		t.Errorf("Get = %s, want [2] (full overwrite)", got)
	}
	if err := kv.Delete(ctx, "workouts"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "workouts"); ok {
		t.Error("key still present after Delete")
	}
	if err := kv.Delete(ctx, "workouts"); err != nil {
		t.Errorf("Delete of absent key = %v, want nil", err)
	}
}

// TestMemoryKV verifies the in-memory backend.
func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemory())
}

// TestMemoryKVCopiesValues verifies callers cannot mutate stored bytes.
func TestMemoryKVCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	buf := []byte("abc")
	m.Put(ctx, "k", buf)
	buf[0] = 'x'
	got, _, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value = %q, want abc", got)
	}
}

// TestFileKV verifies the JSON file backend and that no temp file is left behind.
func TestFileKV(t *testing.T) {
	dir := t.TempDir()
	f, err := OpenFile(filepath.Join(dir, "data"))
	if err != nil {
		t.Fatal(err)
	}
	exerciseKV(t, f)

	if err := f.Put(context.Background(), "workouts", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "workouts.json")); err != nil {
		t.Errorf("blob file not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "workouts.json.tmp")); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

// TestFileKVRejectsPathKeys verifies keys cannot escape the storage directory.
func TestFileKVRejectsPathKeys(t *testing.T) {
	f, err := OpenFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"", "../evil", "a/b", ".."} {
		if err := f.Put(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("Put(%q) succeeded, want error", key)
		}
	}
}

// TestSQLiteKV verifies the embedded SQLite backend.
func TestSQLiteKV(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "mapty.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	exerciseKV(t, db)
}

// TestSQLiteKVPersistsAcrossOpen verifies data survives reopening the file.
func TestSQLiteKVPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mapty.db")
	ctx := context.Background()

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Put(ctx, "workouts", []byte(`["kept"]`)); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	got, ok, err := db.Get(ctx, "workouts")
	if err != nil || !ok || string(got) != `["kept"]` {
		t.Errorf("Get after reopen = %s, %v, %v", got, ok, err)
	}
}

// TestOpenDrivers verifies driver selection for the backends that need no server.
func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, opts := range []Options{
		{Driver: DriverMemory},
		{Driver: ""},
		{Driver: DriverFile, Path: filepath.Join(dir, "files")},
		{Driver: DriverSQLite, Path: filepath.Join(dir, "kv.db")},
	} {
		kv, err := Open(ctx, opts)
		if err != nil {
			t.Errorf("Open(%q): %v", opts.Driver, err)
			continue
		}
		kv.Close()
	}

	if _, err := Open(ctx, Options{Driver: "redis"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}
