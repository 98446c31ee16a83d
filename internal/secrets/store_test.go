package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreLoadMissingFile(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), ".secrets.yaml"))

	if store.Exists() {
		t.Fatalf("expected store file to be absent")
	}
	records, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty record set, got %v", records)
	}
}

func TestStoreLoadEmptyDocuments(t *testing.T) {
	t.Parallel()

	for _, content := range []string{"", "secrets:\n", "# comment only\n"} {
		path := filepath.Join(t.TempDir(), ".secrets.yaml")
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}

		records, err := NewStore(path).Load()
		if err != nil {
			t.Fatalf("Load returned error for %q: %v", content, err)
		}
		if len(records) != 0 {
			t.Fatalf("expected empty record set for %q, got %v", content, records)
		}
	}
}

func TestStoreLoadMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".secrets.yaml")
	if err := os.WriteFile(path, []byte("secrets: [broken\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := NewStore(path).Load(); err == nil {
		t.Fatalf("expected error for malformed store file")
	}
}

func TestStoreFlushCleanIsNoOp(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".secrets.yaml")
	content := []byte("secrets:\n  jwt_secret: abc\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat fixture: %v", err)
	}

	store := NewStore(path)
	if err := store.Flush(map[string]string{"jwt_secret": "different"}, false); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}

	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat after flush: %v", err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Fatalf("clean flush must not touch the file")
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read after flush: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("clean flush changed content: %q", got)
	}
}

func TestStoreFlushWritesAtomically(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".secrets.yaml")
	store := NewStore(path)

	records := map[string]string{"jwt_secret": "abc", "db_app_pass": "def"}
	if err := store.Flush(records, true); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected store file after flush: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected mode 0600, got %o", perm)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind after flush")
	}

	reloaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if reloaded["jwt_secret"] != "abc" || reloaded["db_app_pass"] != "def" {
		t.Fatalf("unexpected records after reload: %v", reloaded)
	}
}

func TestStoreFlushPreservesExistingRecords(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".secrets.yaml")
	store := NewStore(path)
	if err := store.Flush(map[string]string{"jwt_secret": "abc"}, true); err != nil {
		t.Fatalf("first flush: %v", err)
	}

	records, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	records["admin_password"] = "xyz"
	if err := store.Flush(records, true); err != nil {
		t.Fatalf("second flush: %v", err)
	}

	reloaded, err := store.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded["jwt_secret"] != "abc" || reloaded["admin_password"] != "xyz" {
		t.Fatalf("expected old and new records, got %v", reloaded)
	}
}
