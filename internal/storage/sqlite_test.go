package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_KeyValue(t *testing.T) {
	store := newTestStore(t)

	if _, ok, err := store.Get(KeyBaseURL); err != nil || ok {
		t.Fatalf("Get missing key: ok=%v err=%v", ok, err)
	}

	if err := store.Set(KeyBaseURL, "http://api.test"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := store.Get(KeyBaseURL)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got != "http://api.test" {
		t.Fatalf("value=%q, want %q", got, "http://api.test")
	}

	// 覆盖 / Overwrite
	if err := store.Set(KeyBaseURL, "http://other.test"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, _, _ = store.Get(KeyBaseURL)
	if got != "http://other.test" {
		t.Fatalf("value after overwrite=%q", got)
	}

	// 空字符串也是有效值 / Empty string is a stored value
	if err := store.Set(KeyToken, ""); err != nil {
		t.Fatalf("Set empty: %v", err)
	}
	if _, ok, _ := store.Get(KeyToken); !ok {
		t.Fatalf("empty value should still be present")
	}

	if err := store.Delete(KeyToken); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := store.Get(KeyToken); ok {
		t.Fatalf("key should be gone after Delete")
	}

	if err := store.Set(" ", "x"); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "state.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := store.Set(KeyToken, "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_ = store.Close()

	reopened, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, ok, err := reopened.Get(KeyToken)
	if err != nil || !ok || got != "abc" {
		t.Fatalf("after reopen got=%q ok=%v err=%v", got, ok, err)
	}
}

func TestSQLiteStore_Transcript(t *testing.T) {
	store := newTestStore(t)

	first, err := store.AppendEntry(Entry{Kind: EntryChat, Prompt: "你好", Response: "hi", PromptTokens: 2})
	if err != nil {
		t.Fatalf("AppendEntry: %v", err)
	}
	if first.ID == 0 || first.CreatedAt == "" {
		t.Fatalf("entry not populated: %+v", first)
	}
	for _, text := range []string{"[WS] connected", "[WS] received: ping", "[WS] closed"} {
		if _, err := store.AppendEntry(Entry{Kind: EntrySocket, Text: text}); err != nil {
			t.Fatalf("AppendEntry socket: %v", err)
		}
	}

	recent, err := store.RecentEntries(2)
	if err != nil {
		t.Fatalf("RecentEntries: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("RecentEntries count=%d, want 2", len(recent))
	}
	if recent[0].Text != "[WS] received: ping" || recent[1].Text != "[WS] closed" {
		t.Fatalf("unexpected order: %+v", recent)
	}

	all, _ := store.RecentEntries(10)
	if len(all) != 4 || all[0].Kind != EntryChat || all[0].Prompt != "你好" || all[0].PromptTokens != 2 {
		t.Fatalf("unexpected entries: %+v", all)
	}

	if _, err := store.AppendEntry(Entry{}); err == nil {
		t.Fatalf("expected error for entry without kind")
	}

	if err := store.ClearEntries(); err != nil {
		t.Fatalf("ClearEntries: %v", err)
	}
	if left, _ := store.RecentEntries(10); len(left) != 0 {
		t.Fatalf("entries left after clear: %d", len(left))
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Set(KeyToken, "t")
	if v, ok, _ := store.Get(KeyToken); !ok || v != "t" {
		t.Fatalf("Get=%q ok=%v", v, ok)
	}
	for i := 0; i < 3; i++ {
		_, _ = store.AppendEntry(Entry{Kind: EntrySocket, Text: string(rune('a' + i))})
	}
	recent, _ := store.RecentEntries(2)
	if len(recent) != 2 || recent[0].Text != "b" || recent[1].ID != 3 {
		t.Fatalf("unexpected recent: %+v", recent)
	}
}

func TestImportBrowserState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "localStorage.json")
	if err := os.WriteFile(path, []byte(`{"baseURL":"http://api.test","token":"abc","other":1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	store := NewMemoryStore()
	n, err := ImportBrowserState(path, store)
	if err != nil {
		t.Fatalf("ImportBrowserState: %v", err)
	}
	if n != 2 {
		t.Fatalf("imported=%d, want 2", n)
	}
	if v, _, _ := store.Get(KeyBaseURL); v != "http://api.test" {
		t.Fatalf("baseURL=%q", v)
	}
	if v, _, _ := store.Get(KeyToken); v != "abc" {
		t.Fatalf("token=%q", v)
	}

	if n, err := ImportBrowserState("", store); err != nil || n != 0 {
		t.Fatalf("empty path: n=%d err=%v", n, err)
	}
}
