package transcript

import (
	"encoding/json"
	"testing"

	"apiconsole/internal/storage"
)

func TestHeuristicCounts(t *testing.T) {
	tok := HeuristicTokenizer()
	if tok.IsPrecise() {
		t.Fatalf("heuristic tokenizer reports precise")
	}
	if tok.CountText("") != 0 {
		t.Fatalf("empty text should count 0")
	}
	if got := tok.CountText("hi"); got != 1 {
		t.Fatalf("short ascii=%d, want minimum 1", got)
	}
	if got := tok.CountText("你好世界"); got != 6 {
		t.Fatalf("cjk=%d, want 6", got)
	}
	if got := tok.CountText("abcdefghijklmnop"); got != 4 {
		t.Fatalf("ascii=%d, want 4", got)
	}
}

func TestEncodingForModel(t *testing.T) {
	cases := map[string]string{
		"gpt-4o-mini":   "o200k_base",
		"o3-mini":       "o200k_base",
		"gpt-3.5-turbo": "cl100k_base",
		"qwen-plus":     "cl100k_base",
		"":              "cl100k_base",
	}
	for model, want := range cases {
		if got := EncodingForModel(model); got != want {
			t.Fatalf("EncodingForModel(%q)=%q, want %q", model, got, want)
		}
	}
}

func TestRecorder(t *testing.T) {
	store := storage.NewMemoryStore()
	rec := NewRecorder(store, HeuristicTokenizer(), 2)

	e, err := rec.RecordChat("你好", map[string]any{"reply": json.Number("1")})
	if err != nil {
		t.Fatalf("RecordChat: %v", err)
	}
	if e.Kind != storage.EntryChat || e.PromptTokens != 3 {
		t.Fatalf("entry=%+v", e)
	}
	if e.Response != "{\n  \"reply\": 1\n}" {
		t.Fatalf("response=%q", e.Response)
	}
	if _, err := rec.RecordFrame(`{"n":1}`); err != nil {
		t.Fatal(err)
	}
	if _, err := rec.RecordChat("again", "plain reply"); err != nil {
		t.Fatal(err)
	}

	recent, err := rec.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent=%d entries, want limit 2", len(recent))
	}
	if recent[0].Kind != storage.EntrySocket || recent[1].Response != "plain reply" {
		t.Fatalf("recent=%+v", recent)
	}

	if err := rec.Clear(); err != nil {
		t.Fatal(err)
	}
	if recent, _ := rec.Recent(0); len(recent) != 0 {
		t.Fatalf("entries after clear=%v", recent)
	}
}

func TestReplyText(t *testing.T) {
	if ReplyText(nil) != "" || ReplyText("x") != "x" {
		t.Fatalf("scalar reply text mismatch")
	}
	if ReplyText([]any{"a"}) != "[\n  \"a\"\n]" {
		t.Fatalf("list reply=%q", ReplyText([]any{"a"}))
	}
}
