package transcript

import (
	"encoding/json"
	"fmt"
	"strings"

	"apiconsole/internal/storage"
)

// Recorder 把聊天往返与 WebSocket 帧写入本地记录
// Recorder appends chat exchanges and WebSocket frames to the local transcript
type Recorder struct {
	store storage.Store
	tok   *Tokenizer
	limit int
}

func NewRecorder(store storage.Store, tok *Tokenizer, limit int) *Recorder {
	if tok == nil {
		tok = HeuristicTokenizer()
	}
	if limit <= 0 {
		limit = 50
	}
	return &Recorder{store: store, tok: tok, limit: limit}
}

func (r *Recorder) RecordChat(prompt string, reply any) (storage.Entry, error) {
	entry := storage.Entry{
		Kind:         storage.EntryChat,
		Prompt:       prompt,
		Response:     ReplyText(reply),
		PromptTokens: r.tok.CountText(prompt),
	}
	saved, err := r.store.AppendEntry(entry)
	if err != nil {
		return storage.Entry{}, fmt.Errorf("record chat: %w", err)
	}
	return saved, nil
}

func (r *Recorder) RecordFrame(frame string) (storage.Entry, error) {
	saved, err := r.store.AppendEntry(storage.Entry{Kind: storage.EntrySocket, Text: frame})
	if err != nil {
		return storage.Entry{}, fmt.Errorf("record frame: %w", err)
	}
	return saved, nil
}

// Recent n<=0 时使用配置的上限
// Recent uses the configured limit when n<=0
func (r *Recorder) Recent(n int) ([]storage.Entry, error) {
	if n <= 0 || n > r.limit {
		n = r.limit
	}
	return r.store.RecentEntries(n)
}

func (r *Recorder) Clear() error {
	return r.store.ClearEntries()
}

func (r *Recorder) Tokenizer() *Tokenizer {
	return r.tok
}

// ReplyText 字符串原样返回，其余值编码为缩进 JSON
// ReplyText returns strings unchanged and encodes anything else as indented JSON
func ReplyText(reply any) string {
	switch v := reply.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	data, err := json.MarshalIndent(reply, "", "  ")
	if err != nil {
		return fmt.Sprint(reply)
	}
	return strings.TrimSpace(string(data))
}
