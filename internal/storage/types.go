package storage

// 持久化键名 / Persisted state keys
const (
	KeyBaseURL = "baseURL"
	KeyToken   = "token"
)

// EntryKind 记录类别
// EntryKind is the transcript entry category
type EntryKind string

const (
	EntryChat   EntryKind = "chat"
	EntrySocket EntryKind = "socket"
)

// Entry 记录条目：聊天往返或 WebSocket 日志行
// Entry is a transcript entry: a chat exchange or a WebSocket log line
type Entry struct {
	ID           int64     `json:"id"`
	Kind         EntryKind `json:"kind"`
	Prompt       string    `json:"prompt,omitempty"`
	Response     string    `json:"response,omitempty"`
	Text         string    `json:"text,omitempty"`
	PromptTokens int       `json:"prompt_tokens,omitempty"`
	CreatedAt    string    `json:"created_at"`
}
