package storage

// Store 持久化接口，支持多后端 (SQLite / 内存)
// Store is the persistence interface supporting multiple backends (SQLite / memory)
type Store interface {
	// 键值状态 / Key-value state
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error

	// 记录 / Transcript entries
	AppendEntry(entry Entry) (Entry, error)
	RecentEntries(limit int) ([]Entry, error)
	ClearEntries() error

	// 生命周期 / Lifecycle
	Close() error
}
