package session

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"apiconsole/internal/config"
	"apiconsole/internal/storage"
)

// Session 持有页面生命周期内的状态：后端地址、令牌、当前 WebSocket 句柄
// Session holds process-wide state: base URL, auth token and the active socket handle
//
// baseURL 与 token 在每次修改后立即写回存储；socket 句柄只存在于内存。
// baseURL and token are written back to the store after every change; the socket handle lives in memory only.
type Session struct {
	mu      sync.RWMutex
	store   storage.Store
	baseURL string
	token   string
	socket  io.Closer
}

// Load 从存储读取 baseURL 与 token；未保存 baseURL 时使用 fallback（为空则取默认地址）
// Load reads baseURL and token from the store; a missing baseURL falls back to fallback (or the default address)
func Load(store storage.Store, fallback string) (*Session, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is nil")
	}
	s := &Session{store: store}

	baseURL, ok, err := store.Get(storage.KeyBaseURL)
	if err != nil {
		return nil, fmt.Errorf("load base url: %w", err)
	}
	baseURL = strings.TrimSpace(baseURL)
	if !ok || baseURL == "" {
		baseURL = strings.TrimSpace(fallback)
	}
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	s.baseURL = baseURL

	token, _, err := store.Get(storage.KeyToken)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	s.token = strings.TrimSpace(token)
	return s, nil
}

func (s *Session) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL
}

// SetBaseURL 保存新的后端地址；调用方负责非空校验
// SetBaseURL stores a new base URL; callers validate it is non-empty
func (s *Session) SetBaseURL(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("base url is empty")
	}
	if err := s.store.Set(storage.KeyBaseURL, url); err != nil {
		return fmt.Errorf("persist base url: %w", err)
	}
	s.mu.Lock()
	s.baseURL = url
	s.mu.Unlock()
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) HasToken() bool {
	return s.Token() != ""
}

func (s *Session) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if err := s.store.Set(storage.KeyToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// ClearToken 删除已保存的令牌
// ClearToken removes the stored token
func (s *Session) ClearToken() error {
	if err := s.store.Delete(storage.KeyToken); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

// Socket 返回当前活动的 WebSocket 句柄，没有则为 nil
// Socket returns the active socket handle, or nil
func (s *Session) Socket() io.Closer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.socket
}

// BindSocket 在没有活动连接时登记句柄；已有连接时返回 false 且不做任何改动
// BindSocket registers h when no connection is active; returns false and changes nothing otherwise
func (s *Session) BindSocket(h io.Closer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.socket != nil {
		return false
	}
	s.socket = h
	return true
}

// ReleaseSocket 仅当 h 仍是当前句柄时清除
// ReleaseSocket clears the handle only if h is still the active one
func (s *Session) ReleaseSocket(h io.Closer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.socket == h {
		s.socket = nil
	}
}
