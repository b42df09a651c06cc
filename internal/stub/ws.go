package stub

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/net/websocket"
)

// Notice 推送给客户端的帧
// Notice is one frame pushed to a client
type Notice struct {
	Type   string `json:"type"`
	Action string `json:"action,omitempty"`
	Msg    string `json:"msg,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// hub 每个用户一个连接；新连接会关闭旧连接
// hub keeps one connection per user; a new connection closes the previous one
type hub struct {
	mu     sync.RWMutex
	conns  map[string]*websocket.Conn
	logger *slog.Logger
}

func newHub(logger *slog.Logger) *hub {
	return &hub{conns: make(map[string]*websocket.Conn), logger: logger}
}

func (h *hub) add(uid string, ws *websocket.Conn) {
	h.mu.Lock()
	old := h.conns[uid]
	h.conns[uid] = ws
	h.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
}

func (h *hub) remove(uid string, ws *websocket.Conn) {
	h.mu.Lock()
	if h.conns[uid] == ws {
		delete(h.conns, uid)
	}
	h.mu.Unlock()
}

func (h *hub) closeAll() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[string]*websocket.Conn)
	h.mu.Unlock()
	for _, ws := range conns {
		_ = ws.Close()
	}
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// notify 用户不在线时静默丢弃
// notify drops the frame silently when the user is offline
func (h *hub) notify(uid string, n Notice) {
	h.mu.RLock()
	ws := h.conns[uid]
	h.mu.RUnlock()
	if ws == nil {
		return
	}
	h.send(uid, ws, n)
}

func (h *hub) broadcast(n Notice) {
	h.mu.RLock()
	targets := make(map[string]*websocket.Conn, len(h.conns))
	for uid, ws := range h.conns {
		targets[uid] = ws
	}
	h.mu.RUnlock()
	for uid, ws := range targets {
		h.send(uid, ws, n)
	}
}

func (h *hub) send(uid string, ws *websocket.Conn, n Notice) {
	b, err := json.Marshal(n)
	if err != nil {
		h.logger.Warn("encode notice", "err", err)
		return
	}
	if err := websocket.Message.Send(ws, string(b)); err != nil {
		h.logger.Debug("push notice", "uid", uid, "err", err)
	}
}

// wsHandler 令牌通过 Sec-WebSocket-Protocol 传入，校验后原样回写
// wsHandler reads the token from Sec-WebSocket-Protocol and echoes it back once verified
func (s *Server) wsHandler() http.Handler {
	return websocket.Server{
		Handshake: func(cfg *websocket.Config, r *http.Request) error {
			if len(cfg.Protocol) == 0 {
				s.logger.Debug("ws auth fail", "err", "no sub-protocol")
				return unauthorized("token is empty")
			}
			tok := cfg.Protocol[0]
			if _, err := s.issuer.parse(tok); err != nil {
				s.logger.Debug("ws auth fail", "err", err)
				return err
			}
			cfg.Protocol = []string{tok}
			return nil
		},
		Handler: s.serveConn,
	}
}

func (s *Server) serveConn(ws *websocket.Conn) {
	defer ws.Close()
	protocols := ws.Config().Protocol
	if len(protocols) == 0 {
		return
	}
	uid, err := s.issuer.parse(protocols[0])
	if err != nil {
		return
	}

	s.hub.add(uid, ws)
	defer s.hub.remove(uid, ws)
	s.logger.Info("ws connected", "uid", uid, "remote", ws.Request().RemoteAddr)

	s.hub.send(uid, ws, Notice{Type: "greeting", Msg: "connected"})

	// 客户端只收不发；读到 EOF 即断开
	for {
		var frame string
		if err := websocket.Message.Receive(ws, &frame); err != nil {
			if err != io.EOF {
				s.logger.Debug("ws read", "uid", uid, "err", err)
			}
			s.logger.Info("ws closed", "uid", uid)
			return
		}
		s.logger.Debug("ws frame ignored", "uid", uid, "size", len(frame))
	}
}
