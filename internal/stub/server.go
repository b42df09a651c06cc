// Package stub 本地联调用的内存后端：登录、待办、审批、对话、上传与 WebSocket 推送
// Package stub is an in-memory backend for local testing: login, todos, approvals, chat, upload and WebSocket pushes
package stub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"apiconsole/internal/config"
)

const uploadPrefix = "/v1/upload/file/"

type Options struct {
	Logger *slog.Logger
	// Responder 为 nil 时按配置选择
	// Responder defaults to ResponderFor(cfg)
	Responder Responder
	Now       func() time.Time
}

type Server struct {
	cfg       config.StubConfig
	logger    *slog.Logger
	issuer    issuer
	mem       *memory
	hub       *hub
	responder Responder
	names     map[string]string
}

func New(cfg config.StubConfig, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	responder := opts.Responder
	if responder == nil {
		responder = ResponderFor(cfg)
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		issuer: issuer{
			secret: []byte(cfg.JWTSecret),
			expire: time.Duration(cfg.JWTExpireSec) * time.Second,
			now:    now,
		},
		mem:       newMemory(now),
		hub:       newHub(logger),
		responder: responder,
		names:     make(map[string]string, len(cfg.Users)),
	}
	for name := range cfg.Users {
		s.names[userID(name)] = name
	}
	s.mem.seedApprovals(s.Users())
	return s
}

// Users 配置中的演示用户，按名字排序
// Users lists the configured demo users sorted by name
func (s *Server) Users() []Identity {
	out := make([]Identity, 0, len(s.names))
	for id, name := range s.names {
		out = append(out, Identity{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Server) nameOf(uid string) string {
	if name, ok := s.names[uid]; ok {
		return name
	}
	return uid
}

// Handler HTTP 接口，带 CORS
// Handler returns the HTTP API wrapped in CORS
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/v1/user/login", s.login).Methods(http.MethodPost)

	api := r.PathPrefix("/v1").Subrouter()
	api.Use(s.authMiddleware)
	api.HandleFunc("/todo/list", s.listTodos).Methods(http.MethodGet)
	api.HandleFunc("/todo/finish", s.finishTodo).Methods(http.MethodPost)
	api.HandleFunc("/todo", s.createTodo).Methods(http.MethodPost)
	api.HandleFunc("/todo/{id}", s.getTodo).Methods(http.MethodGet)
	api.HandleFunc("/todo/{id}", s.deleteTodo).Methods(http.MethodDelete)
	api.HandleFunc("/approval/list", s.listApprovals).Methods(http.MethodGet)
	api.HandleFunc("/approval/dispose", s.disposeApproval).Methods(http.MethodPut)
	api.HandleFunc("/chat", s.chat).Methods(http.MethodPost)
	api.HandleFunc("/upload/file", s.uploadFile).Methods(http.MethodPost)
	api.HandleFunc("/upload/file/{key}", s.downloadFile).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fail(w, notFound("not found"))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-Id"},
	})
	return c.Handler(r)
}

// WSHandler 挂在 /ws 上的推送服务
// WSHandler serves pushes under /ws
func (s *Server) WSHandler() http.Handler {
	m := http.NewServeMux()
	m.Handle("/ws", s.wsHandler())
	return m
}

// Connections 当前在线的 WebSocket 用户数
// Connections reports how many users hold a WebSocket
func (s *Server) Connections() int {
	return s.hub.count()
}

// Broadcast 向所有在线用户推送一帧
// Broadcast pushes one frame to every connected user
func (s *Server) Broadcast(n Notice) {
	s.hub.broadcast(n)
}

// Run 同时监听 HTTP 与 WebSocket 地址，ctx 结束时优雅关闭
// Run listens on the HTTP and WebSocket addresses and shuts down when ctx ends
func (s *Server) Run(ctx context.Context) error {
	servers := []*http.Server{
		{Addr: s.cfg.Addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second},
		{Addr: s.cfg.WSAddr, Handler: s.WSHandler(), ReadHeaderTimeout: 10 * time.Second},
	}

	errc := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			s.logger.Info("stub listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- fmt.Errorf("listen %s: %w", srv.Addr, err)
				return
			}
			errc <- nil
		}(srv)
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errc:
	}

	s.Broadcast(Notice{Type: "shutdown", Msg: "server stopping"})
	s.hub.closeAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("shutdown", "addr", srv.Addr, "err", err)
		}
	}
	return runErr
}
