package socket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/net/websocket"

	"apiconsole/internal/config"
	"apiconsole/internal/i18n"
	"apiconsole/internal/session"
)

// ErrAlreadyConnected 已有活动连接时再次连接
// ErrAlreadyConnected is returned when a connection is already active
var ErrAlreadyConnected = errors.New("websocket already connected")

const logPrefix = "[WS] "

type Options struct {
	Logger *slog.Logger
	// Sink 接收每一行日志（已本地化、带前缀）；可能在读协程中调用
	// Sink receives every localized, prefixed log line; it may be called from the reader goroutine
	Sink func(line string)
	// OnFrame 收到的原始帧
	// OnFrame receives each raw frame
	OnFrame func(frame string)
	Origin  string
}

// Console 只读的实时通知连接，令牌作为子协议发送
// Console is the receive-only live notification connection; the token travels as the sub-protocol
type Console struct {
	sess    *session.Session
	logger  *slog.Logger
	sink    func(string)
	onFrame func(string)
	origin  string
	wg      sync.WaitGroup
}

func New(sess *session.Session, opts Options) *Console {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	origin := strings.TrimSpace(opts.Origin)
	if origin == "" {
		origin = "http://localhost/"
	}
	return &Console{
		sess:    sess,
		logger:  logger,
		sink:    opts.Sink,
		onFrame: opts.OnFrame,
		origin:  origin,
	}
}

// handle 在拨号完成前就登记到会话，拨号期间的断开请求会在连接建立后立即生效
// handle is bound to the session before dialing; a disconnect during dialing takes effect once the dial returns
type handle struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func (h *handle) attach(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.conn = conn
	return true
}

func (h *handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	if h.conn != nil {
		return h.conn.Close()
	}
	return nil
}

func (h *handle) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Connect 打开连接；空地址使用默认地址。已连接时返回 ErrAlreadyConnected 且不影响现有连接
// Connect opens the connection; an empty url uses the default. When already connected it returns
// ErrAlreadyConnected and leaves the existing connection alone
func (c *Console) Connect(ctx context.Context, rawURL string) error {
	target := strings.TrimSpace(rawURL)
	if target == "" {
		target = config.DefaultWSURL
	}

	h := &handle{}
	if !c.sess.BindSocket(h) {
		return ErrAlreadyConnected
	}

	cfg, err := websocket.NewConfig(target, c.origin)
	if err != nil {
		c.fail(h, err)
		return fmt.Errorf("websocket config: %w", err)
	}
	if token := c.sess.Token(); token != "" {
		cfg.Protocol = []string{token}
	}

	conn, err := cfg.DialContext(ctx)
	if err != nil {
		c.fail(h, err)
		return fmt.Errorf("websocket dial: %w", err)
	}
	if !h.attach(conn) {
		_ = conn.Close()
		c.emit(i18n.T("ws.closed"))
		c.sess.ReleaseSocket(h)
		return nil
	}

	c.logger.Info("websocket connected", "url", target)
	c.emit(i18n.T("ws.connected"))

	c.wg.Add(1)
	go c.readLoop(h, conn)
	return nil
}

// Disconnect 关闭当前连接；没有连接时什么也不做
// Disconnect closes the active connection; it is a no-op when nothing is connected
func (c *Console) Disconnect() error {
	h := c.sess.Socket()
	if h == nil {
		return nil
	}
	return h.Close()
}

func (c *Console) Connected() bool {
	return c.sess.Socket() != nil
}

// Wait 等待所有读协程退出
// Wait blocks until every reader goroutine has exited
func (c *Console) Wait() {
	c.wg.Wait()
}

func (c *Console) readLoop(h *handle, conn *websocket.Conn) {
	defer c.wg.Done()
	for {
		var frame string
		if err := websocket.Message.Receive(conn, &frame); err != nil {
			if !errors.Is(err, io.EOF) && !h.isClosed() {
				c.logger.Warn("websocket read failed", "error", err)
				c.emit(i18n.T("ws.error", err.Error()))
			}
			_ = h.Close()
			c.sess.ReleaseSocket(h)
			c.logger.Info("websocket closed")
			c.emit(i18n.T("ws.closed"))
			return
		}
		c.logger.Debug("websocket frame", "bytes", len(frame))
		if c.onFrame != nil {
			c.onFrame(frame)
		}
		c.emit(i18n.T("ws.received", frame))
	}
}

func (c *Console) fail(h *handle, err error) {
	c.logger.Warn("websocket connect failed", "error", err)
	c.emit(i18n.T("ws.error", err.Error()))
	c.emit(i18n.T("ws.closed"))
	c.sess.ReleaseSocket(h)
}

func (c *Console) emit(line string) {
	if c.sink != nil {
		c.sink(logPrefix + line)
	}
}
