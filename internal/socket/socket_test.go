package socket

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"golang.org/x/net/websocket"

	"apiconsole/internal/i18n"
	"apiconsole/internal/session"
	"apiconsole/internal/storage"
)

type lines struct {
	mu  sync.Mutex
	out []string
}

func (l *lines) add(s string) {
	l.mu.Lock()
	l.out = append(l.out, s)
	l.mu.Unlock()
}

func (l *lines) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.out...)
}

// wsServer 发送 frames；hold 为 true 时保持连接直到客户端关闭
// wsServer sends frames; with hold it keeps the connection until the client closes
func wsServer(t *testing.T, frames []string, hold bool) (string, <-chan []string) {
	t.Helper()
	protos := make(chan []string, 4)
	srv := httptest.NewServer(websocket.Server{
		Handshake: func(cfg *websocket.Config, r *http.Request) error {
			protos <- append([]string(nil), cfg.Protocol...)
			return nil
		},
		Handler: func(ws *websocket.Conn) {
			for _, f := range frames {
				if err := websocket.Message.Send(ws, f); err != nil {
					return
				}
			}
			if hold {
				_, _ = io.Copy(io.Discard, ws)
			}
		},
	})
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws", protos
}

func newConsole(t *testing.T, token string) (*Console, *session.Session, *lines, *lines) {
	t.Helper()
	i18n.Init("en")
	sess, err := session.Load(storage.NewMemoryStore(), "")
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		_ = sess.SetToken(token)
	}
	log, frames := &lines{}, &lines{}
	c := New(sess, Options{Sink: log.add, OnFrame: frames.add})
	return c, sess, log, frames
}

func TestConnectSendsTokenAndReceives(t *testing.T) {
	url, protos := wsServer(t, []string{"hello", `{"n":1}`}, false)
	c, sess, log, frames := newConsole(t, "tok.abc-1")

	if err := c.Connect(context.Background(), url); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	c.Wait()

	if got := <-protos; len(got) != 1 || got[0] != "tok.abc-1" {
		t.Fatalf("sub-protocols=%v", got)
	}
	want := []string{
		"[WS] WebSocket connected",
		"[WS] received: hello",
		`[WS] received: {"n":1}`,
		"[WS] WebSocket closed",
	}
	if got := log.all(); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("log lines=%q", got)
	}
	if len(frames.all()) != 2 {
		t.Fatalf("frames=%v", frames.all())
	}
	if sess.Socket() != nil || c.Connected() {
		t.Fatalf("socket should be released after server close")
	}
}

func TestConnectWithoutTokenSendsNoProtocol(t *testing.T) {
	url, protos := wsServer(t, nil, false)
	c, _, _, _ := newConsole(t, "")
	if err := c.Connect(context.Background(), url); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	c.Wait()
	if got := <-protos; len(got) != 0 {
		t.Fatalf("sub-protocols=%v, want none", got)
	}
}

func TestSecondConnectKeepsExisting(t *testing.T) {
	url, _ := wsServer(t, nil, true)
	c, sess, log, _ := newConsole(t, "tok")
	ctx := context.Background()

	if err := c.Connect(ctx, url); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	active := sess.Socket()
	if err := c.Connect(ctx, url); !errors.Is(err, ErrAlreadyConnected) {
		t.Fatalf("second Connect err=%v", err)
	}
	if sess.Socket() != active || !c.Connected() {
		t.Fatalf("existing connection replaced")
	}

	if err := c.Disconnect(); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	c.Wait()
	if c.Connected() {
		t.Fatalf("still connected after Disconnect")
	}
	for _, line := range log.all() {
		if strings.Contains(line, "error") {
			t.Fatalf("local close logged an error: %q", line)
		}
	}
	got := log.all()
	if got[len(got)-1] != "[WS] WebSocket closed" {
		t.Fatalf("last line=%q", got[len(got)-1])
	}

	// 关闭后可以重新连接 / Reconnect works after close
	if err := c.Connect(ctx, url); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	_ = c.Disconnect()
	c.Wait()
}

func TestDisconnectWithoutConnection(t *testing.T) {
	c, _, log, _ := newConsole(t, "")
	if err := c.Disconnect(); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if len(log.all()) != 0 {
		t.Fatalf("unexpected lines %v", log.all())
	}
}

func TestConnectFailureReleasesHandle(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	srv.Close()

	c, sess, log, _ := newConsole(t, "")
	if err := c.Connect(context.Background(), url); err == nil {
		t.Fatalf("expected dial error")
	}
	if sess.Socket() != nil {
		t.Fatalf("handle not released after failed dial")
	}
	got := log.all()
	if len(got) != 2 || !strings.HasPrefix(got[0], "[WS] WebSocket error: ") || got[1] != "[WS] WebSocket closed" {
		t.Fatalf("log lines=%q", got)
	}
}
