package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"apiconsole/internal/session"
)

// Client 会话客户端：拼接地址、附加认证、统一响应与错误
// Client is the session client: builds URLs, attaches auth, normalizes responses and errors
type Client struct {
	sess       *session.Session
	httpClient *http.Client
	logger     *slog.Logger
}

type Options struct {
	// TimeoutMS 为 0 时不设超时。
	// TimeoutMS of 0 means no timeout.
	TimeoutMS  int
	HTTPClient *http.Client
	Logger     *slog.Logger
}

func New(sess *session.Session, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
		if opts.TimeoutMS > 0 {
			httpClient.Timeout = time.Duration(opts.TimeoutMS) * time.Millisecond
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{sess: sess, httpClient: httpClient, logger: logger}
}

func (c *Client) Session() *session.Session {
	return c.sess
}

// RequestOptions 单次请求参数；零值即 GET、无请求体、带认证
// RequestOptions configures one request; the zero value is an authenticated GET without body
type RequestOptions struct {
	Method string
	Header http.Header
	// Body 支持 string / []byte / json.RawMessage（按 JSON 文本发送）、url.Values（表单）、
	// *Multipart（保留其自带的 Content-Type），其它值按 JSON 编码。
	// Body accepts string / []byte / json.RawMessage (sent as JSON text), url.Values (form),
	// *Multipart (keeps its own Content-Type); anything else is JSON-encoded.
	Body     any
	SkipAuth bool
}

// Multipart 预先构建好的 multipart 表单
// Multipart is a pre-built multipart form body
type Multipart struct {
	ContentType string
	Body        io.Reader
}

// ConfigureBaseURL 校验并保存后端地址，不发起任何网络请求
// ConfigureBaseURL validates and stores the backend address without any network call
func (c *Client) ConfigureBaseURL(raw string) error {
	v := strings.TrimSpace(raw)
	if v == "" {
		return &ValidationError{Field: "baseURL", Message: "base url is empty"}
	}
	return c.sess.SetBaseURL(v)
}

// URL 用当前 baseURL 拼接路径；path 只去掉一个前导斜杠
// URL joins the current base URL with path, stripping a single leading slash
func (c *Client) URL(path string) string {
	return c.sess.BaseURL() + "/" + strings.TrimPrefix(path, "/")
}

// Request 发送请求并把响应解析为 JSON；空响应或非法 JSON 返回空对象
// Request sends a request and decodes the JSON response; empty or invalid JSON yields an empty object
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (any, error) {
	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = http.MethodGet
	}

	header := http.Header{}
	for k, vs := range opts.Header {
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	if !opts.SkipAuth {
		if token := c.sess.Token(); token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	body, contentType, err := encodeBody(opts.Body)
	if err != nil {
		return nil, err
	}
	if contentType != "" && header.Get("Content-Type") == "" {
		header.Set("Content-Type", contentType)
	}
	requestID := header.Get("X-Request-Id")
	if requestID == "" {
		requestID = uuid.NewString()
		header.Set("X-Request-Id", requestID)
	}

	target := c.URL(path)
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header = header

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "request_id", requestID, "method", method, "url", target, "error", err)
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request done",
		"request_id", requestID,
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"duration", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, newHTTPError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return decodeJSON(data), nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return strings.NewReader(b), "application/json", nil
	case []byte:
		return bytes.NewReader(b), "application/json", nil
	case json.RawMessage:
		return bytes.NewReader(b), "application/json", nil
	case url.Values:
		return strings.NewReader(b.Encode()), "application/x-www-form-urlencoded", nil
	case *Multipart:
		return b.Body, b.ContentType, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("marshal request body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

func decodeJSON(data []byte) any {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return map[string]any{}
	}
	if out == nil {
		return map[string]any{}
	}
	return out
}

// withQuery 按给定顺序追加非空参数；全部为空时返回原路径
// withQuery appends the non-empty pairs in order; the path is returned untouched when all are empty
func withQuery(path string, pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		v := strings.TrimSpace(pairs[i+1])
		if v == "" {
			continue
		}
		if b.Len() == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(pairs[i]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	return path + b.String()
}
