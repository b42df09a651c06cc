package client

import (
	"fmt"
	"net/http"
	"strings"
)

// HTTPError 非 2xx 响应
// HTTPError is returned for non-2xx responses
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s", e.StatusCode, e.Status)
}

func newHTTPError(resp *http.Response) *HTTPError {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return &HTTPError{StatusCode: resp.StatusCode, Status: text}
}

// AuthError 登录响应中找不到令牌
// AuthError is returned when a login response carries no recognizable token
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "login response has no token"
	}
	return e.Message
}

// ValidationError 在发出任何请求之前拦截的本地输入错误
// ValidationError is a local input error caught before any request is made
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
