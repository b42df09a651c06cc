package client

import (
	"context"
	"net/http"
	"strings"
)

// SendChat 发送一条提示，返回 data 字段（缺失时返回整个响应）
// SendChat posts one prompt and returns data, or the whole response when data is absent
func (c *Client) SendChat(ctx context.Context, prompt string) (any, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, &ValidationError{Field: "prompts", Message: "prompt is empty"}
	}
	resp, err := c.Request(ctx, "v1/chat", RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]string{"prompts": prompt},
	})
	if err != nil {
		return nil, err
	}
	return ExtractData(resp), nil
}
