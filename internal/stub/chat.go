package stub

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"apiconsole/internal/config"
)

// Responder 生成对话回复
// Responder produces a chat reply for one prompt
type Responder interface {
	Reply(ctx context.Context, prompt string) (string, error)
}

// EchoResponder 未配置模型时原样回显
// EchoResponder echoes the prompt when no model is configured
type EchoResponder struct{}

func (EchoResponder) Reply(_ context.Context, prompt string) (string, error) {
	return "echo: " + prompt, nil
}

// OpenAIResponder 把提示转发给 OpenAI 兼容接口
// OpenAIResponder forwards the prompt to an OpenAI-compatible endpoint
type OpenAIResponder struct {
	client *openai.Client
	model  string
}

func NewOpenAIResponder(baseURL, apiKey, model string) *OpenAIResponder {
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIResponder{client: openai.NewClientWithConfig(cfg), model: model}
}

func (r *OpenAIResponder) Reply(ctx context.Context, prompt string) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ResponderFor 配置了 API Key 时使用 OpenAI，否则回显
// ResponderFor uses OpenAI when an API key is configured, echo otherwise
func ResponderFor(cfg config.StubConfig) Responder {
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		return EchoResponder{}
	}
	return NewOpenAIResponder(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
}
