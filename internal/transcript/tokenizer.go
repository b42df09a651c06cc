package transcript

import (
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

// Tokenizer 估算提示词 token 数，tiktoken 不可用时回退到启发式
// Tokenizer estimates prompt tokens with tiktoken, falling back to a heuristic when it is unavailable
type Tokenizer struct {
	encoder      *tiktoken.Tiktoken
	encodingName string
	fallback     bool
	mu           sync.RWMutex
}

var (
	tokenizers   = map[string]*Tokenizer{}
	tokenizersMu sync.Mutex
)

// SharedTokenizer 按编码名缓存实例；BPE 表加载代价较高
// SharedTokenizer caches one instance per encoding; loading BPE ranks is expensive
func SharedTokenizer(encodingName string) *Tokenizer {
	name := strings.TrimSpace(encodingName)
	if name == "" {
		name = defaultEncoding
	}
	tokenizersMu.Lock()
	defer tokenizersMu.Unlock()
	if t, ok := tokenizers[name]; ok {
		return t
	}
	t := NewTokenizer(name)
	tokenizers[name] = t
	return t
}

func NewTokenizer(encodingName string) *Tokenizer {
	t := &Tokenizer{encodingName: encodingName}
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		// 离线环境可能没有 BPE 缓存 / Offline environments may lack the BPE cache
		t.fallback = true
		return t
	}
	t.encoder = enc
	return t
}

// HeuristicTokenizer 不加载 BPE 表的估算器
// HeuristicTokenizer never loads BPE ranks
func HeuristicTokenizer() *Tokenizer {
	return &Tokenizer{encodingName: "heuristic", fallback: true}
}

func (t *Tokenizer) CountText(text string) int {
	if text == "" {
		return 0
	}
	if t.fallback {
		return heuristicTokenCount(text)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.encoder.Encode(text, nil, nil))
}

func (t *Tokenizer) IsPrecise() bool {
	return !t.fallback
}

func (t *Tokenizer) EncodingName() string {
	return t.encodingName
}

// heuristicTokenCount CJK 约 1.5 token/字，其余约 4 字符/token
// heuristicTokenCount uses ~1.5 tokens per CJK rune and ~4 chars per token otherwise
func heuristicTokenCount(text string) int {
	if text == "" {
		return 0
	}
	cjk, other := 0, 0
	for _, r := range text {
		if isCJK(r) {
			cjk++
		} else {
			other++
		}
	}
	estimate := int(float64(cjk)*1.5 + float64(other)*0.25)
	if estimate < 1 {
		estimate = 1
	}
	return estimate
}

func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x3000 && r <= 0x303F) ||
		(r >= 0xFF00 && r <= 0xFFEF) ||
		(r >= 0xAC00 && r <= 0xD7AF)
}

// EncodingForModel 按模型名选择编码，供桩服务统计用量
// EncodingForModel picks the encoding for a model name, used by the stub backend for usage numbers
func EncodingForModel(model string) string {
	m := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"),
		strings.HasPrefix(m, "gpt-4o"), strings.HasPrefix(m, "chatgpt-4o"):
		return "o200k_base"
	default:
		return defaultEncoding
	}
}
