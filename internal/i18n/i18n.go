package i18n

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// catalogs 已支持的语言；缺失的键回退到英文
// catalogs lists supported locales; missing keys fall back to English
var catalogs = map[string]map[string]string{
	"en":    EnMessages,
	"zh-CN": ZhCNMessages,
}

// I18n 控制台文案
// I18n holds the console message catalog for one locale
type I18n struct {
	locale   string
	messages map[string]string
	mu       sync.RWMutex
}

var (
	global     *I18n
	globalMu   sync.Mutex
	globalOnce sync.Once
)

// Global 返回全局实例，首次调用时按环境变量检测语言
// Global returns the global instance, detecting the locale from the environment on first use
func Global() *I18n {
	globalOnce.Do(func() {
		globalMu.Lock()
		if global == nil {
			global = New("")
		}
		globalMu.Unlock()
	})
	globalMu.Lock()
	defer globalMu.Unlock()
	return global
}

// Init 用配置中的语言替换全局实例
// Init replaces the global instance with the configured locale
func Init(locale string) {
	globalOnce.Do(func() {})
	globalMu.Lock()
	global = New(locale)
	globalMu.Unlock()
}

func T(key string, args ...any) string {
	return Global().T(key, args...)
}

func New(locale string) *I18n {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DetectLocale()
	}
	locale = normalizeLocale(locale)

	i := &I18n{
		locale:   locale,
		messages: make(map[string]string, len(EnMessages)),
	}
	for k, v := range EnMessages {
		i.messages[k] = v
	}
	if overlay, ok := catalogs[locale]; ok && locale != "en" {
		for k, v := range overlay {
			i.messages[k] = v
		}
	}
	return i
}

// T 未知键原样返回
// T returns unknown keys unchanged
func (i *I18n) T(key string, args ...any) string {
	i.mu.RLock()
	tmpl, ok := i.messages[key]
	i.mu.RUnlock()

	if !ok {
		return key
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

func (i *I18n) Locale() string {
	return i.locale
}

// Supported 返回已内置的语言列表
// Supported lists the built-in locales
func Supported() []string {
	out := make([]string, 0, len(catalogs))
	for k := range catalogs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DetectLocale 依次读取 APICONSOLE_LANG、LANG、LC_ALL、LC_MESSAGES
// DetectLocale reads APICONSOLE_LANG, LANG, LC_ALL, LC_MESSAGES in order
func DetectLocale() string {
	for _, env := range []string{"APICONSOLE_LANG", "LANG", "LC_ALL", "LC_MESSAGES"} {
		v := strings.TrimSpace(os.Getenv(env))
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		return normalizeLocale(v)
	}
	return "en"
}

func normalizeLocale(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "en"
	}
	// 去掉 .UTF-8 等后缀 / Remove .UTF-8 suffix
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		s = s[:idx]
	}
	s = strings.ReplaceAll(s, "_", "-")
	lower := strings.ToLower(s)

	if strings.HasPrefix(lower, "zh") {
		return "zh-CN"
	}
	if strings.HasPrefix(lower, "en") {
		return "en"
	}
	return s
}
