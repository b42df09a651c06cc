package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ImportBrowserState 导入浏览器版客户端导出的 localStorage JSON（baseURL / token）
// ImportBrowserState imports a localStorage JSON dump from the browser client (baseURL / token)
func ImportBrowserState(path string, store Store) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read state file: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("parse state file: %w", err)
	}

	imported := 0
	for _, key := range []string{KeyBaseURL, KeyToken} {
		v, ok := raw[key].(string)
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		// 空 baseURL 在浏览器中等价于未设置 / An empty baseURL meant "unset" in the browser
		if v == "" && key == KeyBaseURL {
			continue
		}
		if err := store.Set(key, v); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
