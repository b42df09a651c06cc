package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// tokenPaths 登录响应里令牌的候选位置，按顺序取第一个非空字符串
// tokenPaths are the token locations in a login response; the first non-empty string wins
var tokenPaths = [][]string{
	{"data", "token"},
	{"token"},
	{"AccessToken"},
}

// ExtractToken 依次从 data.token、token、AccessToken 中取令牌
// ExtractToken returns the first token found at data.token, token, then AccessToken
func ExtractToken(resp any) string {
	for _, path := range tokenPaths {
		if s, ok := lookup(resp, path...).(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// ExtractList 取第一个"有值"字段下的数组；非数组或全部缺失时返回空列表
// ExtractList returns the array under the first truthy key; non-arrays or missing keys yield an empty list
func ExtractList(resp any, keys ...string) []map[string]any {
	for _, key := range keys {
		v := lookup(resp, key)
		if !truthy(v) {
			continue
		}
		arr, ok := v.([]any)
		if !ok {
			return []map[string]any{}
		}
		out := make([]map[string]any, 0, len(arr))
		for _, item := range arr {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return []map[string]any{}
}

// ExtractData 响应中 data 存在且非 null 时返回 data，否则返回整个响应
// ExtractData returns data when present and non-null, otherwise the whole response
func ExtractData(resp any) any {
	if m, ok := resp.(map[string]any); ok {
		if v, ok := m["data"]; ok && v != nil {
			return v
		}
	}
	return resp
}

// firstTruthy 按顺序返回第一个"有值"字段的字符串形式
// firstTruthy returns the first truthy field, stringified
func firstTruthy(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := item[k]; truthy(v) {
			return Stringify(v)
		}
	}
	return ""
}

// firstPresent 按顺序返回第一个非 null 字段；0 也算存在
// firstPresent returns the first non-null field; zero counts as present
func firstPresent(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := item[k]; ok && v != nil {
			return Stringify(v)
		}
	}
	return ""
}

func lookup(v any, path ...string) any {
	cur := v
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}

// Stringify 把 JSON 标量转成展示用字符串
// Stringify renders a JSON scalar for display
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, Stringify(item))
		}
		return strings.Join(parts, ",")
	case map[string]any:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	default:
		return fmt.Sprint(t)
	}
}

func int64Field(item map[string]any, key string) int64 {
	switch t := item[key].(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return int64(f)
		}
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n
	}
	return 0
}
