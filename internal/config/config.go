package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type ServerConfig struct {
	BaseURL string `json:"base_url"`
	WSURL   string `json:"ws_url"`
	// TimeoutMS 为 0 时请求不设超时。
	// TimeoutMS of 0 leaves requests without a timeout.
	TimeoutMS int `json:"timeout_ms"`
}

type UIConfig struct {
	// Mode 取值 repl / tui。
	// Mode is either "repl" or "tui".
	Mode     string `json:"mode"`
	Locale   string `json:"locale"`
	Markdown bool   `json:"markdown"`
	Color    bool   `json:"color"`
}

type StorageConfig struct {
	BaseDir       string `json:"base_dir"`
	HistoryLimit  int    `json:"history_limit"`
	TokenEncoding string `json:"token_encoding"`
}

type LogConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type StubConfig struct {
	Addr          string            `json:"addr"`
	WSAddr        string            `json:"ws_addr"`
	JWTSecret     string            `json:"jwt_secret"`
	JWTExpireSec  int64             `json:"jwt_expire_sec"`
	Users         map[string]string `json:"users"`
	OpenAIBaseURL string            `json:"openai_base_url"`
	OpenAIAPIKey  string            `json:"openai_api_key"`
	OpenAIModel   string            `json:"openai_model"`
}

type Config struct {
	Server  ServerConfig  `json:"server"`
	UI      UIConfig      `json:"ui"`
	Storage StorageConfig `json:"storage"`
	Log     LogConfig     `json:"log"`
	Stub    StubConfig    `json:"stub"`
}

type fileUIConfig struct {
	Mode     *string `json:"mode"`
	Locale   *string `json:"locale"`
	Markdown *bool   `json:"markdown"`
	Color    *bool   `json:"color"`
}

type fileConfig struct {
	Server  *ServerConfig  `json:"server"`
	UI      *fileUIConfig  `json:"ui"`
	Storage *StorageConfig `json:"storage"`
	Log     *LogConfig     `json:"log"`
	Stub    *StubConfig    `json:"stub"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			BaseURL: DefaultBaseURL,
			WSURL:   DefaultWSURL,
		},
		UI: UIConfig{
			Mode:     "repl",
			Markdown: true,
			Color:    true,
		},
		Storage: StorageConfig{
			BaseDir:       "~/.apiconsole",
			HistoryLimit:  DefaultHistoryLimit,
			TokenEncoding: "cl100k_base",
		},
		Log: LogConfig{
			Level: "info",
		},
		Stub: StubConfig{
			Addr:         ":8888",
			WSAddr:       ":9000",
			JWTSecret:    "apiconsole-stub-secret",
			JWTExpireSec: 86400,
			Users: map[string]string{
				"admin": "123456",
				"user":  "123456",
			},
			OpenAIModel: "gpt-4o-mini",
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	for _, globalPath := range globalConfigPaths() {
		if err := mergeFromFile(&cfg, globalPath); err != nil {
			return Config{}, err
		}
	}

	resolvedPath := strings.TrimSpace(path)
	if envPath := strings.TrimSpace(os.Getenv("APICONSOLE_CONFIG_PATH")); envPath != "" {
		resolvedPath = envPath
	}
	if resolvedPath == "" {
		resolvedPath = findProjectConfigPath()
	}
	if err := mergeFromFile(&cfg, resolvedPath); err != nil {
		return Config{}, err
	}

	if err := normalize(&cfg); err != nil {
		return Config{}, err
	}
	return applyEnv(cfg)
}

func globalConfigPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".apiconsole", "config.json")}
}

func findProjectConfigPath() string {
	candidates := []string{
		"apiconsole.config.json",
		".apiconsole/config.json",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func mergeFromFile(cfg *Config, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", resolved, err)
	}

	cleaned := stripJSONComments(data)
	var fileCfg fileConfig
	if err := json.Unmarshal(cleaned, &fileCfg); err != nil {
		return fmt.Errorf("parse config %q: %w", resolved, err)
	}
	applyFileConfig(cfg, fileCfg)
	return nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if fc.Server != nil {
		cfg.Server = mergeServer(cfg.Server, *fc.Server)
	}
	if fc.UI != nil {
		if fc.UI.Mode != nil {
			cfg.UI.Mode = *fc.UI.Mode
		}
		if fc.UI.Locale != nil {
			cfg.UI.Locale = *fc.UI.Locale
		}
		if fc.UI.Markdown != nil {
			cfg.UI.Markdown = *fc.UI.Markdown
		}
		if fc.UI.Color != nil {
			cfg.UI.Color = *fc.UI.Color
		}
	}
	if fc.Storage != nil {
		cfg.Storage = mergeStorage(cfg.Storage, *fc.Storage)
	}
	if fc.Log != nil {
		if strings.TrimSpace(fc.Log.Level) != "" {
			cfg.Log.Level = fc.Log.Level
		}
		if strings.TrimSpace(fc.Log.File) != "" {
			cfg.Log.File = fc.Log.File
		}
	}
	if fc.Stub != nil {
		cfg.Stub = mergeStub(cfg.Stub, *fc.Stub)
	}
}

func mergeServer(base ServerConfig, override ServerConfig) ServerConfig {
	if strings.TrimSpace(override.BaseURL) != "" {
		base.BaseURL = override.BaseURL
	}
	if strings.TrimSpace(override.WSURL) != "" {
		base.WSURL = override.WSURL
	}
	if override.TimeoutMS > 0 {
		base.TimeoutMS = override.TimeoutMS
	}
	return base
}

func mergeStorage(base StorageConfig, override StorageConfig) StorageConfig {
	if strings.TrimSpace(override.BaseDir) != "" {
		base.BaseDir = override.BaseDir
	}
	if override.HistoryLimit > 0 {
		base.HistoryLimit = override.HistoryLimit
	}
	if strings.TrimSpace(override.TokenEncoding) != "" {
		base.TokenEncoding = override.TokenEncoding
	}
	return base
}

func mergeStub(base StubConfig, override StubConfig) StubConfig {
	if strings.TrimSpace(override.Addr) != "" {
		base.Addr = override.Addr
	}
	if strings.TrimSpace(override.WSAddr) != "" {
		base.WSAddr = override.WSAddr
	}
	if strings.TrimSpace(override.JWTSecret) != "" {
		base.JWTSecret = override.JWTSecret
	}
	if override.JWTExpireSec > 0 {
		base.JWTExpireSec = override.JWTExpireSec
	}
	if len(override.Users) > 0 {
		// 覆盖式赋值，按当前文件配置为准。
		base.Users = make(map[string]string, len(override.Users))
		for k, v := range override.Users {
			base.Users[k] = v
		}
	}
	if strings.TrimSpace(override.OpenAIBaseURL) != "" {
		base.OpenAIBaseURL = override.OpenAIBaseURL
	}
	if strings.TrimSpace(override.OpenAIAPIKey) != "" {
		base.OpenAIAPIKey = override.OpenAIAPIKey
	}
	if strings.TrimSpace(override.OpenAIModel) != "" {
		base.OpenAIModel = override.OpenAIModel
	}
	return base
}

func normalize(cfg *Config) error {
	cfg.Server.BaseURL = strings.TrimSpace(cfg.Server.BaseURL)
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = DefaultBaseURL
	}
	cfg.Server.WSURL = strings.TrimSpace(cfg.Server.WSURL)
	if cfg.Server.WSURL == "" {
		cfg.Server.WSURL = DefaultWSURL
	}
	if cfg.Server.TimeoutMS < 0 {
		cfg.Server.TimeoutMS = 0
	}

	switch strings.ToLower(strings.TrimSpace(cfg.UI.Mode)) {
	case "tui":
		cfg.UI.Mode = "tui"
	default:
		cfg.UI.Mode = "repl"
	}
	cfg.UI.Locale = strings.TrimSpace(cfg.UI.Locale)

	storageDir, err := expandPath(cfg.Storage.BaseDir)
	if err != nil {
		return err
	}
	if storageDir == "" {
		storageDir, err = expandPath(Default().Storage.BaseDir)
		if err != nil {
			return err
		}
	}
	cfg.Storage.BaseDir = storageDir
	if cfg.Storage.HistoryLimit <= 0 {
		cfg.Storage.HistoryLimit = DefaultHistoryLimit
	}
	if strings.TrimSpace(cfg.Storage.TokenEncoding) == "" {
		cfg.Storage.TokenEncoding = Default().Storage.TokenEncoding
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if strings.TrimSpace(cfg.Log.File) == "" {
		cfg.Log.File = filepath.Join(cfg.Storage.BaseDir, "logs", "apiconsole.log")
	} else {
		logFile, err := expandPath(cfg.Log.File)
		if err != nil {
			return err
		}
		cfg.Log.File = logFile
	}

	if len(cfg.Stub.Users) == 0 {
		cfg.Stub.Users = Default().Stub.Users
	}
	if cfg.Stub.JWTExpireSec <= 0 {
		cfg.Stub.JWTExpireSec = Default().Stub.JWTExpireSec
	}
	return nil
}

func applyEnv(cfg Config) (Config, error) {
	if v := strings.TrimSpace(os.Getenv("APICONSOLE_BASE_URL")); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("APICONSOLE_WS_URL")); v != "" {
		cfg.Server.WSURL = v
	}
	if v := strings.TrimSpace(os.Getenv("APICONSOLE_TIMEOUT_MS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid APICONSOLE_TIMEOUT_MS: %q", v)
		}
		cfg.Server.TimeoutMS = n
	}
	if v := strings.TrimSpace(os.Getenv("APICONSOLE_LANG")); v != "" {
		cfg.UI.Locale = v
	}
	if v := strings.TrimSpace(os.Getenv("APICONSOLE_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("APICONSOLE_HOME")); v != "" {
		cfg.Storage.BaseDir = v
		cfg.Log.File = ""
	}
	if v := strings.TrimSpace(os.Getenv("APICONSOLE_OPENAI_API_KEY")); v != "" {
		cfg.Stub.OpenAIAPIKey = v
	}

	return cfg, normalize(&cfg)
}

// DBPath 返回状态数据库文件路径
// DBPath returns the state database file path
func (c Config) DBPath() string {
	return filepath.Join(c.Storage.BaseDir, "state.db")
}

// HistoryPath 返回 readline 历史文件路径
// HistoryPath returns the readline history file path
func (c Config) HistoryPath() string {
	return filepath.Join(c.Storage.BaseDir, "repl.history")
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return filepath.Abs(path)
}

func stripJSONComments(data []byte) []byte {
	const (
		stateNormal = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	state := stateNormal
	escaped := false
	out := bytes.Buffer{}

	for i := 0; i < len(data); i++ {
		c := data[i]
		next := byte(0)
		if i+1 < len(data) {
			next = data[i+1]
		}

		switch state {
		case stateNormal:
			if c == '"' {
				state = stateString
				out.WriteByte(c)
				continue
			}
			if c == '/' && next == '/' {
				state = stateLineComment
				i++
				continue
			}
			if c == '/' && next == '*' {
				state = stateBlockComment
				i++
				continue
			}
			out.WriteByte(c)
		case stateString:
			out.WriteByte(c)
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if c == '"' {
				state = stateNormal
			}
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
				out.WriteByte(c)
			}
		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateNormal
				i++
			}
		}
	}

	return out.Bytes()
}
