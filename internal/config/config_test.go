package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("APICONSOLE_CONFIG_PATH", "")
	t.Setenv("APICONSOLE_BASE_URL", "")
	t.Setenv("APICONSOLE_WS_URL", "")
	t.Setenv("APICONSOLE_TIMEOUT_MS", "")
	t.Setenv("APICONSOLE_HOME", "")
	t.Setenv("APICONSOLE_LANG", "")
	t.Setenv("APICONSOLE_LOG_LEVEL", "")
	work = t.TempDir()
	oldwd, _ := os.Getwd()
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
	return home, work
}

func TestLoadDefaults(t *testing.T) {
	home, _ := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.BaseURL != "http://127.0.0.1:8888" {
		t.Fatalf("base_url=%q", cfg.Server.BaseURL)
	}
	if cfg.Server.WSURL != "ws://127.0.0.1:9000/ws" {
		t.Fatalf("ws_url=%q", cfg.Server.WSURL)
	}
	if cfg.Server.TimeoutMS != 0 {
		t.Fatalf("timeout_ms=%d, want 0", cfg.Server.TimeoutMS)
	}
	if cfg.UI.Mode != "repl" {
		t.Fatalf("ui.mode=%q", cfg.UI.Mode)
	}
	wantDir := filepath.Join(home, ".apiconsole")
	if cfg.Storage.BaseDir != wantDir {
		t.Fatalf("storage.base_dir=%q, want %q", cfg.Storage.BaseDir, wantDir)
	}
	if cfg.DBPath() != filepath.Join(wantDir, "state.db") {
		t.Fatalf("db path=%q", cfg.DBPath())
	}
	if !strings.HasSuffix(cfg.Log.File, filepath.Join("logs", "apiconsole.log")) {
		t.Fatalf("log.file=%q", cfg.Log.File)
	}
}

func TestLoadJSONCAndPrecedence(t *testing.T) {
	home, _ := isolate(t)

	globalDir := filepath.Join(home, ".apiconsole")
	if err := os.MkdirAll(globalDir, 0o755); err != nil {
		t.Fatal(err)
	}
	globalCfg := `{
  // global
  "server": {"base_url": "http://global:8888", "timeout_ms": 3000},
  "ui": {"markdown": false}
}`
	if err := os.WriteFile(filepath.Join(globalDir, "config.json"), []byte(globalCfg), 0o644); err != nil {
		t.Fatal(err)
	}
	projectCfg := `{
  /* project overrides */
  "server": {"base_url": "http://project:8888"},
  "ui": {"mode": "TUI", "markdown": true}
}`
	if err := os.WriteFile("apiconsole.config.json", []byte(projectCfg), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.BaseURL != "http://project:8888" {
		t.Fatalf("base_url=%q", cfg.Server.BaseURL)
	}
	if cfg.Server.TimeoutMS != 3000 {
		t.Fatalf("timeout_ms=%d", cfg.Server.TimeoutMS)
	}
	if cfg.UI.Mode != "tui" {
		t.Fatalf("ui.mode=%q", cfg.UI.Mode)
	}
	if !cfg.UI.Markdown {
		t.Fatalf("ui.markdown expected true")
	}
}

func TestEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("APICONSOLE_BASE_URL", "http://env:1234")
	t.Setenv("APICONSOLE_TIMEOUT_MS", "1500")
	t.Setenv("APICONSOLE_LANG", "zh_CN.UTF-8")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.BaseURL != "http://env:1234" {
		t.Fatalf("base_url=%q", cfg.Server.BaseURL)
	}
	if cfg.Server.TimeoutMS != 1500 {
		t.Fatalf("timeout_ms=%d", cfg.Server.TimeoutMS)
	}
	if cfg.UI.Locale != "zh_CN.UTF-8" {
		t.Fatalf("ui.locale=%q", cfg.UI.Locale)
	}
}

func TestEnvInvalidTimeout(t *testing.T) {
	isolate(t)
	t.Setenv("APICONSOLE_TIMEOUT_MS", "soon")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for invalid timeout")
	}
}

func TestHomeOverrideMovesLogFile(t *testing.T) {
	isolate(t)
	custom := t.TempDir()
	t.Setenv("APICONSOLE_HOME", custom)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.BaseDir != custom {
		t.Fatalf("storage.base_dir=%q, want %q", cfg.Storage.BaseDir, custom)
	}
	if cfg.Log.File != filepath.Join(custom, "logs", "apiconsole.log") {
		t.Fatalf("log.file=%q", cfg.Log.File)
	}
}

func TestStubUsersReplaced(t *testing.T) {
	isolate(t)
	if err := os.WriteFile("apiconsole.config.json", []byte(`{"stub":{"users":{"alice":"pw"}}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Stub.Users) != 1 || cfg.Stub.Users["alice"] != "pw" {
		t.Fatalf("unexpected users: %#v", cfg.Stub.Users)
	}
}

func TestStripJSONCommentsKeepsStrings(t *testing.T) {
	in := []byte(`{"url": "http://a//b", /* c */ "x": 1} // tail`)
	got := string(stripJSONComments(in))
	if !strings.Contains(got, `"http://a//b"`) {
		t.Fatalf("string content damaged: %q", got)
	}
	if strings.Contains(got, "tail") || strings.Contains(got, "/*") {
		t.Fatalf("comments not stripped: %q", got)
	}
}
