package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"apiconsole/internal/client"
	"apiconsole/internal/config"
	"apiconsole/internal/console"
	"apiconsole/internal/i18n"
	"apiconsole/internal/logging"
	"apiconsole/internal/render"
	"apiconsole/internal/repl"
	"apiconsole/internal/session"
	"apiconsole/internal/storage"
	"apiconsole/internal/transcript"
	"apiconsole/internal/tui"
)

func main() {
	var (
		configPath string
		baseURL    string
		useTUI     bool
		importPath string
	)
	flag.StringVar(&configPath, "config", "", "Path to config JSON/JSONC")
	flag.StringVar(&baseURL, "base", "", "Backend base URL (saved for later runs)")
	flag.BoolVar(&useTUI, "tui", false, "Start the full-screen interface")
	flag.StringVar(&importPath, "import-state", "", "Import baseURL/token from a browser localStorage JSON dump")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	i18n.Init(cfg.UI.Locale)

	logger, logCloser, err := logging.Open(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log failed: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	store, err := storage.NewSQLiteStore(cfg.DBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "init storage failed: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if strings.TrimSpace(importPath) != "" {
		n, err := storage.ImportBrowserState(importPath, store)
		if err != nil {
			fmt.Fprintf(os.Stderr, "import state failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "imported %d keys from %s\n", n, importPath)
	}

	sess, err := session.Load(store, cfg.Server.BaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load session failed: %v\n", err)
		os.Exit(1)
	}
	api := client.New(sess, client.Options{TimeoutMS: cfg.Server.TimeoutMS, Logger: logger})
	if strings.TrimSpace(baseURL) != "" {
		if err := api.ConfigureBaseURL(baseURL); err != nil {
			fmt.Fprintf(os.Stderr, "set base url failed: %v\n", err)
			os.Exit(1)
		}
	}

	recorder := transcript.NewRecorder(store, transcript.SharedTokenizer(cfg.Storage.TokenEncoding), cfg.Storage.HistoryLimit)
	stdoutTTY := term.IsTerminal(int(os.Stdout.Fd()))
	theme := render.ThemeFor(cfg.UI.Color && stdoutTTY)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := console.Options{
		Client:   api,
		Recorder: recorder,
		Logger:   logger,
		Theme:    theme,
		Markdown: cfg.UI.Markdown,
		WSURL:    cfg.Server.WSURL,
		Width:    terminalWidth(stdoutTTY),
	}

	mode := resolveMode(cfg.UI.Mode, useTUI, stdoutTTY)
	logger.Info("apiconsole start", "mode", mode, "base", sess.BaseURL(), "db", store.Path())
	if mode == "tui" {
		bridge := tui.NewBridge()
		opts.Output = bridge
		con := console.New(opts)
		defer con.Close()
		if err := tui.Run(ctx, con, bridge, theme); err != nil {
			fmt.Fprintf(os.Stderr, "tui exited: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var con *console.Console
	terminal, err := repl.New(repl.Options{
		HistoryPath: cfg.HistoryPath(),
		Theme:       theme,
		Prompt: func() string {
			return replPrompt(con.State())
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init terminal failed: %v\n", err)
		os.Exit(1)
	}
	opts.Output = terminal
	con = console.New(opts)
	defer con.Close()

	terminal.Print(i18n.T("base.current", sess.BaseURL()))
	terminal.Print(theme.MutedStyle.Render("/help"))
	if err := terminal.Run(ctx, con); err != nil {
		fmt.Fprintf(os.Stderr, "repl exited: %v\n", err)
		os.Exit(1)
	}
}

// resolveMode -tui 优先；stdout 不是终端时只能用行式界面
// resolveMode prefers -tui; without a terminal on stdout only the line interface works
func resolveMode(configured string, flagTUI bool, tty bool) string {
	if !tty {
		return "repl"
	}
	if flagTUI || strings.EqualFold(strings.TrimSpace(configured), "tui") {
		return "tui"
	}
	return "repl"
}

func replPrompt(st console.State) string {
	var b strings.Builder
	b.WriteString("apiconsole")
	if st.LoggedIn {
		b.WriteString("*")
	}
	if st.SocketOpen {
		b.WriteString("~")
	}
	b.WriteString("> ")
	return b.String()
}

func terminalWidth(tty bool) int {
	if !tty {
		return 80
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
