package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"apiconsole/internal/config"
	"apiconsole/internal/logging"
	"apiconsole/internal/stub"
)

func main() {
	var (
		configPath string
		addr       string
		wsAddr     string
	)
	flag.StringVar(&configPath, "config", "", "Path to config JSON/JSONC")
	flag.StringVar(&addr, "addr", "", "HTTP listen address override")
	flag.StringVar(&wsAddr, "ws-addr", "", "WebSocket listen address override")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	if v := strings.TrimSpace(addr); v != "" {
		cfg.Stub.Addr = v
	}
	if v := strings.TrimSpace(wsAddr); v != "" {
		cfg.Stub.WSAddr = v
	}

	// 桩服务没有终端界面，日志直接写 stderr
	logger := logging.New(cfg.Log.Level, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := stub.New(cfg.Stub, stub.Options{Logger: logger})
	for _, u := range srv.Users() {
		logger.Info("demo user", "name", u.Name, "id", u.ID)
	}
	if err := srv.Run(ctx); err != nil {
		logger.Error("stub server stopped", "err", err)
		os.Exit(1)
	}
}
