// File path: cmd/bellybutton/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nicodishanthj/bellybutton/internal/api"
	"github.com/nicodishanthj/bellybutton/internal/common"
	"github.com/nicodishanthj/bellybutton/internal/samples"
	"github.com/nicodishanthj/bellybutton/internal/sqlite"
)

func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("bellybutton: .env file not loaded", "error", err)
	} else {
		logger.Info("bellybutton: environment loaded from .env")
	}

	defaults := api.DefaultConfig()
	addr := flag.String("addr", envOr("BELLYBUTTON_ADDR", ":5000"), "listen address")
	dbPath := flag.String("db", "", "path to the biodiversity SQLite database (overrides SQLITE_PATH)")
	templateDir := flag.String("templates", defaults.TemplateDir, "directory holding index.html")
	staticDir := flag.String("static", defaults.StaticDir, "directory served under /static/")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.Open(*dbPath)
	if err != nil {
		logger.Error("bellybutton: dataset unavailable", "error", err)
		fmt.Println("database error:", err)
		os.Exit(1)
	}
	defer store.Close()

	svc, err := samples.NewService(store)
	if err != nil {
		logger.Error("bellybutton: service construction failed", "error", err)
		os.Exit(1)
	}

	server, err := api.NewServer(svc, store, &api.Config{TemplateDir: *templateDir, StaticDir: *staticDir})
	if err != nil {
		logger.Error("bellybutton: server construction failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("bellybutton: shutdown incomplete", "error", err)
		}
	}()

	reachable := *addr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	logger.Info("bellybutton: server listening", "addr", *addr, "names", fmt.Sprintf("http://%s/names", reachable))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("bellybutton: server stopped", "error", err)
		fmt.Println("server stopped:", err)
		os.Exit(1)
	}
	logger.Info("bellybutton: server stopped")
}

func envOr(name, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value
	}
	return fallback
}
