package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/matseq/internal/config"
	"github.com/meltforce/matseq/internal/engine"
	"github.com/meltforce/matseq/internal/mcp"
	"github.com/meltforce/matseq/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	remoteURL := flag.String("remote", "", "base URL of a running matseq server; when set, tools call its REST API instead of Postgres")
	apiKey := flag.String("api-key", os.Getenv("MATSEQ_AUTH_API_KEY"), "API key for remote mode")
	userID := flag.Int("user", 1, "user ID usage history is scoped to")
	flag.Parse()

	// Logs go to stderr; stdout carries the MCP stdio protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource

	if *remoteURL != "" {
		ds = mcp.NewHTTPClient(*remoteURL, *apiKey)
		log.Info("matseq-mcp starting", "version", Version, "mode", "remote", "url", *remoteURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		ds = engine.New(db, db, db, engine.ParamsFromConfig(cfg.Generator), log)
		log.Info("matseq-mcp starting", "version", Version, "mode", "local")
	}

	s := mcp.New(ds, Version, log)

	uid := *userID
	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return mcp.WithUserID(ctx, uid)
	}))
	if err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
