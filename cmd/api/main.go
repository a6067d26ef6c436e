package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/banksync/internal/app"
	"github.com/MrJamesThe3rd/banksync/internal/config"
	banksyncHttp "github.com/MrJamesThe3rd/banksync/internal/http"
	journalHandler "github.com/MrJamesThe3rd/banksync/internal/http/journal"
	originHandler "github.com/MrJamesThe3rd/banksync/internal/http/origin"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	services, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer services.Close()

	var (
		originsH  = originHandler.NewHandler(services.Statements, services.Matching)
		journalsH = journalHandler.NewHandler(services.Ledger, services.Sync)
	)

	router := banksyncHttp.New(cfg.Server.AllowedOrigins, originsH, journalsH)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "port", server.Addr)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
