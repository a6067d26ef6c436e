// Package app wires the stores and services shared by the API and the TUI.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/MrJamesThe3rd/banksync/internal/banksync"
	"github.com/MrJamesThe3rd/banksync/internal/banksync/enablebanking"
	"github.com/MrJamesThe3rd/banksync/internal/config"
	"github.com/MrJamesThe3rd/banksync/internal/database"
	"github.com/MrJamesThe3rd/banksync/internal/ledger"
	"github.com/MrJamesThe3rd/banksync/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/banksync/internal/matching/store"
	"github.com/MrJamesThe3rd/banksync/internal/statement"
	statementStore "github.com/MrJamesThe3rd/banksync/internal/statement/store"
)

type Services struct {
	db *sql.DB

	Ledger     *ledger.Store
	Statements *statement.Service
	Matching   *matching.Service
	Sync       *banksync.Service
}

func New(cfg *config.Config) (*Services, error) {
	setupLogging(cfg.App.LogLevel)

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	overrides, err := config.LoadJournals(cfg.Matching.JournalsFile)
	if err != nil {
		db.Close()
		return nil, err
	}

	settings := make(map[string]ledger.Settings, len(overrides))
	for name, o := range overrides {
		settings[name] = ledger.Settings{
			SimilarityThreshold:  o.SimilarityThreshold,
			AcceptableSimilarity: o.AcceptableSimilarity,
		}
	}

	client, err := aggregator(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	var (
		ledgerStore = ledger.New(db).WithSettings(settings)
		repo        = statementStore.New(db)
		candidates  = matchingStore.New(db)
	)

	statements := statement.NewService(repo, ledgerStore, ledgerStore)
	engine := matching.NewService(repo, candidates, ledgerStore, cfg.Matching.DateWindowDays).WithClearing(candidates)

	syncer := banksync.NewService(client, ledgerStore, statements, engine, banksync.Config{
		DateField:  banksync.DateField(cfg.Sync.DateField),
		OffsetDays: cfg.Sync.OffsetDays,
	})

	return &Services{
		db:         db,
		Ledger:     ledgerStore,
		Statements: statements,
		Matching:   engine,
		Sync:       syncer,
	}, nil
}

func (s *Services) Close() error {
	return s.db.Close()
}

func aggregator(cfg *config.Config) (*enablebanking.Client, error) {
	ebCfg := enablebanking.Config{
		BaseURL:       cfg.Sync.BaseURL,
		ApplicationID: cfg.Sync.ApplicationID,
	}

	if cfg.Sync.PrivateKeyPath == "" {
		slog.Warn("aggregator private key not configured, synchronization disabled")
		return enablebanking.New(ebCfg), nil
	}

	key, err := enablebanking.LoadPrivateKey(cfg.Sync.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("loading aggregator key: %w", err)
	}

	ebCfg.PrivateKey = key

	return enablebanking.New(ebCfg), nil
}

func setupLogging(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		l = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}
