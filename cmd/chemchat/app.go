package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"chemchat/internal/config"
	"chemchat/internal/events"
	"chemchat/internal/export"
	"chemchat/internal/llm"
	"chemchat/internal/params"
	"chemchat/internal/session"
	"chemchat/internal/status"
	"chemchat/internal/storage"
	"chemchat/internal/transcript"
)

// app is the wired session core shared by every command.
type app struct {
	cfg        *config.Config
	client     *llm.Client
	log        *transcript.Log
	params     *params.Store
	monitor    *status.Monitor
	controller *session.Controller
	db         *sql.DB
}

// declineClear refuses every clear; headless commands never clear history.
var declineClear = transcript.ConfirmFunc(func(context.Context, string) (bool, error) {
	return false, nil
})

// newApp wires the core. publisher receives session events; confirmer gates clears.
func newApp(cfg *config.Config, publisher events.Publisher, confirmer transcript.Confirmer) (*app, error) {
	a := &app{cfg: cfg}

	sink, err := a.exportSink()
	if err != nil {
		return nil, err
	}

	a.client = llm.NewClient(cfg.ChemLLMBaseURL, cfg.RequestTimeout)
	a.log = transcript.NewLog(cfg.ModelID, publisher)
	a.params = params.NewStore(params.Snapshot{
		MaxLength:   cfg.DefaultMaxLength,
		Temperature: cfg.DefaultTemperature,
		TopP:        cfg.DefaultTopP,
	})
	a.monitor = status.NewMonitor(a.client, publisher, cfg.StatusTimeout)
	a.controller = session.NewController(session.Deps{
		Log:            a.log,
		Params:         a.params,
		Status:         a.monitor,
		Generator:      a.client,
		Sink:           sink,
		Confirmer:      confirmer,
		Publisher:      publisher,
		RequestTimeout: cfg.RequestTimeout,
	})
	slog.Debug("Session wired", "base_url", cfg.ChemLLMBaseURL, "export_target", cfg.ExportTarget)
	return a, nil
}

func (a *app) exportSink() (session.ExportSink, error) {
	if a.cfg.ExportTarget != config.ExportTargetSQLite {
		return export.NewFileSink(a.cfg.ExportDir, a.cfg.ExportHTML), nil
	}
	repo, err := a.exportRepo()
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// exportRepo opens the export archive, creating it on first use.
func (a *app) exportRepo() (*storage.ExportRepo, error) {
	if a.db == nil {
		db, err := storage.New(a.cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := storage.Migrate(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		slog.Info("Database initialized", "path", a.cfg.DBPath)
		a.db = db
	}
	return storage.NewExportRepo(a.db), nil
}

func (a *app) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// setupLogging sends structured logs to the configured log file so the terminal
// stays free for the UI. It returns the file for the caller to close.
func setupLogging(cfg *config.Config) (*os.File, error) {
	f, err := cfg.OpenLogFile()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(cfg.NewLogger(f))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat, "file", cfg.LogFile)
	return f, nil
}
