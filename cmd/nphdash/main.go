package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/nhle/nphdash/internal/app"
	"github.com/nhle/nphdash/internal/credential"
	"github.com/nhle/nphdash/internal/format"
	"github.com/nhle/nphdash/internal/gateway"
	"github.com/nhle/nphdash/internal/model"
	"github.com/nhle/nphdash/internal/store"
	"github.com/nhle/nphdash/internal/theme"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "nphdash:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", model.DefaultConfigPath(), "configuration file")
		initConfig = flag.Bool("init-config", false, "write the effective configuration and exit")
		setToken   = flag.Bool("set-token", false, "read an API token from stdin and store it in the keyring")
		clearToken = flag.Bool("clear-token", false, "remove the stored API token")
	)
	flag.Parse()

	// A .env file is optional.
	_ = godotenv.Load()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	switch {
	case *initConfig:
		if err := model.SaveConfig(*configPath, cfg); err != nil {
			return err
		}
		fmt.Println("wrote", *configPath)
		return nil
	case *setToken:
		return storeToken()
	case *clearToken:
		return credential.Delete(credential.APITokenKey)
	}

	if err := theme.Apply(cfg.Display.Theme); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	logFile, err := tea.LogToFile(cfg.Log.File, "nphdash")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	logger := mustMakeLogger(cfg.Log.Level, logFile)

	token, err := credential.APIToken()
	if err != nil {
		logger.Warn("reading api token", "error", err)
	}
	client := gateway.NewClient(cfg.API.BaseURL, token)

	dates, err := format.NewDateFormatter(cfg.Display.Locale, cfg.Display.EmptyDate)
	if err != nil {
		return err
	}

	deps := app.Deps{
		Sections: gateway.NewSections(client),
		Metas:    gateway.NewMetas(client),
		Dates:    dates,
		Logger:   logger,
		Location: cfg.Location(),
		BaseURL:  client.BaseURL(),
	}

	if journal := openJournal(cfg.Store, logger); journal != nil {
		defer journal.Close()
		deps.Journal = journal
	}

	logger.Info("starting", "base_url", client.BaseURL(), "locale", dates.Locale())

	if _, err := tea.NewProgram(app.New(deps), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// openJournal opens the activity store and applies retention. The
// dashboard works without it, so failures are only logged.
func openJournal(cfg model.StoreConfig, logger *slog.Logger) *store.SQLiteStore {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		logger.Error("creating store directory", "error", err)
		return nil
	}
	s, err := store.NewSQLiteStore(cfg.Path)
	if err != nil {
		logger.Error("opening activity journal", "path", cfg.Path, "error", err)
		return nil
	}

	if cfg.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -cfg.RetentionDays)
		n, err := s.PurgeActivityBefore(context.Background(), cutoff)
		if err != nil {
			logger.Warn("purging activity", "error", err)
		} else if n > 0 {
			logger.Info("purged activity", "rows", n, "before", cutoff.Format(time.DateOnly))
		}
	}
	return s
}

func storeToken() error {
	fmt.Fprint(os.Stderr, "API token: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("reading token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return fmt.Errorf("empty token")
	}
	return credential.Set(credential.APITokenKey, token)
}

func mustMakeLogger(levelStr string, f *os.File) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
}
