// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jeranaias/advisor-tui/internal/config"
	"github.com/jeranaias/advisor-tui/internal/gateway"
	"github.com/jeranaias/advisor-tui/internal/logging"
	"github.com/jeranaias/advisor-tui/internal/store"
	"github.com/jeranaias/advisor-tui/internal/ui"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Run is the program entry point. It returns the process exit code.
func Run(args []string) int {
	fs := flag.NewFlagSet("advisor", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "path to the config file")
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: advisor [flags] [login|version]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n  login\tsign in from the terminal without starting the TUI\n  version\tprint version and exit\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion || fs.Arg(0) == "version" {
		fmt.Println("advisor " + Version)
		return 0
	}

	env, err := bootstrap(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "advisor:", err)
		return 1
	}
	defer env.closeLog()

	if fs.Arg(0) == "login" {
		return runLogin(env)
	}
	return runTUI(env)
}

// env holds everything built during startup.
type env struct {
	cfg      *config.Config
	cfgPath  string
	logger   *log.Logger
	closeLog func()

	settings *store.SettingsStore
	auth     *store.AuthStore
	convs    *store.ConversationStore
	client   *gateway.Client

	downloadDir string
}

func bootstrap(configPath string) (*env, error) {
	if err := config.EnsureConfigDir(); err != nil {
		return nil, err
	}

	var cfg *config.Config
	var err error
	if configPath == "" {
		if configPath, err = config.ConfigPath(); err != nil {
			return nil, err
		}
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFromPath(configPath)
	}
	if err != nil {
		return nil, err
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := logging.Setup(logPath, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	stateDir, err := config.StateDir()
	if err != nil {
		closeLog()
		return nil, err
	}

	settings, err := store.NewSettingsStore(stateDir, logger)
	if err != nil {
		closeLog()
		return nil, err
	}
	// The config file is authoritative at startup; the settings store
	// mirrors it for live toggling.
	settings.SetLanguage(cfg.UI.Language)
	settings.SetTheme(cfg.UI.Theme)

	client := gateway.NewClient(cfg.API.BaseURL, settings.Language).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second).
		WithMaxRetries(cfg.API.MaxRetries)

	auth, err := store.NewAuthStore(client, stateDir, logger)
	if err != nil {
		closeLog()
		return nil, err
	}
	convs, err := store.NewConversationStore(client, auth.Session, stateDir, logger)
	if err != nil {
		closeLog()
		return nil, err
	}

	downloadDir := filepath.Join(stateDir, "downloads")
	if home, err := os.UserHomeDir(); err == nil {
		downloadDir = filepath.Join(home, "Downloads")
	}

	return &env{
		cfg:         cfg,
		cfgPath:     configPath,
		logger:      logger,
		closeLog:    closeLog,
		settings:    settings,
		auth:        auth,
		convs:       convs,
		client:      client,
		downloadDir: downloadDir,
	}, nil
}

func runTUI(e *env) int {
	app := ui.New(ui.Deps{
		Config:      e.cfg,
		Logger:      e.logger,
		Settings:    e.settings,
		Auth:        e.auth,
		Convs:       e.convs,
		Client:      e.client,
		ConfigPath:  e.cfgPath,
		DownloadDir: e.downloadDir,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())

	watcher, err := config.NewWatcher(e.cfgPath,
		func(cfg *config.Config) { p.Send(ui.ConfigReloadedMsg{Config: cfg}) },
		func(err error) { e.logger.Warn("config watch error", "error", err) },
	)
	if err != nil {
		e.logger.Warn("config watcher unavailable", "error", err)
	} else {
		if err := watcher.Watch(); err != nil {
			e.logger.Warn("config watch failed to start", "error", err)
		}
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		e.logger.Error("program exited with error", "error", err)
		fmt.Fprintln(os.Stderr, "advisor:", err)
		return 1
	}
	return 0
}
