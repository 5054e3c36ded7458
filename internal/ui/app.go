// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui wires the screens into the application: routing, shared
// theme, and the background auth check and conversation sync.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jeranaias/advisor-tui/internal/config"
	"github.com/jeranaias/advisor-tui/internal/gateway"
	"github.com/jeranaias/advisor-tui/internal/i18n"
	"github.com/jeranaias/advisor-tui/internal/store"
	"github.com/jeranaias/advisor-tui/internal/ui/chat"
	"github.com/jeranaias/advisor-tui/internal/ui/convlist"
	"github.com/jeranaias/advisor-tui/internal/ui/landing"
	"github.com/jeranaias/advisor-tui/internal/ui/login"
	"github.com/jeranaias/advisor-tui/internal/ui/settings"
	"github.com/jeranaias/advisor-tui/internal/ui/styles"
)

type page int

const (
	pageLanding page = iota
	pageChat
	pageList
	pageLogin
	pageSettings
)

// ConfigReloadedMsg is sent by the file watcher when the config file
// changes on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

type authCheckedMsg struct {
	ok bool
}

type syncedMsg struct {
	err error
}

// Deps bundles everything the app is built from.
type Deps struct {
	Config   *config.Config
	Logger   *log.Logger
	Settings *store.SettingsStore
	Auth     *store.AuthStore
	Convs    *store.ConversationStore
	Client   *gateway.Client

	// ConfigPath is where settings changes are written back so they
	// survive a restart.
	ConfigPath  string
	DownloadDir string
}

// App is the root Bubble Tea model.
type App struct {
	cfg     *config.Config
	cfgPath string
	log     *log.Logger

	settings *store.SettingsStore
	auth     *store.AuthStore
	convs    *store.ConversationStore
	client   *gateway.Client

	theme *styles.Theme
	tr    func(string) string

	page page

	landing      landing.Model
	chat         chat.Model
	list         convlist.Model
	login        login.Model
	settingsView settings.Model

	width  int
	height int
}

// New builds the application.
func New(deps Deps) *App {
	a := &App{
		cfg:      deps.Config,
		cfgPath:  deps.ConfigPath,
		log:      deps.Logger,
		settings: deps.Settings,
		auth:     deps.Auth,
		convs:    deps.Convs,
		client:   deps.Client,
		theme:    styles.NewTheme(deps.Settings.Theme()),
	}
	// The translator reads the settings store on every call, so a
	// language switch takes effect immediately.
	a.tr = func(key string) string {
		return i18n.T(a.settings.Language(), key)
	}

	session := a.auth.Session
	a.landing = landing.New(a.convs, session, a.client, a.theme, a.tr, a.log)
	a.chat = chat.New(chat.Deps{
		Store:              a.convs,
		Session:            session,
		Gateway:            a.client,
		Theme:              a.theme,
		Translate:          a.tr,
		Logger:             a.log,
		DownloadDir:        deps.DownloadDir,
		TypewriterInterval: time.Duration(deps.Config.UI.TypewriterIntervalMS) * time.Millisecond,
	})
	a.list = convlist.New(a.convs, a.theme, a.tr, a.log)
	a.login = login.New(a.auth, a.client, a.theme, a.tr, a.log)
	a.settingsView = settings.New(a.settings, a.auth, a.theme, a.tr)

	return a
}

// Init validates the stored session and kicks off the first sync.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.checkAuthCmd(), a.landing.Focus())
}

// Request deadlines come from the gateway client configuration; the sync
// makes one bounded request per conversation.
func (a *App) checkAuthCmd() tea.Cmd {
	auth := a.auth
	return func() tea.Msg {
		return authCheckedMsg{ok: auth.CheckAuth(context.Background())}
	}
}

func (a *App) syncCmd() tea.Cmd {
	convs := a.convs
	return func() tea.Msg {
		return syncedMsg{err: convs.SyncConversations(context.Background())}
	}
}

// reloadTheme rebuilds the shared theme in place so every view picks up
// the change on its next render.
func (a *App) reloadTheme() {
	fresh := styles.NewTheme(a.settings.Theme())
	fresh.SetSize(a.width, a.height)
	*a.theme = *fresh
	a.propagateSize()
}

func (a *App) propagateSize() {
	a.landing.SetSize(a.width, a.height)
	a.chat.SetSize(a.width, a.height)
	a.list.SetSize(a.width, a.height)
	a.login.SetSize(a.width, a.height)
	a.settingsView.SetSize(a.width, a.height)
}

// Update routes messages: navigation first, keys to the active page,
// async results to every page that might own them.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.theme.SetSize(msg.Width, msg.Height)
		a.propagateSize()
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.routeKey(msg)

	case ConfigReloadedMsg:
		a.cfg = msg.Config
		a.settings.SetTheme(msg.Config.UI.Theme)
		a.settings.SetLanguage(msg.Config.UI.Language)
		a.reloadTheme()
		a.log.Info("configuration reloaded")
		return a, nil

	case authCheckedMsg:
		if msg.ok {
			return a, a.syncCmd()
		}
		return a, nil

	case syncedMsg:
		if msg.err != nil {
			a.log.Warn("conversation sync failed", "error", msg.err)
			return a, nil
		}
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(convlist.RefreshMsg{})
		cmds = append(cmds, cmd)
		a.chat, cmd = a.chat.Update(chat.RefreshMsg{})
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	// Navigation.
	case landing.OpenChatMsg:
		a.page = pageChat
		return a, a.chat.Open(msg.ConversationID, msg.InitialMessage)

	case landing.GoLoginMsg:
		a.page = pageLogin
		return a, a.login.Focus()

	case landing.GoListMsg:
		a.page = pageList
		return a, a.list.Focus()

	case landing.GoSettingsMsg:
		a.page = pageSettings
		return a, a.settingsView.Focus()

	case chat.BackMsg:
		a.page = pageList
		return a, a.list.Focus()

	case convlist.OpenMsg:
		a.page = pageChat
		return a, a.chat.Open(msg.ConversationID, "")

	case convlist.NewMsg, convlist.BackMsg:
		a.page = pageLanding
		return a, a.landing.Focus()

	case login.DoneMsg:
		a.page = pageLanding
		return a, tea.Batch(a.landing.Focus(), a.syncCmd())

	case login.BackMsg:
		a.page = pageLanding
		return a, a.landing.Focus()

	case settings.ChangedMsg:
		// The config file is the persistent source of truth; mirror the
		// in-app change back so it survives a restart.
		a.cfg.UI.Theme = a.settings.Theme()
		a.cfg.UI.Language = a.settings.Language()
		if a.cfgPath != "" {
			if err := config.SaveToPath(a.cfg, a.cfgPath); err != nil {
				a.log.Warn("persisting settings failed", "error", err)
			}
		}
		a.reloadTheme()
		return a, nil

	case settings.LoggedOutMsg:
		a.page = pageLanding
		return a, a.landing.Focus()
	}

	return a.broadcast(msg)
}

func (a *App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.page {
	case pageLanding:
		a.landing, cmd = a.landing.Update(msg)
	case pageChat:
		a.chat, cmd = a.chat.Update(msg)
	case pageList:
		a.list, cmd = a.list.Update(msg)
	case pageLogin:
		a.login, cmd = a.login.Update(msg)
	case pageSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	}
	return a, cmd
}

// broadcast forwards async messages to every page. A send result must
// reach the chat view even when the user has navigated elsewhere, and
// each page ignores messages it does not own.
func (a *App) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.landing, cmd = a.landing.Update(msg)
	cmds = append(cmds, cmd)
	a.chat, cmd = a.chat.Update(msg)
	cmds = append(cmds, cmd)
	a.list, cmd = a.list.Update(msg)
	cmds = append(cmds, cmd)
	a.login, cmd = a.login.Update(msg)
	cmds = append(cmds, cmd)
	a.settingsView, cmd = a.settingsView.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// View renders the active page.
func (a *App) View() string {
	switch a.page {
	case pageChat:
		return a.chat.View()
	case pageList:
		return a.list.View()
	case pageLogin:
		return a.login.View()
	case pageSettings:
		return a.settingsView.View()
	default:
		return a.landing.View()
	}
}
