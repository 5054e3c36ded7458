// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package settings implements the settings screen: interface language,
// theme, and session control.
package settings

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/advisor-tui/internal/i18n"
	"github.com/jeranaias/advisor-tui/internal/store"
	"github.com/jeranaias/advisor-tui/internal/ui/styles"
)

// ChangedMsg reports that language or theme changed; the app rebuilds
// its theme and re-renders every view.
type ChangedMsg struct{}

// LoggedOutMsg reports that the user signed out.
type LoggedOutMsg struct{}

// BackMsg asks the app to leave the settings screen.
type BackMsg struct{}

type profileSavedMsg struct {
	err error
}

var (
	languages = []string{i18n.English, i18n.Russian}
	themes    = []string{"dark", "light", "auto"}
)

const (
	rowLanguage = iota
	rowTheme
	rowProfile
	rowLogout
	rowCount
)

const (
	profFullName = iota
	profNickname
	profPhone
	profCountry
	profCount
)

// Model is the settings screen.
type Model struct {
	theme *styles.Theme
	tr    func(string) string

	settings *store.SettingsStore
	auth     *store.AuthStore

	cursor int

	editingProfile bool
	profFields     []textinput.Model
	profCursor     int
	status         string

	width  int
	height int
}

// New builds the settings screen.
func New(settings *store.SettingsStore, auth *store.AuthStore, theme *styles.Theme, tr func(string) string) Model {
	fields := make([]textinput.Model, profCount)
	for i := range fields {
		fields[i] = textinput.New()
		fields[i].Prompt = ""
		fields[i].CharLimit = 120
		fields[i].Width = 40
	}
	return Model{
		theme:      theme,
		tr:         tr,
		settings:   settings,
		auth:       auth,
		profFields: fields,
	}
}

// Focus prepares the screen for display.
func (m *Model) Focus() tea.Cmd {
	m.cursor = 0
	m.editingProfile = false
	m.status = ""
	return nil
}

func (m *Model) openProfileEditor() {
	sess := m.auth.Session()
	if sess.User == nil {
		return
	}
	m.profFields[profFullName].SetValue(sess.User.FullName)
	m.profFields[profNickname].SetValue(sess.User.Nickname)
	m.profFields[profPhone].SetValue(sess.User.Phone)
	m.profFields[profCountry].SetValue(sess.User.Country)
	m.profCursor = 0
	for i := range m.profFields {
		m.profFields[i].Blur()
	}
	m.profFields[0].Focus()
	m.editingProfile = true
}

func (m *Model) saveProfileCmd() tea.Cmd {
	sess := m.auth.Session()
	if sess.User == nil {
		return nil
	}
	profile := *sess.User
	profile.FullName = strings.TrimSpace(m.profFields[profFullName].Value())
	profile.Nickname = strings.TrimSpace(m.profFields[profNickname].Value())
	profile.Phone = strings.TrimSpace(m.profFields[profPhone].Value())
	profile.Country = strings.TrimSpace(m.profFields[profCountry].Value())

	auth := m.auth
	return func() tea.Msg {
		return profileSavedMsg{err: auth.UpdateProfile(context.Background(), profile)}
	}
}

// SetSize resizes the screen.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func cycle(values []string, current string, delta int) string {
	idx := 0
	for i, v := range values {
		if v == current {
			idx = i
			break
		}
	}
	return values[(idx+delta+len(values))%len(values)]
}

// Update handles input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if saved, ok := msg.(profileSavedMsg); ok {
		if saved.err != nil {
			m.status = m.theme.StatusErr.Render(saved.err.Error())
		} else {
			m.status = m.theme.StatusOK.Render(m.tr("settings.saved"))
		}
		return m, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.editingProfile {
			var cmd tea.Cmd
			m.profFields[m.profCursor], cmd = m.profFields[m.profCursor].Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.editingProfile {
		return m.handleProfileKey(key)
	}

	switch key.String() {
	case "esc":
		return m, func() tea.Msg { return BackMsg{} }

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < rowCount-1 {
			m.cursor++
		}

	case "left", "right", "enter":
		delta := 1
		if key.String() == "left" {
			delta = -1
		}
		switch m.cursor {
		case rowLanguage:
			m.settings.SetLanguage(cycle(languages, m.settings.Language(), delta))
			return m, func() tea.Msg { return ChangedMsg{} }
		case rowTheme:
			m.settings.SetTheme(cycle(themes, m.settings.Theme(), delta))
			return m, func() tea.Msg { return ChangedMsg{} }
		case rowProfile:
			if key.String() == "enter" && m.auth.IsAuthenticated() {
				m.openProfileEditor()
			}
		case rowLogout:
			if key.String() == "enter" && m.auth.IsAuthenticated() {
				m.auth.Logout()
				return m, func() tea.Msg { return LoggedOutMsg{} }
			}
		}
	}
	return m, nil
}

func (m Model) handleProfileKey(key tea.KeyMsg) (Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.editingProfile = false
		return m, nil
	case "up", "shift+tab":
		m.profFields[m.profCursor].Blur()
		m.profCursor = (m.profCursor - 1 + profCount) % profCount
		m.profFields[m.profCursor].Focus()
		return m, nil
	case "down", "tab":
		m.profFields[m.profCursor].Blur()
		m.profCursor = (m.profCursor + 1) % profCount
		m.profFields[m.profCursor].Focus()
		return m, nil
	case "enter":
		if m.profCursor < profCount-1 {
			m.profFields[m.profCursor].Blur()
			m.profCursor++
			m.profFields[m.profCursor].Focus()
			return m, nil
		}
		m.editingProfile = false
		return m, m.saveProfileCmd()
	}
	var cmd tea.Cmd
	m.profFields[m.profCursor], cmd = m.profFields[m.profCursor].Update(key)
	return m, cmd
}

func (m Model) viewProfileEditor() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(m.tr("settings.profile")))
	b.WriteString("\n\n")

	labels := []string{
		m.tr("profile.full_name"),
		m.tr("profile.nickname"),
		m.tr("profile.phone"),
		m.tr("profile.country"),
	}
	for i, f := range m.profFields {
		label := m.theme.Label.Render(labels[i])
		if i == m.profCursor {
			label = m.theme.ListItemSelected.Render(labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(f.View())
		b.WriteString("\n\n")
	}
	b.WriteString(m.theme.Hint.Render("enter " + m.tr("common.save") + " • esc " + m.tr("common.cancel")))

	box := m.theme.ModalBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// View renders the settings rows.
func (m Model) View() string {
	if m.editingProfile {
		return m.viewProfileEditor()
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(m.tr("settings.title")))
	b.WriteString("\n\n")

	var profileValue string
	if sess := m.auth.Session(); sess.User != nil {
		profileValue = sess.User.DisplayName()
	}
	rows := []struct {
		label string
		value string
	}{
		{m.tr("settings.language"), m.settings.Language()},
		{m.tr("settings.theme"), m.settings.Theme()},
		{m.tr("settings.profile"), profileValue},
		{m.tr("settings.logout"), ""},
	}

	for i, row := range rows {
		line := m.theme.Label.Render(row.label)
		switch i {
		case rowLanguage, rowTheme:
			line += ": " + m.theme.Value.Render("‹ "+row.value+" ›")
		case rowProfile:
			if row.value != "" {
				line += ": " + m.theme.Value.Render(row.value)
			}
		}
		if i == m.cursor {
			line = m.theme.ListItemSelected.Render("› " + line)
		} else {
			line = m.theme.ListItem.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if sess := m.auth.Session(); sess.IsAuthenticated() {
		b.WriteString(m.theme.Subtitle.Render(m.tr("settings.signed_in") + " " + sess.User.DisplayName()))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Hint.Render("←/→ • esc " + m.tr("common.back")))

	box := m.theme.ModalBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
