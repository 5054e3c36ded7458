// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login implements the sign-in and registration screen.
package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/jeranaias/advisor-tui/internal/gateway"
	"github.com/jeranaias/advisor-tui/internal/store"
	"github.com/jeranaias/advisor-tui/internal/ui/styles"
)

// DoneMsg reports a successful sign-in or registration.
type DoneMsg struct{}

// BackMsg asks the app to leave the login screen.
type BackMsg struct{}

type authResultMsg struct {
	err error
}

type userCheckedMsg struct {
	email  string
	exists bool
	err    error
}

// UserChecker asks the backend whether an account exists for an email,
// used to steer a sign-in attempt for an unknown address into the
// registration form.
type UserChecker interface {
	CheckUser(ctx context.Context, email string) (bool, error)
}

const (
	fieldEmail = iota
	fieldPassword
	fieldBusiness
)

// Model is the login screen. Tab toggles between sign-in and
// registration; registration adds the business type field.
type Model struct {
	theme *styles.Theme
	tr    func(string) string
	log   *log.Logger

	auth    *store.AuthStore
	checker UserChecker

	registering bool
	fields      []textinput.Model
	cursor      int
	busy        bool
	errText     string
	width       int
	height      int
}

// New builds the login screen.
func New(auth *store.AuthStore, checker UserChecker, theme *styles.Theme, tr func(string) string, logger *log.Logger) Model {
	email := textinput.New()
	email.Prompt = ""
	email.CharLimit = 254

	password := textinput.New()
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	business := textinput.New()
	business.Prompt = ""
	business.CharLimit = 120

	return Model{
		theme:   theme,
		tr:      tr,
		log:     logger,
		auth:    auth,
		checker: checker,
		fields:  []textinput.Model{email, password, business},
	}
}

// Focus resets the form.
func (m *Model) Focus() tea.Cmd {
	m.errText = ""
	m.busy = false
	m.cursor = 0
	for i := range m.fields {
		m.fields[i].Blur()
	}
	m.fields[0].Focus()
	return textinput.Blink
}

// SetSize resizes the screen.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	for i := range m.fields {
		m.fields[i].Width = 40
	}
}

func (m *Model) fieldCount() int {
	if m.registering {
		return 3
	}
	return 2
}

func (m *Model) moveFocus(delta int) {
	m.fields[m.cursor].Blur()
	m.cursor = (m.cursor + delta + m.fieldCount()) % m.fieldCount()
	m.fields[m.cursor].Focus()
}

// Update handles input and the async auth result.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case userCheckedMsg:
		// Best-effort steering only; a lookup failure changes nothing.
		if msg.err == nil && !msg.exists && !m.registering &&
			msg.email == strings.TrimSpace(m.fields[fieldEmail].Value()) {
			m.registering = true
			m.errText = ""
		}
		return m, nil

	case authResultMsg:
		m.busy = false
		if msg.err != nil {
			m.log.Warn("auth failed", "registering", m.registering, "error", msg.err)
			m.errText = m.tr("login.failed") + ": " + msg.err.Error()
			return m, nil
		}
		return m, func() tea.Msg { return DoneMsg{} }

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return BackMsg{} }

		case "tab":
			m.registering = !m.registering
			m.errText = ""
			if m.cursor >= m.fieldCount() {
				m.moveFocus(0)
			}
			return m, nil

		case "up", "shift+tab":
			m.moveFocus(-1)
			return m, nil

		case "down":
			m.moveFocus(1)
			return m, nil

		case "enter":
			if m.cursor < m.fieldCount()-1 {
				leavingEmail := m.cursor == fieldEmail
				m.moveFocus(1)
				if leavingEmail && !m.registering {
					return m, m.checkUserCmd()
				}
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.fields[m.cursor], cmd = m.fields[m.cursor].Update(msg)
	return m, cmd
}

// checkUserCmd looks up the typed email so an unknown address lands in
// the registration form instead of a doomed sign-in.
func (m Model) checkUserCmd() tea.Cmd {
	email := strings.TrimSpace(m.fields[fieldEmail].Value())
	if email == "" || m.checker == nil {
		return nil
	}
	checker := m.checker
	return func() tea.Msg {
		exists, err := checker.CheckUser(context.Background(), email)
		return userCheckedMsg{email: email, exists: exists, err: err}
	}
}

func (m Model) submit() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.fields[fieldEmail].Value())
	password := m.fields[fieldPassword].Value()
	if email == "" || password == "" {
		return m, nil
	}
	m.busy = true
	m.errText = ""

	auth := m.auth
	registering := m.registering
	business := strings.TrimSpace(m.fields[fieldBusiness].Value())
	return m, func() tea.Msg {
		ctx := context.Background()
		var err error
		if registering {
			err = auth.Register(ctx, gateway.RegisterRequest{
				Email:        email,
				Password:     password,
				BusinessType: business,
			})
		} else {
			err = auth.Login(ctx, email, password)
		}
		return authResultMsg{err: err}
	}
}

// View renders the form.
func (m Model) View() string {
	var b strings.Builder

	title := m.tr("login.title")
	submit := m.tr("login.submit")
	toggle := m.tr("login.to_register")
	if m.registering {
		title = m.tr("login.title_reg")
		submit = m.tr("login.submit_reg")
		toggle = m.tr("login.to_login")
	}

	b.WriteString(m.theme.Title.Render(title))
	b.WriteString("\n\n")

	labels := []string{m.tr("login.email"), m.tr("login.password"), m.tr("login.business")}
	for i := 0; i < m.fieldCount(); i++ {
		label := m.theme.Label.Render(labels[i])
		if i == m.cursor {
			label = m.theme.ListItemSelected.Render(labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(m.fields[i].View())
		b.WriteString("\n\n")
	}

	if m.busy {
		b.WriteString(m.theme.Hint.Render(m.tr("common.loading")))
	} else if m.errText != "" {
		b.WriteString(m.theme.StatusErr.Render(m.errText))
	} else {
		b.WriteString(m.theme.Hint.Render("enter " + submit))
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Hint.Render(toggle))

	box := m.theme.ModalBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
