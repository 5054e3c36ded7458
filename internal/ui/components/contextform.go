// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/advisor-tui/internal/model"
	"github.com/jeranaias/advisor-tui/internal/ui/styles"
)

// =============================================================================
// BUSINESS CONTEXT FORM
// =============================================================================

// ctxField is one row of the form. Enumerated fields cycle through options
// with left/right; Region (options == nil) is free text.
type ctxField struct {
	labelKey string
	options  []string
	idx      int // 0 = unset, otherwise options[idx-1]
	text     string
}

// ContextForm edits a conversation's business-context tag set. The chat
// view opens it on an existing conversation; the landing view opens it
// before the conversation is created.
type ContextForm struct {
	fields []ctxField
	cursor int
}

// NewContextForm builds a form pre-filled from cc.
func NewContextForm(cc model.ConversationContext) *ContextForm {
	return &ContextForm{
		fields: []ctxField{
			{labelKey: "context.user_role", options: model.UserRoles, idx: optionIndex(model.UserRoles, cc.UserRole)},
			{labelKey: "context.business_stage", options: model.BusinessStages, idx: optionIndex(model.BusinessStages, cc.BusinessStage)},
			{labelKey: "context.goal", options: model.Goals, idx: optionIndex(model.Goals, cc.Goal)},
			{labelKey: "context.urgency", options: model.Urgencies, idx: optionIndex(model.Urgencies, cc.Urgency)},
			{labelKey: "context.region", text: cc.Region},
			{labelKey: "context.business_niche", options: model.BusinessNiches, idx: optionIndex(model.BusinessNiches, cc.BusinessNiche)},
		},
	}
}

func optionIndex(options []string, value string) int {
	for i, opt := range options {
		if opt == value {
			return i + 1
		}
	}
	return 0
}

func (f ctxField) value() string {
	if f.options == nil {
		return f.text
	}
	if f.idx == 0 {
		return ""
	}
	return f.options[f.idx-1]
}

// Value returns the edited context. Callers normalize it, so an all-blank
// form maps to "no context".
func (f *ContextForm) Value() model.ConversationContext {
	return model.ConversationContext{
		UserRole:      f.fields[0].value(),
		BusinessStage: f.fields[1].value(),
		Goal:          f.fields[2].value(),
		Urgency:       f.fields[3].value(),
		Region:        f.fields[4].value(),
		BusinessNiche: f.fields[5].value(),
	}
}

func (f *ContextForm) clear() {
	for i := range f.fields {
		f.fields[i].idx = 0
		f.fields[i].text = ""
	}
}

// Update applies one key press. done reports the form is finished; save
// is true for enter (confirm) and false for esc.
func (f *ContextForm) Update(msg tea.KeyMsg) (done, save bool) {
	field := &f.fields[f.cursor]

	switch msg.String() {
	case "esc":
		return true, false

	case "enter":
		return true, true

	case "up":
		if f.cursor > 0 {
			f.cursor--
		}
		return false, false

	case "down":
		if f.cursor < len(f.fields)-1 {
			f.cursor++
		}
		return false, false

	case "left":
		if field.options != nil && field.idx > 0 {
			field.idx--
		}
		return false, false

	case "right":
		if field.options != nil && field.idx < len(field.options) {
			field.idx++
		}
		return false, false

	case "ctrl+l":
		f.clear()
		return false, false

	case "backspace":
		if field.options == nil && field.text != "" {
			runes := []rune(field.text)
			field.text = string(runes[:len(runes)-1])
		}
		return false, false
	}

	// Free-text entry for the region field.
	if field.options == nil && msg.Type == tea.KeyRunes {
		field.text += string(msg.Runes)
	}
	return false, false
}

// View renders the form rows; the page wraps them in its modal chrome.
func (f *ContextForm) View(theme *styles.Theme, tr func(string) string) string {
	var b strings.Builder
	for i, fld := range f.fields {
		value := fld.value()
		if value == "" {
			value = tr("context.none")
		}
		line := theme.Label.Render(tr(fld.labelKey)) + ": " + theme.Value.Render(value)
		if i == f.cursor {
			line = theme.ListItemSelected.Render("› " + line)
		} else {
			line = theme.ListItem.Render("  " + line)
		}
		b.WriteString(line)
		if i < len(f.fields)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
