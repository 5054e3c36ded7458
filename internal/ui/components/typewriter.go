// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TypewriterTickMsg advances the reveal by one rune. Gen ties the tick to
// the reveal that scheduled it so ticks from an abandoned reveal are
// ignored.
type TypewriterTickMsg struct {
	Gen int
}

// Typewriter reveals text one rune at a time at a fixed interval. It is a
// plain state machine driven by Update; Start and Stop retarget it. The
// completion signal fires exactly once per target, whether the reveal ran
// to the end or was cut short by Stop.
type Typewriter struct {
	interval time.Duration
	gen      int
	target   []rune
	index    int
	active   bool
	fired    bool
}

// NewTypewriter returns a typewriter with the given reveal interval. A
// zero or negative interval disables the animation: Start shows the full
// text at once.
func NewTypewriter(interval time.Duration) Typewriter {
	return Typewriter{interval: interval}
}

// Start retargets the typewriter at text, restarting the reveal from the
// empty prefix. Any tick still in flight for the previous target becomes
// stale. It returns the first tick command and whether the reveal already
// completed (empty text or animation disabled).
func (t *Typewriter) Start(text string) (tea.Cmd, bool) {
	t.gen++
	t.target = []rune(text)
	t.index = 0
	t.fired = false

	if len(t.target) == 0 || t.interval <= 0 {
		t.index = len(t.target)
		t.active = false
		t.fired = true
		return nil, true
	}
	t.active = true
	return t.tick(), false
}

// Update consumes a tick. It returns the next tick command and whether
// the reveal completed on this tick. Stale ticks are dropped.
func (t *Typewriter) Update(msg TypewriterTickMsg) (tea.Cmd, bool) {
	if !t.active || msg.Gen != t.gen {
		return nil, false
	}
	t.index++
	if t.index >= len(t.target) {
		t.index = len(t.target)
		t.active = false
		completed := !t.fired
		t.fired = true
		return nil, completed
	}
	return t.tick(), false
}

// Stop cuts the reveal short, jumping to the full text. It reports
// whether the completion signal fires now; a reveal that already
// completed reports false.
func (t *Typewriter) Stop() bool {
	t.index = len(t.target)
	t.active = false
	if t.fired || len(t.target) == 0 {
		return false
	}
	t.fired = true
	return true
}

// Active reports whether a reveal is in progress.
func (t *Typewriter) Active() bool {
	return t.active
}

// View returns the currently revealed prefix.
func (t *Typewriter) View() string {
	return string(t.target[:t.index])
}

func (t *Typewriter) tick() tea.Cmd {
	gen := t.gen
	return tea.Tick(t.interval, func(time.Time) tea.Msg {
		return TypewriterTickMsg{Gen: gen}
	})
}
