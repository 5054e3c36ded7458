// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// runLogin signs in from the terminal without starting the TUI, so the
// session is already valid on the next launch. Useful over SSH and in
// scripts that pre-provision a machine.
func runLogin(e *env) int {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "advisor: login requires an interactive terminal")
		return 1
	}

	if sess := e.auth.Session(); sess.IsAuthenticated() {
		fmt.Printf("Already signed in as %s. Sign out first to switch accounts.\n", sess.User.DisplayName())
		return 0
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	email, err := line.Prompt("Email: ")
	line.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr)
		return 1
	}
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Fprintln(os.Stderr, "advisor: email is required")
		return 1
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		fmt.Fprintln(os.Stderr, "advisor: read password:", err)
		return 1
	}
	if len(password) == 0 {
		fmt.Fprintln(os.Stderr, "advisor: password is required")
		return 1
	}

	// The gateway client applies the configured request deadline.
	if err := e.auth.Login(context.Background(), email, string(password)); err != nil {
		fmt.Fprintln(os.Stderr, "advisor: sign-in failed:", err)
		return 1
	}

	fmt.Printf("Signed in as %s.\n", e.auth.Session().User.DisplayName())
	return 0
}
