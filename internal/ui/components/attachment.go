// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/advisor-tui/internal/model"
	"github.com/jeranaias/advisor-tui/internal/util"
)

// RenderAttachment returns the one-line chip shown under a message for a
// file the advisor produced, e.g. "📎 report.xlsx (12.4 KB)".
func RenderAttachment(style lipgloss.Style, att model.FileAttachment) string {
	name := att.Filename
	if name == "" {
		name = att.ID
	}
	if att.Size > 0 {
		return style.Render(fmt.Sprintf("📎 %s (%s)", name, formatSize(att.Size)))
	}
	return style.Render("📎 " + name)
}

// SaveAttachment writes an attachment to dir and returns the final path.
// Inline base64 content wins over downloaded bytes; the caller supplies
// downloaded bytes when the attachment only carries a URL. Filenames are
// sanitized and deduplicated so a hostile name cannot escape dir.
func SaveAttachment(dir string, att model.FileAttachment, downloaded []byte) (string, error) {
	data := downloaded
	if att.ContentBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(att.ContentBase64)
		if err != nil {
			return "", fmt.Errorf("decode attachment %s: %w", att.ID, err)
		}
		data = decoded
	}
	if data == nil {
		return "", fmt.Errorf("attachment %s has no content", att.ID)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	name := sanitizeFilename(att.Filename)
	if name == "" {
		name = att.ID
	}
	path := uniquePath(filepath.Join(dir, name))
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("save attachment: %w", err)
	}
	return path, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return name
}

// uniquePath appends " (n)" before the extension until the path is free.
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

func formatSize(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
