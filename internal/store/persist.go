// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jeranaias/advisor-tui/internal/util"
)

// Snapshot persists one store's state as a JSON file. Writes go through an
// atomic temp-file-and-rename so a crash mid-write never corrupts the
// previous snapshot.
type Snapshot struct {
	path string
}

// NewSnapshot creates a snapshot bound to a file path, creating the parent
// directory if needed.
func NewSnapshot(path string) (*Snapshot, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Snapshot{path: path}, nil
}

// Load reads the snapshot into v. A missing file is not an error; v is
// left untouched and ok is false.
func (s *Snapshot) Load(v any) (ok bool, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parse snapshot %s: %w", filepath.Base(s.path), err)
	}
	return true, nil
}

// Save writes v as the new snapshot.
func (s *Snapshot) Save(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Remove deletes the snapshot file. Missing files are ignored.
func (s *Snapshot) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
