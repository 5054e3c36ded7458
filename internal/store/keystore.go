// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

// ErrSealedCorrupt indicates a sealed blob that cannot be authenticated,
// either truncated or encrypted under a different key.
var ErrSealedCorrupt = errors.New("sealed data corrupt")

// Keystore seals small blobs with a machine-local random key so the auth
// token is not stored as plaintext on disk. The key lives next to the
// sealed data with owner-only permissions; this protects against casual
// file reads and backups, not against an attacker with the user's account.
type Keystore struct {
	keyPath string
}

// NewKeystore creates a keystore whose key file lives at keyPath, creating
// the parent directory if needed.
func NewKeystore(keyPath string) (*Keystore, error) {
	if err := os.MkdirAll(filepath.Dir(keyPath), 0700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Keystore{keyPath: keyPath}, nil
}

// key loads the sealing key, generating and persisting one on first use.
func (k *Keystore) key() (*[keySize]byte, error) {
	var key [keySize]byte

	data, err := os.ReadFile(k.keyPath)
	switch {
	case err == nil:
		if len(data) != keySize {
			return nil, fmt.Errorf("key file %s has %d bytes, want %d", k.keyPath, len(data), keySize)
		}
		copy(key[:], data)
		return &key, nil
	case errors.Is(err, fs.ErrNotExist):
		if _, err := rand.Read(key[:]); err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}
		if err := os.WriteFile(k.keyPath, key[:], 0600); err != nil {
			return nil, fmt.Errorf("write key file: %w", err)
		}
		return &key, nil
	default:
		return nil, fmt.Errorf("read key file: %w", err)
	}
}

// Seal encrypts plain under the machine key. The nonce is prepended to the
// returned blob.
func (k *Keystore) Seal(plain []byte) ([]byte, error) {
	key, err := k.key()
	if err != nil {
		return nil, err
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plain, &nonce, key), nil
}

// Open decrypts a blob produced by Seal.
func (k *Keystore) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize {
		return nil, ErrSealedCorrupt
	}
	key, err := k.key()
	if err != nil {
		return nil, err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, key)
	if !ok {
		return nil, ErrSealedCorrupt
	}
	return plain, nil
}
