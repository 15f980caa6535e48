// Package credstore persists the external API credential in a key-value
// settings file and keeps a single in-memory copy for the running process.
// The store is the only owner of the credential: handlers and providers read
// it through the store instead of a package-level variable, so a runtime
// update via the settings endpoint is visible to every subsequent call
// (last write wins).
package credstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// apiKeyEntry is the settings-file key holding the credential.
const apiKeyEntry = "gemini_api_key"

// Store owns the persisted settings file and the in-memory credential copy.
type Store struct {
	path string

	mu      sync.RWMutex
	entries map[string]string
}

// Open reads the settings file at path and returns a ready store. A missing
// file is not an error: the store starts empty and the file is created on
// the first update.
func Open(path string) (*Store, error) {
	s := &Store{path: path, entries: map[string]string{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	if s.entries == nil {
		s.entries = map[string]string{}
	}
	return s, nil
}

// APIKey returns the current credential, or the empty string when none is
// configured. Implements delegate.CredentialSource.
func (s *Store) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[apiKeyEntry]
}

// SetAPIKey validates, persists, and publishes a new credential. Entries
// other than the credential survive the rewrite. The in-memory copy is only
// updated after the file write succeeds, so a failed persist leaves the
// running configuration untouched.
func (s *Store) SetAPIKey(key string) error {
	if key == "" {
		return fmt.Errorf("api_key is required and cannot be blank")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make(map[string]string, len(s.entries)+1)
	for k, v := range s.entries {
		updated[k] = v
	}
	updated[apiKeyEntry] = key

	if err := s.write(updated); err != nil {
		return err
	}
	s.entries = updated
	return nil
}

// write serializes the entries and replaces the settings file atomically.
func (s *Store) write(entries map[string]string) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}

	// 一時ファイルに書いてから rename（途中で落ちても設定を壊さない）
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}
