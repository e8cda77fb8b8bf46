package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyToken is returned by Save when the credential has no token.
var ErrEmptyToken = errors.New("credential: token must not be empty")

// Save writes cred to path in the credential file format, creating the
// parent directory (0700) as needed. The file is written with 0600 permissions.
func Save(path string, cred Credential) error {
	if strings.TrimSpace(cred.Token) == "" {
		return ErrEmptyToken
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("credential: creating directory: %w", err)
	}

	data, err := json.MarshalIndent(fileFormat{
		APIKey:    cred.Token,
		AgentID:   cred.AgentID,
		AgentName: cred.AgentName,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("credential: encoding: %w", err)
	}

	// Write to a temp file in the same directory, then rename, so a crash
	// never leaves a truncated credential file behind.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".credentials-*.json")
	if err != nil {
		return fmt.Errorf("credential: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("credential: chmod: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("credential: writing: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("credential: closing: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("credential: installing %s: %w", path, err)
	}
	return nil
}

// Remove deletes the credential file. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("credential: removing %s: %w", path, err)
	}
	return nil
}
