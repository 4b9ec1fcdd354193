// Package manifest reads and writes the workspace version manifest at
// .aget/version.json.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aget-framework/aget-sub002/internal/semver"
)

const (
	Dir  = ".aget"
	File = "version.json"
)

var (
	ErrNotFound  = errors.New("version manifest not found")
	ErrDowngrade = errors.New("migration would downgrade workspace version")
)

type Manifest struct {
	AgetVersion      string   `json:"aget_version"`
	MigrationHistory []string `json:"migration_history"`
}

func Path(root string) string {
	return filepath.Join(root, Dir, File)
}

func Load(root string) (*Manifest, error) {
	data, err := os.ReadFile(Path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	if m.MigrationHistory == nil {
		m.MigrationHistory = []string{}
	}

	return &m, nil
}

// Save writes through a temp file so a crashed write never leaves a
// truncated manifest behind.
func (m *Manifest) Save(root string) error {
	dir := filepath.Join(root, Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := Path(root) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	if err := os.Rename(tmp, Path(root)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit manifest: %w", err)
	}

	return nil
}

func (m *Manifest) Version() (semver.Version, error) {
	return semver.Parse(m.AgetVersion)
}

// RecordMigration bumps aget_version to `to` and appends a history entry of
// the form "<from> -> <to>: <note>". Moving backwards is refused.
func (m *Manifest) RecordMigration(to semver.Version, note string) error {
	from, err := m.Version()
	if err != nil {
		return fmt.Errorf("current version: %w", err)
	}

	if semver.Compare(to, from) < 0 {
		return fmt.Errorf("%w: %s -> %s", ErrDowngrade, from, to)
	}

	entry := fmt.Sprintf("%s -> %s", from, to)
	if note != "" {
		entry += ": " + note
	}

	m.AgetVersion = to.String()
	m.MigrationHistory = append(m.MigrationHistory, entry)
	return nil
}

// Init creates a fresh manifest for a workspace that has none.
func Init(root string, v semver.Version) (*Manifest, error) {
	if _, err := os.Stat(Path(root)); err == nil {
		return nil, fmt.Errorf("manifest already exists at %s", Path(root))
	}

	m := &Manifest{
		AgetVersion:      v.String(),
		MigrationHistory: []string{},
	}

	if err := m.Save(root); err != nil {
		return nil, err
	}

	return m, nil
}
