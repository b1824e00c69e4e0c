// Package prefs persists the last-used display name and room code so the
// login form can be prefilled. It is deliberately outside the sync engine:
// read once at startup, written on each login attempt.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Prefs is the on-disk login prefill.
type Prefs struct {
	Name string `yaml:"name"`
	Room string `yaml:"room"`
}

// DefaultPath returns the prefs file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "partyquiz", "prefs.yaml"), nil
}

// Load reads stored prefs. A missing file is not an error; it just means
// there is nothing to prefill yet.
func Load(path string) (Prefs, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Prefs{}, nil
	}
	if err != nil {
		return Prefs{}, fmt.Errorf("read prefs file: %w", err)
	}

	var p Prefs
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Prefs{}, fmt.Errorf("parse prefs file: %w", err)
	}
	return p, nil
}

// Save writes prefs, creating the parent directory if needed.
func Save(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write prefs file: %w", err)
	}
	return nil
}
