// Package prefs persists small per-user TUI state between runs.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultPath = "~/.config/flipbook/prefs.toml"

// Book names understood by the TUI.
const (
	BookDictionary = "dictionary"
	BookStories    = "stories"
)

// Prefs is the state restored when the TUI starts.
type Prefs struct {
	LastBook   string `toml:"last_book"`
	LastQuery  string `toml:"last_query"`
	LastSpread int    `toml:"last_spread"`
	LastStory  string `toml:"last_story"`
}

// Defaults returns the prefs used when nothing has been saved yet.
func Defaults() Prefs {
	return Prefs{LastBook: BookDictionary}
}

// DefaultPath returns ~/.config/flipbook/prefs.toml expanded.
func DefaultPath() string {
	return mustExpand(defaultPath)
}

// Load reads prefs from path, falling back to defaults when the file is
// missing. A malformed file also yields defaults, along with the parse error
// so the caller can log it.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults(), err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Defaults(), fmt.Errorf("read prefs: %w", err)
	}

	p := Defaults()
	if err := toml.Unmarshal(data, &p); err != nil {
		return Defaults(), fmt.Errorf("parse prefs: %w", err)
	}
	return p.normalize(), nil
}

// Save writes prefs to path, creating parent directories.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p.normalize())
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}

	tmp := resolved + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

func (p Prefs) normalize() Prefs {
	p.LastBook = strings.TrimSpace(p.LastBook)
	if p.LastBook != BookDictionary && p.LastBook != BookStories {
		p.LastBook = BookDictionary
	}
	if p.LastSpread < 0 {
		p.LastSpread = 0
	}
	return p
}

// ClampSpread bounds a restored spread index to a book of n spreads.
func ClampSpread(spread, n int) int {
	if n <= 0 || spread < 0 {
		return 0
	}
	if spread >= n {
		return n - 1
	}
	return spread
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
