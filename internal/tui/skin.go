package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Palette colors used across the TUI. InitializeSkin overwrites them.
var (
	ColorBlue   = lipgloss.Color("39")
	ColorGreen  = lipgloss.Color("78")
	ColorOrange = lipgloss.Color("208")
	ColorRed    = lipgloss.Color("196")
	ColorGray   = lipgloss.Color("244")
	ColorWhite  = lipgloss.Color("255")
	ColorPaper  = lipgloss.Color("230")
	ColorInk    = lipgloss.Color("236")
)

// Skin is the on-disk YAML shape of a color theme. Empty fields keep the
// built-in color.
type Skin struct {
	Name   string `yaml:"name"`
	Accent string `yaml:"accent"`
	Muted  string `yaml:"muted"`
	Text   string `yaml:"text"`
	Paper  string `yaml:"paper"`
	Ink    string `yaml:"ink"`
	Match  string `yaml:"match"`
	Warn   string `yaml:"warn"`
	Error  string `yaml:"error"`
}

var builtinSkins = map[string]Skin{
	"default": {},
	"sepia": {
		Name: "sepia", Accent: "130", Muted: "137", Text: "223",
		Paper: "187", Ink: "52", Match: "136",
	},
	"night": {
		Name: "night", Accent: "111", Muted: "240", Text: "252",
		Paper: "236", Ink: "252", Match: "150",
	},
}

// InitializeSkin applies the named skin. Built-in skins are tried first,
// then <configDir>/skins/<name>.yml. An empty name is the default skin.
func InitializeSkin(name, configDir string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "default"
	}
	if skin, ok := builtinSkins[name]; ok {
		applySkin(skin)
		return nil
	}

	path := filepath.Join(configDir, "skins", name+".yml")
	skin, err := LoadSkin(path)
	if err != nil {
		return err
	}
	applySkin(skin)
	return nil
}

// LoadSkin reads a skin file.
func LoadSkin(path string) (Skin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Skin{}, fmt.Errorf("skin not found: %s", path)
		}
		return Skin{}, fmt.Errorf("read skin: %w", err)
	}
	var skin Skin
	if err := yaml.Unmarshal(data, &skin); err != nil {
		return Skin{}, fmt.Errorf("parse skin %s: %w", path, err)
	}
	return skin, nil
}

func applySkin(s Skin) {
	set := func(dst *lipgloss.Color, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&ColorBlue, s.Accent)
	set(&ColorGray, s.Muted)
	set(&ColorWhite, s.Text)
	set(&ColorPaper, s.Paper)
	set(&ColorInk, s.Ink)
	set(&ColorGreen, s.Match)
	set(&ColorOrange, s.Warn)
	set(&ColorRed, s.Error)
}
