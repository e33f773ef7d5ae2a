package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type EditorOptions struct {
	StartMode string `toml:"start-mode"`
	TabWidth  int    `toml:"tab-width"`
	// Multiline makes <CR> in Insert mode insert a newline instead of
	// submitting the line.
	Multiline bool   `toml:"multiline"`
	Bell      bool   `toml:"bell"`
	Prompt    string `toml:"prompt"`
}

type Theme struct {
	Theme                string `toml:"theme"`
	Foreground           string `toml:"foreground"`
	Background           string `toml:"background"`
	PromptForeground     string `toml:"prompt-foreground"`
	StatuslineForeground string `toml:"statusline-foreground"`
	StatuslineBackground string `toml:"statusline-background"`
	SelectionForeground  string `toml:"selection-foreground"`
	SelectionBackground  string `toml:"selection-background"`
	PendingForeground    string `toml:"pending-foreground"`
}

type LogOptions struct {
	Debug bool `toml:"debug"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
	Log    LogOptions    `toml:"log"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			StartMode: "insert",
			TabWidth:  4,
			Multiline: false,
			Bell:      true,
			Prompt:    "> ",
		},
		Theme: Theme{
			Theme:                "",
			Foreground:           "#B3B1AD",
			Background:           "#0A0E14",
			PromptForeground:     "#59C2FF",
			StatuslineForeground: "#B3B1AD",
			StatuslineBackground: "#0F1419",
			SelectionForeground:  "#B3B1AD",
			SelectionBackground:  "#27425A",
			PendingForeground:    "#E6B450",
		},
	}
}

// Load reads config.toml from ConfigDir over the defaults. A missing file
// is not an error.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	md, err := toml.Decode(string(data), &userCfg)
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if userCfg.Editor.StartMode != "" {
		cfg.Editor.StartMode = userCfg.Editor.StartMode
	}
	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if md.IsDefined("editor", "multiline") {
		cfg.Editor.Multiline = userCfg.Editor.Multiline
	}
	if md.IsDefined("editor", "bell") {
		cfg.Editor.Bell = userCfg.Editor.Bell
	}
	if md.IsDefined("editor", "prompt") {
		cfg.Editor.Prompt = userCfg.Editor.Prompt
	}
	if md.IsDefined("log", "debug") {
		cfg.Log.Debug = userCfg.Log.Debug
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)

	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	if src.Foreground != "" {
		dst.Foreground = src.Foreground
	}
	if src.Background != "" {
		dst.Background = src.Background
	}
	if src.PromptForeground != "" {
		dst.PromptForeground = src.PromptForeground
	}
	if src.StatuslineForeground != "" {
		dst.StatuslineForeground = src.StatuslineForeground
	}
	if src.StatuslineBackground != "" {
		dst.StatuslineBackground = src.StatuslineBackground
	}
	if src.SelectionForeground != "" {
		dst.SelectionForeground = src.SelectionForeground
	}
	if src.SelectionBackground != "" {
		dst.SelectionBackground = src.SelectionBackground
	}
	if src.PendingForeground != "" {
		dst.PendingForeground = src.PendingForeground
	}
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme accepts both a bare theme file and one wrapped in a [theme]
// table.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil && t != (Theme{}) {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, fmt.Errorf("parse theme %s: %w", name, err)
	}
	return wrap.Theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("QLINE_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qline"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qline"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
