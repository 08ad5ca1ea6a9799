// Package config handles configuration loading from TOML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/xonecas/vate/internal/export"
)

// CurrentVersion is the config schema version written by this build.
const CurrentVersion = 1

// Config is the root configuration structure.
type Config struct {
	Version  int            `toml:"version"`
	Window   WindowConfig   `toml:"window"`
	Font     FontConfig     `toml:"font"`
	Colors   ColorConfig    `toml:"colors"`
	Editor   EditorConfig   `toml:"editor"`
	Recent   RecentConfig   `toml:"recent"`
	Session  SessionConfig  `toml:"session"`
	Export   ExportConfig   `toml:"export"`
	Commands CommandsConfig `toml:"commands"`
}

// WindowConfig is the last known window geometry, in terminal cells.
type WindowConfig struct {
	Width     int  `toml:"width"`
	Height    int  `toml:"height"`
	X         int  `toml:"x"`
	Y         int  `toml:"y"`
	Maximized bool `toml:"maximized"`
}

// FontConfig is used by the HTML export; the terminal font is the terminal's.
type FontConfig struct {
	Family string `toml:"family"`
	Size   int    `toml:"size"`
}

// ColorConfig holds the editor colors. Empty colors fall back to the palette
// derived from SyntaxTheme.
type ColorConfig struct {
	// SyntaxTheme is the Chroma style used for highlighting. UI chrome colors
	// are derived from it via highlight.ThemePalette.
	SyntaxTheme     string `toml:"syntax_theme"`
	Background      string `toml:"background"`
	Foreground      string `toml:"foreground"`
	LineNumbers     string `toml:"line_numbers"`
	Selection       string `toml:"selection"`
	MatchHighlight  string `toml:"match_highlight"`
	LineNumbersBack string `toml:"line_numbers_background"`
}

// EditorConfig holds editing settings.
type EditorConfig struct {
	TabWidth      int    `toml:"tab_width"`
	LineNumbers   bool   `toml:"line_numbers"`
	LineSeparator string `toml:"line_separator"` // lf, crlf or cr; used for new files
	Backups       int    `toml:"backups"`        // file versions kept before saves; 0 disables
}

// RecentConfig bounds the recent-files list.
type RecentConfig struct {
	Max int `toml:"max"`
}

// SessionConfig is the set of tabs restored on start.
type SessionConfig struct {
	Restore   bool     `toml:"restore"`
	OpenFiles []string `toml:"open_files"`
	Active    int      `toml:"active"`
}

// ExportConfig holds HTML export settings.
type ExportConfig struct {
	Title      string `toml:"title"` // empty means the file name
	Author     string `toml:"author"`
	Charset    string `toml:"charset"`
	FontFamily string `toml:"font_family"`
	TabSpaces  int    `toml:"tab_spaces"`
	Highlight  bool   `toml:"highlight"`
}

// CommandsConfig holds external commands.
type CommandsConfig struct {
	// Reveal is run through the shell with $VATE_FILE set to the active file.
	Reveal string `toml:"reveal"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Window:  WindowConfig{Width: 120, Height: 40},
		Font:    FontConfig{Family: "monospace", Size: 16},
		Colors:  ColorConfig{SyntaxTheme: "vulcan"},
		Editor: EditorConfig{
			TabWidth:      4,
			LineNumbers:   true,
			LineSeparator: "lf",
			Backups:       5,
		},
		Recent:  RecentConfig{Max: 10},
		Session: SessionConfig{Restore: true},
		Export: ExportConfig{
			Author:     "VATE HTML Exporter",
			Charset:    "UTF-8",
			FontFamily: "monospace",
			TabSpaces:  4,
		},
		Commands: CommandsConfig{Reveal: defaultReveal()},
	}
}

func defaultReveal() string {
	if _, err := os.Stat("/usr/bin/open"); err == nil {
		return `open -R "$VATE_FILE"`
	}
	return `xdg-open "$(dirname "$VATE_FILE")"`
}

// Load reads configuration from a TOML file and applies environment variable
// overrides. A missing file is created with the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is required")
	}

	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := cfg.Save(path); err != nil {
			return nil, err
		}
	} else if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Version == 0 {
		cfg.Version = CurrentVersion
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration as TOML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // G304: path from flags or data dir
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	if c.Version > CurrentVersion {
		errs = append(errs, fmt.Errorf("version=%d is newer than supported version %d", c.Version, CurrentVersion))
	}

	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		errs = append(errs, fmt.Errorf("editor.tab_width=%d must be between 1 and 16", c.Editor.TabWidth))
	}
	switch strings.ToLower(c.Editor.LineSeparator) {
	case "lf", "crlf", "cr":
	default:
		errs = append(errs, fmt.Errorf("editor.line_separator=%q must be lf, crlf or cr", c.Editor.LineSeparator))
	}

	if c.Font.Size < 4 || c.Font.Size > 96 {
		errs = append(errs, fmt.Errorf("font.size=%d must be between 4 and 96", c.Font.Size))
	}

	if _, ok := styles.Registry[c.Colors.SyntaxTheme]; !ok {
		errs = append(errs, fmt.Errorf("colors.syntax_theme=%q is not a known theme", c.Colors.SyntaxTheme))
	}
	for name, v := range map[string]string{
		"background":              c.Colors.Background,
		"foreground":              c.Colors.Foreground,
		"line_numbers":            c.Colors.LineNumbers,
		"line_numbers_background": c.Colors.LineNumbersBack,
		"selection":               c.Colors.Selection,
		"match_highlight":         c.Colors.MatchHighlight,
	} {
		if v != "" && !hexColor.MatchString(v) {
			errs = append(errs, fmt.Errorf("colors.%s=%q must be #rrggbb", name, v))
		}
	}

	if c.Editor.Backups < 0 {
		errs = append(errs, fmt.Errorf("editor.backups=%d must not be negative", c.Editor.Backups))
	}
	if c.Recent.Max < 0 {
		errs = append(errs, fmt.Errorf("recent.max=%d must not be negative", c.Recent.Max))
	}
	if c.Export.TabSpaces < 0 {
		errs = append(errs, fmt.Errorf("export.tab_spaces=%d must not be negative", c.Export.TabSpaces))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"VATE_SYNTAX_THEME", func(v string) {
			if v != "" {
				cfg.Colors.SyntaxTheme = v
			}
		}},
		{"VATE_LINE_SEPARATOR", func(v string) {
			if v != "" {
				cfg.Editor.LineSeparator = v
			}
		}},
		{"VATE_REVEAL_COMMAND", func(v string) {
			if v != "" {
				cfg.Commands.Reveal = v
			}
		}},
	} {
		setter.apply(os.Getenv(setter.env))
	}
}

// Remember records the open tabs for the next start.
func (s *SessionConfig) Remember(paths []string, active int) {
	s.OpenFiles = append([]string(nil), paths...)
	s.Active = active
}

// DataDir returns the path to the VATE data directory (~/.config/vate).
// VATE_DATA_DIR overrides it.
func DataDir() (string, error) {
	if dir := os.Getenv("VATE_DATA_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vate"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	return dir, nil
}

// ExportOptions builds the HTML export settings for a document. An empty
// configured title is replaced by title.
func (c *Config) ExportOptions(title, language string) export.Options {
	opts := export.Options{
		Title:      c.Export.Title,
		Author:     c.Export.Author,
		Charset:    c.Export.Charset,
		FontFamily: c.Export.FontFamily,
		TabSpaces:  c.Export.TabSpaces,
		Highlight:  c.Export.Highlight,
		Language:   language,
		Theme:      c.Colors.SyntaxTheme,
	}
	if opts.Title == "" {
		opts.Title = title
	}
	return opts
}
