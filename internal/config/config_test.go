package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Version != CurrentVersion || cfg.Editor.TabWidth != 4 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("defaults not written: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Export.Author != "VATE HTML Exporter" || again.Colors.SyntaxTheme != "vulcan" {
		t.Errorf("round trip lost values: %+v", again)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[editor]\ntab_width = 8\nline_separator = \"crlf\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Editor.TabWidth != 8 || cfg.Editor.LineSeparator != "crlf" {
		t.Errorf("editor = %+v", cfg.Editor)
	}
	if cfg.Recent.Max != 10 || cfg.Version != CurrentVersion {
		t.Errorf("defaults lost: recent=%d version=%d", cfg.Recent.Max, cfg.Version)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "version = 9\n[editor]\ntab_width = 0\n[colors]\nbackground = \"white\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load accepted an invalid config")
	}
	for _, want := range []string{"version=9", "tab_width=0", "colors.background"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestLoadRequiresPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("Load(\"\") succeeded")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VATE_SYNTAX_THEME", "monokai")
	t.Setenv("VATE_LINE_SEPARATOR", "cr")
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Colors.SyntaxTheme != "monokai" || cfg.Editor.LineSeparator != "cr" {
		t.Errorf("overrides not applied: theme=%q sep=%q", cfg.Colors.SyntaxTheme, cfg.Editor.LineSeparator)
	}
}

func TestUnknownThemeRejected(t *testing.T) {
	cfg := Default()
	cfg.Colors.SyntaxTheme = "no-such-theme"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown theme accepted")
	}
}

func TestImportLegacy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	legacy := `{
		"COLORS": {
			"TEXT_EDITOR_BACKGROUND": {"value": -1},
			"TEXT_EDITOR_FOREGROUND": {"value": -16777216},
			"LINE_NUMBERS_FOREGROUND": {"value": -8355712}
		},
		"FONTS": {"TEXT_EDITOR_FONT": "Consolas", "TEXT_EDITOR_FONT_SIZE": 18},
		"FORMATS": {"lineSeparator": "\r\n"},
		"SETTINGS": {"USE_SYSTEM_LOOK_AND_FEEL": true}
	}`
	if err := os.WriteFile(path, []byte(legacy), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	n, err := ImportLegacy(path, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if n != 6 {
		t.Errorf("imported %d settings, want 6", n)
	}
	if cfg.Colors.Background != "#ffffff" || cfg.Colors.Foreground != "#000000" || cfg.Colors.LineNumbers != "#808080" {
		t.Errorf("colors = %+v", cfg.Colors)
	}
	if cfg.Font.Family != "Consolas" || cfg.Font.Size != 18 || cfg.Editor.LineSeparator != "crlf" {
		t.Errorf("font=%+v sep=%q", cfg.Font, cfg.Editor.LineSeparator)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("imported config invalid: %v", err)
	}
}

func TestImportLegacyRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportLegacy(path, Default()); err == nil {
		t.Fatal("garbage accepted")
	}
}

func TestDataDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VATE_DATA_DIR", dir)
	got, err := DataDir()
	if err != nil || got != dir {
		t.Errorf("DataDir() = %q, %v", got, err)
	}
}
