package config

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// legacyColors maps color keys of the old JSON config to setters.
var legacyColors = []struct {
	path  string
	apply func(*Config, string)
}{
	{"COLORS.TEXT_EDITOR_BACKGROUND", func(c *Config, v string) { c.Colors.Background = v }},
	{"COLORS.TEXT_EDITOR_FOREGROUND", func(c *Config, v string) { c.Colors.Foreground = v }},
	{"COLORS.LINE_NUMBERS_FOREGROUND", func(c *Config, v string) { c.Colors.LineNumbers = v }},
	{"COLORS.LINE_NUMBERS_BACKGROUND", func(c *Config, v string) { c.Colors.LineNumbersBack = v }},
}

// ImportLegacy reads a JSON config written by the previous VATE release and
// copies the settings it knows about onto cfg. Unknown keys are ignored.
// It returns the number of settings imported.
func ImportLegacy(path string, cfg *Config) (int, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path given on the command line
	if err != nil {
		return 0, fmt.Errorf("read legacy config: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return 0, fmt.Errorf("legacy config %s is not valid JSON", path)
	}

	n := 0
	for _, lc := range legacyColors {
		// Colors were serialized as {"value": <ARGB int>}.
		v := gjson.GetBytes(data, lc.path+".value")
		if !v.Exists() {
			continue
		}
		lc.apply(cfg, argbToHex(v.Int()))
		n++
	}

	if v := gjson.GetBytes(data, "FONTS.TEXT_EDITOR_FONT"); v.Exists() && v.String() != "" {
		cfg.Font.Family = v.String()
		cfg.Export.FontFamily = v.String()
		n++
	}
	if v := gjson.GetBytes(data, "FONTS.TEXT_EDITOR_FONT_SIZE"); v.Exists() && v.Int() > 0 {
		cfg.Font.Size = int(v.Int())
		n++
	}
	if v := gjson.GetBytes(data, "FORMATS.lineSeparator"); v.Exists() {
		switch v.String() {
		case "\r\n":
			cfg.Editor.LineSeparator = "crlf"
		case "\r":
			cfg.Editor.LineSeparator = "cr"
		default:
			cfg.Editor.LineSeparator = "lf"
		}
		n++
	}
	return n, nil
}

func argbToHex(v int64) string {
	return fmt.Sprintf("#%06x", uint32(v)&0xffffff) //nolint:gosec // ARGB packed in a Java int
}
