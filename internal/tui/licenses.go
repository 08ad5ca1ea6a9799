package tui

import (
	"fmt"
	"runtime/debug"
	"strings"
)

const licensesTitle = "Licenses"

type usedSoftware struct {
	module  string
	license string
}

var usedSoftwareList = []usedSoftware{
	{"charm.land/bubbles/v2", "MIT"},
	{"charm.land/bubbletea/v2", "MIT"},
	{"charm.land/lipgloss/v2", "MIT"},
	{"github.com/BurntSushi/toml", "MIT"},
	{"github.com/alecthomas/chroma/v2", "MIT"},
	{"github.com/charmbracelet/x/ansi", "MIT"},
	{"github.com/fsnotify/fsnotify", "BSD-3-Clause"},
	{"github.com/google/uuid", "BSD-3-Clause"},
	{"github.com/hexops/gotextdiff", "BSD-3-Clause"},
	{"github.com/rs/zerolog", "MIT"},
	{"github.com/tidwall/gjson", "MIT"},
	{"golang.org/x/net", "BSD-3-Clause"},
	{"golang.org/x/text", "BSD-3-Clause"},
	{"modernc.org/sqlite", "BSD-3-Clause"},
	{"mvdan.cc/sh/v3", "BSD-3-Clause"},
}

var licensesText = renderLicenses()

// renderLicenses lists the used software with the versions linked into
// the binary when build info is available.
func renderLicenses() string {
	versions := map[string]string{}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, d := range bi.Deps {
			versions[d.Path] = d.Version
		}
	}
	var b strings.Builder
	b.WriteString("VATE uses the following software.\n\n")
	for _, s := range usedSoftwareList {
		v := versions[s.module]
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(&b, "%-36s %-12s %s\n", s.module, s.license, v)
		fmt.Fprintf(&b, "    https://pkg.go.dev/%s\n", s.module)
	}
	return b.String()
}
