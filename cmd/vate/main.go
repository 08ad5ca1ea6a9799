// Package main is the entry point for the VATE editor.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/vate/internal/buffer"
	"github.com/xonecas/vate/internal/config"
	"github.com/xonecas/vate/internal/export"
	"github.com/xonecas/vate/internal/filesearch"
	"github.com/xonecas/vate/internal/highlight"
	"github.com/xonecas/vate/internal/shell"
	"github.com/xonecas/vate/internal/store"
	"github.com/xonecas/vate/internal/tui"
	"github.com/xonecas/vate/internal/watch"
)

const (
	historyRetention = 90 * 24 * time.Hour
	watchDebounce    = 150 * time.Millisecond
)

type options struct {
	configPath   string
	dataDir      string
	logLevel     string
	importLegacy string
	exportHTML   string
	noRestore    bool
	files        []string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if opts.dataDir != "" {
		_ = os.Setenv("VATE_DATA_DIR", opts.dataDir)
	}
	dataDir, err := config.EnsureDataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: data directory: %v\n", err)
		return 1
	}

	logFile, err := setupLogging(dataDir, opts.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logFile.Close()

	if opts.configPath == "" {
		opts.configPath = filepath.Join(dataDir, "config.toml")
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: config: %v\n", err)
		return 1
	}

	if opts.importLegacy != "" {
		n, err := config.ImportLegacy(opts.importLegacy, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: import %s: %v\n", opts.importLegacy, err)
			return 1
		}
		if err := cfg.Save(opts.configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: save config: %v\n", err)
			return 1
		}
		fmt.Printf("Imported %d settings into %s\n", n, opts.configPath)
		return 0
	}

	if opts.exportHTML != "" {
		return exportFile(cfg, opts)
	}

	files := opts.files
	if len(files) == 0 && cfg.Session.Restore && !opts.noRestore {
		for _, p := range cfg.Session.OpenFiles {
			if _, err := os.Stat(p); err == nil {
				files = append(files, p)
			}
		}
	}

	st, err := store.Open(filepath.Join(dataDir, "vate.db"), historyRetention)
	if err != nil {
		log.Warn().Err(err).Msg("store unavailable, history and recent files are off")
	}
	defer st.Close()

	w, err := watch.New(watchDebounce)
	if err != nil {
		log.Warn().Err(err).Msg("file watcher unavailable")
	} else {
		defer w.Close()
	}

	wd, _ := os.Getwd()
	searcher, err := filesearch.NewSearcher(wd)
	if err != nil {
		log.Warn().Err(err).Msg("file search unavailable")
	}

	m := tui.New(tui.Options{
		Config:     cfg,
		ConfigPath: opts.configPath,
		Store:      st,
		Watcher:    w,
		Shell:      shell.New(wd, shell.DefaultBlockFuncs()),
		Searcher:   searcher,
		Files:      files,
	})

	log.Info().Int("files", len(files)).Str("config", opts.configPath).Msg("starting")
	p := tea.NewProgram(m, tea.WithFilter(tui.MouseEventFilter))
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("program exited with error")
		fmt.Fprintf(os.Stderr, "Error running vate: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (default <data dir>/config.toml)")
	flag.StringVar(&opts.dataDir, "data-dir", "", "Data directory (default ~/.config/vate)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); default VATE_LOG_LEVEL or info")
	flag.StringVar(&opts.importLegacy, "import-legacy", "", "Import settings from a legacy JSON config and exit")
	flag.StringVar(&opts.exportHTML, "export-html", "", "Export the first file as HTML to this path and exit")
	flag.BoolVar(&opts.noRestore, "no-restore", false, "Do not reopen the files of the last session")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "VATE - tabbed text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: vate [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	opts.files = flag.Args()

	if opts.logLevel == "" {
		opts.logLevel = os.Getenv("VATE_LOG_LEVEL")
	}
	if opts.logLevel == "" {
		opts.logLevel = "info"
	}
	return opts
}

// setupLogging points the global logger at <dataDir>/vate.log; the terminal
// belongs to the UI.
func setupLogging(dataDir, level string) (*os.File, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	f, err := os.OpenFile(filepath.Join(dataDir, "vate.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return f, nil
}

// exportFile writes the first file argument as an HTML page.
func exportFile(cfg *config.Config, opts options) int {
	if len(opts.files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: --export-html needs a file to export")
		return 2
	}
	src := opts.files[0]
	buf, err := buffer.Load(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	eo := cfg.ExportOptions(buf.File().NameWithExt(), highlight.DetectLanguage(src))
	eo.LineSeparator = buf.LineEnding().Sequence()
	if err := export.WriteFile(opts.exportHTML, buf.Text(), eo); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	log.Info().Str("src", src).Str("dst", opts.exportHTML).Msg("exported")
	return 0
}
