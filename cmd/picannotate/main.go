package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/example/picannotate/internal/annotation"
	"github.com/example/picannotate/internal/config"
	"github.com/example/picannotate/internal/notify"
	"github.com/example/picannotate/internal/stage"
	"github.com/example/picannotate/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	notifier     *notify.Notifier
	config       *config.Config
	logger       *slog.Logger
	copyAlerts   bool
	exportAlerts bool
	loadAlerts   bool
	themeName    string
	logLevel     string
	activeTheme  *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		log.Printf("warning: failed to load config: %v", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("picannotate", flag.ExitOnError),
		program:  "picannotate",
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting a render")
	r.fs.BoolVar(&r.loadAlerts, "notify-load", cfg.Notify.Load, "show a desktop notification when an image finishes loading")
	r.fs.StringVar(&r.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.Builtin(), ", ")+")")
	r.fs.Usage = usageFunc(r)
	return r
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// resolveTheme applies the CLI > env > config > default precedence.
func (r *root) resolveTheme() *theme.Theme {
	names := []string{r.themeName, os.Getenv("PICANNOTATE_THEME"), r.config.Theme}
	t, err := theme.NewLoader().Resolve(r.config.Themes, names...)
	if err != nil {
		log.Printf("warning: %v. using default.", err)
		return theme.Default()
	}
	return t
}

// stageOptions turns the configuration into stage options shared by the
// window and the headless renderer.
func (r *root) stageOptions() ([]stage.Option, error) {
	cfg := r.config
	gen, ok := annotation.ParseIDStyle(cfg.IDStyle)
	if !ok {
		return nil, fmt.Errorf("unknown id_style %q", cfg.IDStyle)
	}
	opts := []stage.Option{
		stage.WithTheme(r.activeTheme),
		stage.WithScrollSpeed(cfg.ScrollSpeed),
		stage.WithScaleLimits(cfg.MinScale, cfg.MaxScale),
		stage.WithMarginWithInput(cfg.MarginWithInput),
		stage.WithIDGenerator(gen),
		stage.WithLogger(r.logger),
	}
	if cfg.DefaultSize != nil {
		opts = append(opts, stage.WithDefaultSize(*cfg.DefaultSize))
	}
	return opts, nil
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	level, err := parseLevel(r.logLevel)
	if err != nil {
		return err
	}
	r.logger = NewLogger(level)
	if r.notifier != nil {
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventExport, r.exportAlerts)
		r.notifier.Enable(notify.EventLoad, r.loadAlerts)
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "annotate":
		cmd, err = parseAnnotateCmd(subArgs, r)
	case "render":
		cmd, err = parseRenderCmd(subArgs, r)
	case "themes":
		cmd, err = parseThemesCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &root{
		program:      program,
		notifier:     r.notifier,
		config:       r.config,
		logger:       r.logger,
		copyAlerts:   r.copyAlerts,
		exportAlerts: r.exportAlerts,
		loadAlerts:   r.loadAlerts,
		themeName:    r.themeName,
		logLevel:     r.logLevel,
		activeTheme:  r.activeTheme,
	}
}
