package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/atomicstack/xdialog/internal/app"
	"github.com/atomicstack/xdialog/internal/bus"
	"github.com/atomicstack/xdialog/internal/dialog"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Settings Settings
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

// Settings is the layered, by-name form of the configuration. Each field
// can come from the YAML file, from XDIALOG_<NAME> in the environment, or
// from a flag, in increasing order of precedence.
type Settings struct {
	Backend      string        `yaml:"backend" env:"BACKEND"`
	Theme        string        `yaml:"theme" env:"THEME"`
	Webview      string        `yaml:"webview" env:"WEBVIEW"`
	PollInterval time.Duration `yaml:"poll_interval" env:"POLL_INTERVAL"`
	Silent       bool          `yaml:"silent" env:"SILENT"`
	Width        int           `yaml:"width" env:"WIDTH"`
	AltScreen    bool          `yaml:"alt_screen" env:"ALT_SCREEN"`
	Listen       string        `yaml:"listen" env:"LISTEN"`
	Answer       string        `yaml:"answer" env:"ANSWER"`
	AnswerDelay  time.Duration `yaml:"answer_delay" env:"ANSWER_DELAY"`
	Demo         string        `yaml:"demo" env:"DEMO"`
	LogFile      string        `yaml:"log_file" env:"LOG_FILE"`
	Trace        bool          `yaml:"trace" env:"TRACE"`
}

const (
	envPrefix = "XDIALOG_"
	envConfig = envPrefix + "CONFIG"
)

// Defaults returns the settings used when nothing else is configured.
func Defaults() Settings {
	return Settings{
		Backend:      dialog.BackendAutomatic.String(),
		Theme:        dialog.ThemeSystemDefault.String(),
		Webview:      app.WebviewAuto.String(),
		PollInterval: bus.DefaultPollInterval,
		Listen:       "127.0.0.1:0",
		Demo:         "all",
	}
}

// Load parses configuration from CLI arguments, environment variables and
// the optional config file.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	vars := parseEnv(environ)

	fs := flag.NewFlagSet("xdialog", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	defaults := Defaults()
	configPath := fs.String("config", vars[envConfig], "path to a YAML config file")
	backend := fs.String("backend", defaults.Backend, "dialog backend: auto, tui or headless")
	themeName := fs.String("theme", defaults.Theme, "dialog theme: system, windows, ubuntu, macos-light or macos-dark")
	webview := fs.String("webview", defaults.Webview, "webview engine: auto, browser, headless or none")
	poll := fs.Duration("poll-interval", defaults.PollInterval, "how often callers look for a dialog result")
	silent := fs.Bool("silent", defaults.Silent, "suppress every message and progress dialog")
	width := fs.Int("width", defaults.Width, "terminal dialog width in cells (0 uses terminal width)")
	altScreen := fs.Bool("alt-screen", defaults.AltScreen, "draw terminal dialogs on the alternate screen")
	listen := fs.String("listen", defaults.Listen, "loopback address of the browser webview engine")
	answer := fs.String("answer", defaults.Answer, "headless: button to press (label, index or fragment)")
	answerDelay := fs.Duration("answer-delay", defaults.AnswerDelay, "headless: time taken to answer")
	demo := fs.String("demo", defaults.Demo, "demo to run: message, progress, webview or all")
	logFile := fs.String("log-file", defaults.LogFile, "path to the log file")
	trace := fs.Bool("trace", defaults.Trace, "enable verbose JSON trace logging")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	settings := defaults
	if *configPath != "" {
		if err := loadFile(*configPath, &settings); err != nil {
			return Config{}, err
		}
	}
	if err := env.ParseWithOptions(&settings, env.Options{Environment: vars, Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("environment: %w", err)
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	overrideString(set, "backend", &settings.Backend, *backend)
	overrideString(set, "theme", &settings.Theme, *themeName)
	overrideString(set, "webview", &settings.Webview, *webview)
	overrideString(set, "listen", &settings.Listen, *listen)
	overrideString(set, "answer", &settings.Answer, *answer)
	overrideString(set, "demo", &settings.Demo, *demo)
	overrideString(set, "log-file", &settings.LogFile, *logFile)
	if set["poll-interval"] {
		settings.PollInterval = *poll
	}
	if set["answer-delay"] {
		settings.AnswerDelay = *answerDelay
	}
	if set["width"] {
		settings.Width = *width
	}
	if set["silent"] {
		settings.Silent = *silent
	}
	if set["alt-screen"] {
		settings.AltScreen = *altScreen
	}
	if set["trace"] {
		settings.Trace = *trace
	}

	appCfg, err := settings.resolve()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: appCfg,
		Logging: Logging{
			FilePath: settings.LogFile,
			Trace:    settings.Trace,
		},
		Settings: settings,
		Flags: map[string]string{
			"config":       *configPath,
			"backend":      settings.Backend,
			"theme":        settings.Theme,
			"webview":      settings.Webview,
			"pollInterval": settings.PollInterval.String(),
			"silent":       strconv.FormatBool(settings.Silent),
			"width":        strconv.Itoa(settings.Width),
			"answer":       settings.Answer,
			"demo":         settings.Demo,
			"trace":        strconv.FormatBool(settings.Trace),
			"logFile":      settings.LogFile,
		},
		Args: append([]string(nil), args...),
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, settings *Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (s Settings) resolve() (app.Config, error) {
	backend, err := dialog.ParseBackend(s.Backend)
	if err != nil {
		return app.Config{}, err
	}
	th, err := dialog.ParseTheme(s.Theme)
	if err != nil {
		return app.Config{}, err
	}
	webview, err := app.ParseWebview(s.Webview)
	if err != nil {
		return app.Config{}, err
	}
	return app.Config{
		Backend:      backend,
		Theme:        th,
		Webview:      webview,
		PollInterval: s.PollInterval,
		Silent:       s.Silent,
		Width:        s.Width,
		AltScreen:    s.AltScreen,
		Listen:       s.Listen,
		Answer:       s.Answer,
		AnswerDelay:  s.AnswerDelay,
	}, nil
}

func overrideString(set map[string]bool, name string, dst *string, value string) {
	if set[name] {
		*dst = value
	}
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

var demos = map[string]bool{"message": true, "progress": true, "webview": true, "all": true}

// Validate ensures the resolved configuration is usable.
func Validate(cfg Config) error {
	var errs []error
	if cfg.App.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll interval must be > 0 (got %s)", cfg.App.PollInterval))
	}
	if cfg.App.Width < 0 {
		errs = append(errs, fmt.Errorf("width must be >= 0 (got %d)", cfg.App.Width))
	}
	if cfg.App.AnswerDelay < 0 {
		errs = append(errs, fmt.Errorf("answer delay must be >= 0 (got %s)", cfg.App.AnswerDelay))
	}
	if cfg.Settings.Demo != "" && !demos[cfg.Settings.Demo] {
		errs = append(errs, fmt.Errorf("unknown demo %q", cfg.Settings.Demo))
	}
	return errors.Join(errs...)
}
