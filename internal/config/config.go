// Package config handles configuration loading and defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultLatency     = time.Second
	DefaultDebounce    = 500 * time.Millisecond
	DefaultSubmitDelay = time.Second
	DefaultTheme       = "classic"
)

// Duration is a time.Duration that reads "500ms" style strings from TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config holds the full configuration for learn.
type Config struct {
	// Mock API
	Latency   Duration `toml:"latency"`
	FailList  bool     `toml:"fail_list"`
	LegacyIDs bool     `toml:"legacy_ids"`
	SeedFile  string   `toml:"seed_file"`

	// Query layer
	Debounce Duration `toml:"debounce"`
	GCTime   Duration `toml:"gc_time"`

	// Forms
	SubmitDelay Duration `toml:"submit_delay"`
	FailSubmit  bool     `toml:"fail_submit"`

	// Output
	Theme     string `toml:"theme"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogFile   string `toml:"log_file"`

	// Path of the file the values came from, if any.
	File string `toml:"-"`
}

// Load builds the configuration in priority order:
// 1. Defaults
// 2. Project config file (learn.toml or .learn.toml, or $LEARN_CONFIG)
// 3. Environment variables (LEARN_*)
// 4. CLI flags
//
// It returns the arguments left after flag parsing.
func Load(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if path := findConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.File = path
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, nil, err
	}

	if fs == nil {
		fs = flag.NewFlagSet("learn", flag.ContinueOnError)
	}
	bindFlags(cfg, fs)
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

func setDefaults(cfg *Config) {
	cfg.Latency = Duration{DefaultLatency}
	cfg.Debounce = Duration{DefaultDebounce}
	cfg.SubmitDelay = Duration{DefaultSubmitDelay}
	cfg.Theme = DefaultTheme
	cfg.LogLevel = "info"
	cfg.LogFormat = "text"
}

func findConfigFile() string {
	if p := strings.TrimSpace(os.Getenv("LEARN_CONFIG")); p != "" {
		return p
	}
	for _, name := range []string{"learn.toml", ".learn.toml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func loadFromEnv(cfg *Config) error {
	durations := map[string]*Duration{
		"LEARN_LATENCY":      &cfg.Latency,
		"LEARN_DEBOUNCE":     &cfg.Debounce,
		"LEARN_GC_TIME":      &cfg.GCTime,
		"LEARN_SUBMIT_DELAY": &cfg.SubmitDelay,
	}
	for key, dst := range durations {
		if v, ok := os.LookupEnv(key); ok {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
	}

	bools := map[string]*bool{
		"LEARN_FAIL_LIST":   &cfg.FailList,
		"LEARN_FAIL_SUBMIT": &cfg.FailSubmit,
		"LEARN_LEGACY_IDS":  &cfg.LegacyIDs,
	}
	for key, dst := range bools {
		if v, ok := os.LookupEnv(key); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: invalid bool %q", key, v)
			}
			*dst = b
		}
	}

	strs := map[string]*string{
		"LEARN_SEED_FILE":  &cfg.SeedFile,
		"LEARN_THEME":      &cfg.Theme,
		"LEARN_LOG_LEVEL":  &cfg.LogLevel,
		"LEARN_LOG_FORMAT": &cfg.LogFormat,
		"LEARN_LOG_FILE":   &cfg.LogFile,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	return nil
}

// bindFlags registers flags whose defaults are the values loaded so far,
// so only flags given on the command line change anything.
func bindFlags(cfg *Config, fs *flag.FlagSet) {
	fs.DurationVar(&cfg.Latency.Duration, "latency", cfg.Latency.Duration, "simulated API latency")
	fs.DurationVar(&cfg.Debounce.Duration, "debounce", cfg.Debounce.Duration, "search debounce period")
	fs.DurationVar(&cfg.GCTime.Duration, "gc-time", cfg.GCTime.Duration, "how long unused query results stay cached")
	fs.DurationVar(&cfg.SubmitDelay.Duration, "submit-delay", cfg.SubmitDelay.Duration, "simulated form submit latency")
	fs.BoolVar(&cfg.FailList, "fail-list", cfg.FailList, "make the todo list call fail")
	fs.BoolVar(&cfg.FailSubmit, "fail-submit", cfg.FailSubmit, "make the login submit fail")
	fs.BoolVar(&cfg.LegacyIDs, "legacy-ids", cfg.LegacyIDs, "assign ids as length+1")
	fs.StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "JSON file with the initial todos")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "classic, neon or mono")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text, logfmt or json")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "diagnostic log destination (- for stderr)")
}

func (c *Config) validate() error {
	for name, d := range map[string]time.Duration{
		"latency":      c.Latency.Duration,
		"debounce":     c.Debounce.Duration,
		"gc_time":      c.GCTime.Duration,
		"submit_delay": c.SubmitDelay.Duration,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, d)
		}
	}
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	return nil
}
