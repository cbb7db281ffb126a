// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables,
// a .env file and an optional JSON config file.
//
// Precedence, lowest first: built-in defaults, the JSON config file,
// environment variables (a .env file in the working directory is loaded
// into the environment first), explicitly passed flags.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	cerrors "cloudeng.io/errors"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/atinyakov/GophDate/internal/locale"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Duration is a time.Duration that reads from JSON strings such as "5s".
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("duration must be a string or integer: %w", err)
	}
	*d = Duration(n)
	return nil
}

// DatabaseOptions configures the relational backend.
type DatabaseOptions struct {
	// Driver is "postgres" or "sqlite3".
	Driver string `json:"driver"`
	// DSN is the connection string. Empty selects the file backend.
	DSN string `json:"dsn"`
	// ConnectTimeout bounds the startup ping.
	ConnectTimeout Duration `json:"connect_timeout"`
}

// HistoryOptions configures calculation history retention and file naming.
type HistoryOptions struct {
	// MaxRecords is the number of most recent calculations kept per user.
	MaxRecords int `json:"max_records"`
	// FilePrefix and FileExtension name per-user history files of the file backend.
	FilePrefix    string `json:"file_prefix"`
	FileExtension string `json:"file_extension"`
}

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the loopback API listening address (ip:port).
	Port string `json:"addr"`

	// Database configures the relational backend.
	Database DatabaseOptions `json:"database"`

	// DataDir holds users.json and history files when the file backend is active.
	DataDir string `json:"data_dir"`

	// History configures retention.
	History HistoryOptions `json:"history"`

	// Locale is the display language, "en" or "uk".
	Locale string `json:"locale"`

	// LogLevel is a zap level name.
	LogLevel string `json:"log_level"`

	// TokenSecret signs API session tokens.
	TokenSecret string `json:"token_secret"`
	// TokenTTL is the lifetime of API session tokens.
	TokenTTL Duration `json:"token_ttl"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// Default returns the options used when nothing else is configured.
func Default() *Options {
	return &Options{
		Port: "127.0.0.1:8080",
		Database: DatabaseOptions{
			Driver:         DriverPostgres,
			ConnectTimeout: Duration(5 * time.Second),
		},
		DataDir: ".",
		History: HistoryOptions{
			MaxRecords:    10,
			FilePrefix:    "calculations_",
			FileExtension: ".json",
		},
		Locale:   string(locale.English),
		LogLevel: "info",
		TokenTTL: Duration(24 * time.Hour),
		Config:   "config.json",
	}
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values. Invalid configuration is fatal.
func Parse() *Options {
	options, err := Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return options
}

// Load builds Options from args parsed with fs, the environment and the config file.
func Load(fs *flag.FlagSet, args []string) (*Options, error) {
	options := Default()
	flags := *options

	fs.StringVar(&flags.Port, "a", options.Port, "loopback API ip:port")
	fs.StringVar(&flags.Database.Driver, "driver", options.Database.Driver, "database driver: postgres | sqlite3")
	fs.StringVar(&flags.Database.DSN, "d", "", "database DSN; empty uses the file backend")
	fs.StringVar(&flags.DataDir, "data", options.DataDir, "directory of the file backend")
	fs.IntVar(&flags.History.MaxRecords, "history", options.History.MaxRecords, "calculations kept per user")
	fs.StringVar(&flags.Locale, "locale", options.Locale, "display language: en | uk")
	fs.StringVar(&flags.LogLevel, "log-level", options.LogLevel, "log level")
	fs.StringVar(&flags.Config, "config", options.Config, "path to config file")
	fs.StringVar(&flags.Config, "c", options.Config, "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// .env is optional
	_ = godotenv.Load()

	options.Config = flags.Config
	if configPath := os.Getenv("CONFIG"); configPath != "" && !set["config"] && !set["c"] {
		options.Config = configPath
	}
	if err := loadFile(options); err != nil {
		return nil, err
	}

	if err := applyEnv(options); err != nil {
		return nil, err
	}

	if set["a"] {
		options.Port = flags.Port
	}
	if set["driver"] {
		options.Database.Driver = flags.Database.Driver
	}
	if set["d"] {
		options.Database.DSN = flags.Database.DSN
	}
	if set["data"] {
		options.DataDir = flags.DataDir
	}
	if set["history"] {
		options.History.MaxRecords = flags.History.MaxRecords
	}
	if set["locale"] {
		options.Locale = flags.Locale
	}
	if set["log-level"] {
		options.LogLevel = flags.LogLevel
	}

	if err := options.Validate(); err != nil {
		return nil, err
	}
	return options, nil
}

func loadFile(options *Options) error {
	if options.Config == "" {
		return nil
	}
	if _, err := os.Stat(options.Config); err != nil {
		return nil
	}
	data, err := os.ReadFile(options.Config)
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	path := options.Config
	if err := json.Unmarshal(data, options); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	options.Config = path
	return nil
}

func applyEnv(options *Options) error {
	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		options.Port = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		options.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		options.Database.DSN = v
	}
	if v := os.Getenv("DATABASE_CONNECT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DATABASE_CONNECT_TIMEOUT: %w", err)
		}
		options.Database.ConnectTimeout = Duration(d)
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		options.DataDir = v
	}
	if v := os.Getenv("HISTORY_MAX_RECORDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HISTORY_MAX_RECORDS: %w", err)
		}
		options.History.MaxRecords = n
	}
	if v := os.Getenv("LOCALE"); v != "" {
		options.Locale = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		options.LogLevel = v
	}
	if v := os.Getenv("TOKEN_SECRET"); v != "" {
		options.TokenSecret = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TOKEN_TTL: %w", err)
		}
		options.TokenTTL = Duration(d)
	}
	return nil
}

// Validate reports every invalid option at once.
func (o *Options) Validate() error {
	errs := &cerrors.M{}
	switch o.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs.Append(fmt.Errorf("database driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, o.Database.Driver))
	}
	if o.Database.ConnectTimeout <= 0 {
		errs.Append(fmt.Errorf("database connect timeout must be positive, got %s", time.Duration(o.Database.ConnectTimeout)))
	}
	if o.DataDir == "" {
		errs.Append(fmt.Errorf("data dir is required"))
	}
	if o.History.MaxRecords < 1 {
		errs.Append(fmt.Errorf("history max records must be at least 1, got %d", o.History.MaxRecords))
	}
	if o.History.FilePrefix == "" && o.History.FileExtension == "" {
		errs.Append(fmt.Errorf("history file prefix or extension is required"))
	}
	if _, err := locale.Parse(o.Locale); err != nil {
		errs.Append(err)
	}
	if _, err := zapcore.ParseLevel(o.LogLevel); err != nil {
		errs.Append(fmt.Errorf("log level: %w", err))
	}
	if o.TokenTTL <= 0 {
		errs.Append(fmt.Errorf("token ttl must be positive, got %s", time.Duration(o.TokenTTL)))
	}
	return errs.Err()
}

// Lang returns the parsed display locale. Validate guarantees it parses.
func (o *Options) Lang() locale.Locale {
	l, err := locale.Parse(o.Locale)
	if err != nil {
		return locale.English
	}
	return l
}
