// Package config loads resumekit settings from a TOML file, a .env file and
// the environment.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/vinayprograms/resumekit/errors"
	"github.com/vinayprograms/resumekit/logging"
	"github.com/vinayprograms/resumekit/store"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendNATS   = "nats"
)

// Environment variables applied over the file settings.
const (
	EnvStoreBackend = "RESUMEKIT_STORE_BACKEND"
	EnvDataFile     = "RESUMEKIT_DATA_FILE"
	EnvNATSURL      = "RESUMEKIT_NATS_URL"
	EnvNATSBucket   = "RESUMEKIT_NATS_BUCKET"
	EnvLogLevel     = "RESUMEKIT_LOG_LEVEL"
	EnvOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// Config holds all settings.
type Config struct {
	Store     StoreConfig     `toml:"store"`
	Log       LogConfig       `toml:"log"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// StoreConfig selects and configures the backing store.
type StoreConfig struct {
	// Backend is "file", "memory" or "nats".
	Backend string `toml:"backend"`

	// Path is the document file for the file backend.
	Path string `toml:"path"`

	NATSURL    string `toml:"nats_url"`
	NATSBucket string `toml:"nats_bucket"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// TelemetryConfig configures tracing and mutation events.
type TelemetryConfig struct {
	// Enabled turns on OTLP trace export.
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
	Protocol string `toml:"protocol"` // grpc | http
	Insecure bool   `toml:"insecure"`

	// Headers are sent with every OTLP export, e.g. an authorization token.
	Headers map[string]string `toml:"headers"`

	// ExportTimeout bounds one OTLP export, written as a duration ("10s").
	ExportTimeout time.Duration `toml:"export_timeout"`

	// Debug records search queries on spans.
	Debug bool `toml:"debug"`

	// Events selects the mutation event exporter: noop, file or http.
	Events         string `toml:"events"`
	EventsEndpoint string `toml:"events_endpoint"`
}

// Default returns the settings used when no file is found.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:    BackendFile,
			Path:       store.DefaultPath,
			NATSURL:    "nats://127.0.0.1:4222",
			NATSBucket: "resumes",
		},
		Log: LogConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			Protocol: "grpc",
			Insecure: true,
			Events:   "noop",
		},
	}
}

// StandardPaths returns the config file locations in order of priority.
func StandardPaths() []string {
	paths := []string{"resumekit.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "resumekit", "config.toml"))
	}
	return paths
}

// Load builds the configuration. A .env file in the working directory is
// loaded into the environment first. If path is empty the first existing
// standard path is used; no file at all yields the defaults. Environment
// variables override file values. The returned path is the file used, if
// any.
func Load(path string) (*Config, string, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, "", err
	}

	if path == "" {
		for _, p := range StandardPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, path, err
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// LoadDotEnv loads KEY=VALUE lines into the environment without overriding
// variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return errors.WrapWithCode(err, errors.ErrCodeInvalidInput, "load .env")
	}
	return nil
}

// LoadFile decodes a TOML file over the defaults. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCodeInvalidInput, "decode "+path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.InvalidInput("unknown config keys in "+path+": "+strings.Join(keys, ", "),
			errors.WithMetadata("path", path))
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables that are set and
// non-empty.
func (c *Config) ApplyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Store.Backend, EnvStoreBackend)
	set(&c.Store.Path, EnvDataFile)
	set(&c.Store.NATSURL, EnvNATSURL)
	set(&c.Store.NATSBucket, EnvNATSBucket)
	set(&c.Log.Level, EnvLogLevel)
	set(&c.Telemetry.Endpoint, EnvOTLPEndpoint)
}

// Validate rejects unknown backends, protocols, exporters and levels.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile:
		if c.Store.Path == "" {
			return errors.InvalidInput("file backend requires store.path", errors.WithField("store.path"))
		}
	case BackendMemory:
	case BackendNATS:
		if c.Store.NATSURL == "" || c.Store.NATSBucket == "" {
			return errors.InvalidInput("nats backend requires store.nats_url and store.nats_bucket", errors.WithField("store.nats_url"))
		}
	default:
		return invalid("store.backend", c.Store.Backend)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", c.Log.Level)
	}

	switch c.Telemetry.Protocol {
	case "grpc", "http":
	default:
		return invalid("telemetry.protocol", c.Telemetry.Protocol)
	}

	if c.Telemetry.ExportTimeout < 0 {
		return invalid("telemetry.export_timeout", c.Telemetry.ExportTimeout.String())
	}
	for k := range c.Telemetry.Headers {
		if strings.TrimSpace(k) == "" {
			return errors.InvalidInput("telemetry.headers has an empty header name", errors.WithField("telemetry.headers"))
		}
	}

	switch c.Telemetry.Events {
	case "noop", "":
	case "file", "http":
		if c.Telemetry.EventsEndpoint == "" {
			return errors.InvalidInput(c.Telemetry.Events+" events require telemetry.events_endpoint",
				errors.WithField("telemetry.events_endpoint"))
		}
	default:
		return invalid("telemetry.events", c.Telemetry.Events)
	}
	return nil
}

func invalid(key, value string) error {
	return errors.InvalidInput("invalid "+key+": \""+value+"\"", errors.WithField(key))
}
