package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vinayprograms/resumekit/errors"
)

// clearEnv blanks every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvStoreBackend, EnvDataFile, EnvNATSURL, EnvNATSBucket, EnvLogLevel, EnvOTLPEndpoint} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStandardPaths(t *testing.T) {
	paths := StandardPaths()
	if len(paths) < 1 {
		t.Fatal("expected at least 1 standard path")
	}
	if paths[0] != "resumekit.toml" {
		t.Errorf("first path should be resumekit.toml, got %s", paths[0])
	}
	if len(paths) > 1 && !strings.HasSuffix(paths[1], filepath.Join(".config", "resumekit", "config.toml")) {
		t.Errorf("second path = %s", paths[1])
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Store.Backend != BackendFile || cfg.Store.Path != "resumes.json" {
		t.Errorf("unexpected store defaults: %+v", cfg.Store)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "resumekit.toml", `
[store]
backend = "nats"
nats_url = "nats://queue:4222"
nats_bucket = "cv"

[log]
level = "debug"

[telemetry]
enabled = true
endpoint = "collector:4318"
protocol = "http"
events = "file"
events_endpoint = "/var/log/resumes.jsonl"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Store.Backend != BackendNATS || cfg.Store.NATSURL != "nats://queue:4222" || cfg.Store.NATSBucket != "cv" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Store.Path != "resumes.json" {
		t.Errorf("unset keys should keep defaults, path = %q", cfg.Store.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.Protocol != "http" || cfg.Telemetry.Events != "file" {
		t.Errorf("telemetry = %+v", cfg.Telemetry)
	}
	if !cfg.Telemetry.Insecure {
		t.Error("insecure should default to true")
	}
}

func TestLoadFile_TelemetryExport(t *testing.T) {
	path := writeFile(t, t.TempDir(), "resumekit.toml", `
[telemetry]
enabled = true
endpoint = "collector:4317"
export_timeout = "2s500ms"
debug = true

[telemetry.headers]
authorization = "Bearer abc"
x-tenant = "hr"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Telemetry.ExportTimeout != 2500*time.Millisecond {
		t.Errorf("export_timeout = %v", cfg.Telemetry.ExportTimeout)
	}
	if !cfg.Telemetry.Debug {
		t.Error("debug should be true")
	}
	if len(cfg.Telemetry.Headers) != 2 || cfg.Telemetry.Headers["authorization"] != "Bearer abc" || cfg.Telemetry.Headers["x-tenant"] != "hr" {
		t.Errorf("headers = %v", cfg.Telemetry.Headers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	defaults := Default()
	if defaults.Telemetry.Debug || defaults.Telemetry.ExportTimeout != 0 || len(defaults.Telemetry.Headers) != 0 {
		t.Errorf("export options should be off by default: %+v", defaults.Telemetry)
	}
}

func TestLoadFile_BadExportTimeout(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.toml", `
[telemetry]
export_timeout = "soon"
`)
	if _, err := LoadFile(path); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestLoadFile_UnknownKey(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.toml", `
[store]
backnd = "file"
`)
	_, err := LoadFile(path)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if !strings.Contains(err.Error(), "store.backnd") {
		t.Errorf("error should name the key: %v", err)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.toml", "[store\nbackend=")
	if _, err := LoadFile(path); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "c.toml", `
[store]
path = "from-file.json"
`)
	t.Setenv(EnvDataFile, "from-env.json")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvOTLPEndpoint, "otel:4317")

	cfg, used, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if used != path {
		t.Errorf("used = %q, want %q", used, path)
	}
	if cfg.Store.Path != "from-env.json" {
		t.Errorf("path = %q, env should win", cfg.Store.Path)
	}
	if cfg.Log.Level != "warn" || cfg.Telemetry.Endpoint != "otel:4317" {
		t.Errorf("env not applied: %+v %+v", cfg.Log, cfg.Telemetry)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvStoreBackend, "postgres")

	path := writeFile(t, t.TempDir(), "c.toml", "")
	_, _, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "RESUMEKIT_TEST_ONLY=from-dotenv\nRESUMEKIT_TEST_KEEP=from-dotenv\n")

	t.Setenv("RESUMEKIT_TEST_ONLY", "")
	os.Unsetenv("RESUMEKIT_TEST_ONLY")
	t.Setenv("RESUMEKIT_TEST_KEEP", "from-env")

	if err := LoadDotEnv(envFile, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := os.Getenv("RESUMEKIT_TEST_ONLY"); got != "from-dotenv" {
		t.Errorf("RESUMEKIT_TEST_ONLY = %q", got)
	}
	if got := os.Getenv("RESUMEKIT_TEST_KEEP"); got != "from-env" {
		t.Errorf(".env must not override existing variables, got %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown backend", func(c *Config) { c.Store.Backend = "s3" }, "store.backend"},
		{"empty path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"nats without bucket", func(c *Config) { c.Store.Backend = BackendNATS; c.Store.NATSBucket = "" }, "store.nats_url"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad protocol", func(c *Config) { c.Telemetry.Protocol = "udp" }, "telemetry.protocol"},
		{"bad events", func(c *Config) { c.Telemetry.Events = "kafka" }, "telemetry.events"},
		{"negative export timeout", func(c *Config) { c.Telemetry.ExportTimeout = -time.Second }, "telemetry.export_timeout"},
		{"empty header name", func(c *Config) { c.Telemetry.Headers = map[string]string{" ": "x"} }, "telemetry.headers"},
		{"events without endpoint", func(c *Config) { c.Telemetry.Events = "http" }, "telemetry.events_endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			if rec, ok := errors.AsRecordError(err).(*errors.Error); !ok || rec.Field() != tt.field {
				t.Errorf("field = %v, want %s", err, tt.field)
			}
		})
	}

	memory := Default()
	memory.Store.Backend = BackendMemory
	memory.Store.Path = ""
	if err := memory.Validate(); err != nil {
		t.Errorf("memory backend needs no path: %v", err)
	}
}
