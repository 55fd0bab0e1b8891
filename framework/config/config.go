package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App     AppConfig
	Form    FormConfig
	Log     LogConfig
	Metrics MetricsConfig
}

type AppConfig struct {
	Name            string
	Env             string // local | production | testing
	Debug           bool
	URL             string
	Port            string
	ShutdownTimeout time.Duration
}

type FormConfig struct {
	SchemaFile string // YAML declarations; empty selects the built-in schema
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // text | json
}

type MetricsConfig struct {
	Enabled   bool
	Path      string
	Namespace string
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:            env("APP_NAME", "UserForm"),
			Env:             env("APP_ENV", "local"),
			Debug:           envBool("APP_DEBUG", true),
			URL:             env("APP_URL", "http://localhost"),
			Port:            env("APP_PORT", "8000"),
			ShutdownTimeout: time.Duration(GetInt("APP_SHUTDOWN_TIMEOUT", 5)) * time.Second,
		},
		Form: FormConfig{
			SchemaFile: env("FORM_SCHEMA_FILE", ""),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", "text"),
		},
		Metrics: MetricsConfig{
			Enabled:   envBool("METRICS_ENABLED", true),
			Path:      env("METRICS_PATH", "/metrics"),
			Namespace: env("METRICS_NAMESPACE", "userform"),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
