// Package config loads server settings from the environment, an optional
// .env file and command line flags.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cyphera/address-relay/internal/helpers"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

const (
	DefaultPort                = "8000"
	DefaultStaticDir           = "web"
	DefaultLocationAPIURL      = "https://api.zippopotam.us"
	DefaultSuggestionAPIURL    = "https://nominatim.openstreetmap.org"
	DefaultSuggestionUserAgent = "address-relay/1.0"
)

// CORSConfig holds the allowed cross-origin settings.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// Config is the full server configuration.
type Config struct {
	Port      string
	Stage     string
	LogLevel  string
	StaticDir string

	AutomationURL       string
	LocationAPIURL      string
	SuggestionAPIURL    string
	SuggestionUserAgent string

	StreetDebounce  time.Duration
	ZipDebounce     time.Duration
	BlurGrace       time.Duration
	LookupTimeout   time.Duration
	OutboundTimeout time.Duration

	LookupRatePerSecond  float64
	WebhookRatePerSecond float64
	WebhookRateBurst     int

	// SQSQueueURL selects the SQS event publisher and takes precedence
	// over NATSURL.
	SQSQueueURL string
	NATSURL     string

	CORS CORSConfig
}

// Flags are the command line overrides for the local server.
type Flags struct {
	Port      string
	EnvFile   string
	StaticDir string
	LogLevel  string
}

// ParseFlags parses the local server's command line.
func ParseFlags(name string, args []string) (Flags, error) {
	var flags Flags

	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(&flags.Port, "port", "", "port to listen on (overrides PORT)")
	flagSet.StringVar(&flags.EnvFile, "env-file", ".env", "path to a .env file to load if present")
	flagSet.StringVar(&flags.StaticDir, "static-dir", "", "directory holding the form page (overrides STATIC_DIR)")
	flagSet.StringVar(&flags.LogLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	if err := flagSet.Parse(args); err != nil {
		return Flags{}, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return Flags{}, errors.Errorf("unexpected argument: %s", rest[0])
	}
	return flags, nil
}

// LoadEnvFile loads path into the environment without overriding variables
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "failed to load env file %s", path)
	}
	return nil
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                helpers.GetEnvWithDefault("PORT", DefaultPort),
		Stage:               helpers.GetEnvWithDefault("STAGE", helpers.StageLocal),
		LogLevel:            helpers.GetEnvWithDefault("LOG_LEVEL", "info"),
		StaticDir:           helpers.GetEnvWithDefault("STATIC_DIR", DefaultStaticDir),
		AutomationURL:       os.Getenv("AUTOMATION_URL"),
		LocationAPIURL:      helpers.GetEnvWithDefault("LOCATION_API_URL", DefaultLocationAPIURL),
		SuggestionAPIURL:    helpers.GetEnvWithDefault("SUGGESTION_API_URL", DefaultSuggestionAPIURL),
		SuggestionUserAgent: helpers.GetEnvWithDefault("SUGGESTION_USER_AGENT", DefaultSuggestionUserAgent),
		SQSQueueURL:         os.Getenv("SQS_QUEUE_URL"),
		NATSURL:             os.Getenv("NATS_URL"),
		CORS: CORSConfig{
			AllowedOrigins:   helpers.SplitAndTrim(helpers.GetEnvWithDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
			AllowedMethods:   helpers.SplitAndTrim(helpers.GetEnvWithDefault("CORS_ALLOWED_METHODS", "GET,POST,PATCH,OPTIONS")),
			AllowedHeaders:   helpers.SplitAndTrim(helpers.GetEnvWithDefault("CORS_ALLOWED_HEADERS", "Origin,Content-Type,Accept,X-Correlation-ID")),
			AllowCredentials: os.Getenv("CORS_ALLOW_CREDENTIALS") == "true",
		},
	}

	if !helpers.IsValidStage(cfg.Stage) {
		return nil, errors.Errorf("invalid STAGE %q", cfg.Stage)
	}
	if cfg.AutomationURL == "" {
		return nil, errors.New("AUTOMATION_URL is required")
	}

	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"STREET_DEBOUNCE", 300 * time.Millisecond, &cfg.StreetDebounce},
		{"ZIP_DEBOUNCE", 500 * time.Millisecond, &cfg.ZipDebounce},
		{"BLUR_GRACE", 200 * time.Millisecond, &cfg.BlurGrace},
		{"LOOKUP_TIMEOUT", 10 * time.Second, &cfg.LookupTimeout},
		{"OUTBOUND_TIMEOUT", 15 * time.Second, &cfg.OutboundTimeout},
	}
	for _, d := range durations {
		v, err := durationEnv(d.key, d.def)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}

	var err error
	if cfg.LookupRatePerSecond, err = floatEnv("LOOKUP_RATE_PER_SECOND", 1); err != nil {
		return nil, err
	}
	if cfg.WebhookRatePerSecond, err = floatEnv("WEBHOOK_RATE_PER_SECOND", 5); err != nil {
		return nil, err
	}
	if cfg.WebhookRateBurst, err = intEnv("WEBHOOK_RATE_BURST", 10); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyFlags overrides settings with any flags that were given.
func (c *Config) ApplyFlags(flags Flags) {
	if flags.Port != "" {
		c.Port = flags.Port
	}
	if flags.StaticDir != "" {
		c.StaticDir = flags.StaticDir
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
}

// IsDevelopment reports whether verbose request logging should be on.
func (c *Config) IsDevelopment() bool {
	return c.Stage != helpers.StageProd
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", key)
	}
	if d < 0 {
		return 0, errors.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

func floatEnv(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", key)
	}
	return f, nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", key)
	}
	return n, nil
}
