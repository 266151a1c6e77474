package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type GatewayKind string

const (
	GatewaySupabase GatewayKind = "supabase"
	GatewayPostgres GatewayKind = "postgres"
	GatewayMemory   GatewayKind = "memory"
)

// S3Config configures the optional greeting archive. An empty Bucket
// disables it.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	LinkTTL   time.Duration
}

type Config struct {
	GatewayKind     GatewayKind
	SupabaseURL     string
	SupabaseAnonKey string
	DatabaseDSN     string
	// JWTSecret signs postgres gateway sessions. Empty means a random
	// per-process secret.
	JWTSecret      string
	SessionTTL     time.Duration
	RequestTimeout time.Duration
	LogLevel       string
	S3             S3Config
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.GatewayKind = GatewaySupabase
	c.SessionTTL = time.Hour
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
	c.S3.Region = "us-east-1"
	c.S3.LinkTTL = 24 * time.Hour
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

var (
	ErrUnknownGateway = errors.New("unknown gateway")
	ErrMissing        = errors.New("missing setting")
)

// Validate checks that the selected gateway has what it needs.
func (c *Config) Validate() error {
	var errs []error

	switch c.GatewayKind {
	case GatewaySupabase:
		if c.SupabaseURL == "" {
			errs = append(errs, fmt.Errorf("%w: supabase url (-u or SUPABASE_URL)", ErrMissing))
		}
		if c.SupabaseAnonKey == "" {
			errs = append(errs, fmt.Errorf("%w: supabase anon key (-k or SUPABASE_ANON_KEY)", ErrMissing))
		}
	case GatewayPostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, fmt.Errorf("%w: database dsn (-d or DATABASE_DSN)", ErrMissing))
		}
		if c.SessionTTL <= 0 {
			errs = append(errs, errors.New("session ttl must be positive"))
		}
	case GatewayMemory:
	default:
		errs = append(errs, fmt.Errorf("%w %q", ErrUnknownGateway, c.GatewayKind))
	}

	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	if c.S3.Bucket != "" && c.S3.Region == "" {
		errs = append(errs, fmt.Errorf("%w: s3 region", ErrMissing))
	}

	return errors.Join(errs...)
}

// ArchiveEnabled reports whether a bucket is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.S3.Bucket != ""
}
