package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

var loadDotEnv = func() error { return godotenv.Load() }

// parseEnv loads .env (a missing file is fine) and overlays Config with the
// variables that are set and non-empty. Variables already present in the
// process environment win over .env entries.
func parseEnv(cfg *Config) {
	if err := loadDotEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	setString(&cfg.SupabaseURL, "SUPABASE_URL")
	setString(&cfg.SupabaseAnonKey, "SUPABASE_ANON_KEY")
	setString(&cfg.DatabaseDSN, "DATABASE_DSN")
	setString(&cfg.JWTSecret, "GREETKEEPER_JWT_SECRET")
	setString(&cfg.LogLevel, "GREETKEEPER_LOG_LEVEL")
	setDuration(&cfg.SessionTTL, "GREETKEEPER_SESSION_TTL")
	setDuration(&cfg.RequestTimeout, "GREETKEEPER_REQUEST_TIMEOUT")

	if v, ok := lookup("GREETKEEPER_GATEWAY"); ok {
		cfg.GatewayKind = GatewayKind(v)
	}

	setString(&cfg.S3.Endpoint, "GREETKEEPER_S3_ENDPOINT")
	setString(&cfg.S3.Region, "GREETKEEPER_S3_REGION")
	setString(&cfg.S3.Bucket, "GREETKEEPER_S3_BUCKET")
	setString(&cfg.S3.AccessKey, "GREETKEEPER_S3_ACCESS_KEY")
	setString(&cfg.S3.SecretKey, "GREETKEEPER_S3_SECRET_KEY")
	setDuration(&cfg.S3.LinkTTL, "GREETKEEPER_S3_LINK_TTL")
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	v, ok := lookup(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
