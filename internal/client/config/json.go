package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/greetkeeper/internal/flagx"
	"github.com/dmitrijs2005/greetkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	Gateway         string         `json:"gateway"`
	SupabaseURL     string         `json:"supabase_url"`
	SupabaseAnonKey string         `json:"supabase_anon_key"`
	DatabaseDSN     string         `json:"database_dsn"`
	JWTSecret       string         `json:"jwt_secret"`
	SessionTTL      timex.Duration `json:"session_ttl"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	LogLevel        string         `json:"log_level"`
	S3              struct {
		Endpoint  string         `json:"endpoint"`
		Region    string         `json:"region"`
		Bucket    string         `json:"bucket"`
		AccessKey string         `json:"access_key"`
		SecretKey string         `json:"secret_key"`
		LinkTTL   timex.Duration `json:"link_ttl"`
	} `json:"s3"`
}

// parseJson overlays Config with the non-empty values of the JSON file named
// by -c / -config. Without the flag it does nothing. Read or unmarshal
// errors panic.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Gateway != "" {
		cfg.GatewayKind = GatewayKind(jc.Gateway)
	}
	overlay(&cfg.SupabaseURL, jc.SupabaseURL)
	overlay(&cfg.SupabaseAnonKey, jc.SupabaseAnonKey)
	overlay(&cfg.DatabaseDSN, jc.DatabaseDSN)
	overlay(&cfg.JWTSecret, jc.JWTSecret)
	overlay(&cfg.LogLevel, jc.LogLevel)
	if jc.SessionTTL.Duration > 0 {
		cfg.SessionTTL = jc.SessionTTL.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}

	overlay(&cfg.S3.Endpoint, jc.S3.Endpoint)
	overlay(&cfg.S3.Region, jc.S3.Region)
	overlay(&cfg.S3.Bucket, jc.S3.Bucket)
	overlay(&cfg.S3.AccessKey, jc.S3.AccessKey)
	overlay(&cfg.S3.SecretKey, jc.S3.SecretKey)
	if jc.S3.LinkTTL.Duration > 0 {
		cfg.S3.LinkTTL = jc.S3.LinkTTL.Duration
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
