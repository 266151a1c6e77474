// Package config loads runtime configuration for the greetkeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, then environment variables
//     (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-g string   gateway: supabase | postgres | memory
//	-u string   Supabase project URL
//	-k string   Supabase anon key
//	-d string   Postgres DSN for the postgres gateway
//	-t int      request timeout (seconds)
//	-l string   log level: debug | info | warn | error
//
// Environment
//
//	GREETKEEPER_GATEWAY, SUPABASE_URL, SUPABASE_ANON_KEY, DATABASE_DSN,
//	GREETKEEPER_JWT_SECRET, GREETKEEPER_SESSION_TTL, GREETKEEPER_REQUEST_TIMEOUT,
//	GREETKEEPER_LOG_LEVEL, GREETKEEPER_S3_ENDPOINT, GREETKEEPER_S3_REGION,
//	GREETKEEPER_S3_BUCKET, GREETKEEPER_S3_ACCESS_KEY, GREETKEEPER_S3_SECRET_KEY,
//	GREETKEEPER_S3_LINK_TTL
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "10s" or
// integer nanoseconds. Empty or missing keys keep the earlier value:
//
//	{
//	  "gateway": "supabase",
//	  "supabase_url": "https://xyz.supabase.co",
//	  "supabase_anon_key": "...",
//	  "request_timeout": "10s",
//	  "log_level": "info",
//	  "s3": {"bucket": "greetings", "region": "eu-central-1"}
//	}
//
// Malformed input in any source panics, as the client cannot start with a
// half-read configuration. Validate reports missing settings for the
// selected gateway.
package config
