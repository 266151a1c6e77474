package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/greetkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only the flags listed here are parsed; the rest of os.Args is left to
// other stages (see flagx.FilterArgs).
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-g", "-u", "-k", "-d", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	gw := fs.String("g", string(cfg.GatewayKind), "gateway: supabase, postgres or memory")
	fs.StringVar(&cfg.SupabaseURL, "u", cfg.SupabaseURL, "Supabase project URL")
	fs.StringVar(&cfg.SupabaseAnonKey, "k", cfg.SupabaseAnonKey, "Supabase anon key")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "Postgres DSN")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.GatewayKind = GatewayKind(*gw)
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
