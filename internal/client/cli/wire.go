package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/greetkeeper/internal/archive"
	"github.com/dmitrijs2005/greetkeeper/internal/client/config"
	"github.com/dmitrijs2005/greetkeeper/internal/common"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/memory"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/postgres"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/supabase"
	"github.com/dmitrijs2005/greetkeeper/internal/logging"
)

// Test seams for the adapters that dial out.
var (
	openPostgres = postgres.Open
	newS3Archive = archive.NewS3Archive
)

// NewApp builds the gateway and archive selected by c and returns an App
// reading from stdin.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	gw, err := openGateway(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	arch, err := openArchive(ctx, c, logger)
	if err != nil {
		_ = gw.Close()
		return nil, err
	}

	return newApp(c, gw, arch, logger, os.Stdin, os.Stdout), nil
}

func openGateway(ctx context.Context, c *config.Config, logger logging.Logger) (gateway.Gateway, error) {
	log := logger.With("gateway", string(c.GatewayKind))

	switch c.GatewayKind {
	case config.GatewaySupabase:
		log.Info(ctx, "using gateway", "url", c.SupabaseURL)
		return supabase.NewClient(c.SupabaseURL, c.SupabaseAnonKey, c.RequestTimeout, logger), nil

	case config.GatewayPostgres:
		secret := c.JWTSecret
		if secret == "" {
			s, err := common.MakeRandHexString(32)
			if err != nil {
				return nil, fmt.Errorf("generate session secret: %w", err)
			}
			secret = s
			log.Warn(ctx, "no jwt secret configured, sessions end with the process")
		}
		gw, err := openPostgres(ctx, c.DatabaseDSN, []byte(secret), c.SessionTTL, logger)
		if err != nil {
			return nil, fmt.Errorf("open postgres gateway: %w", err)
		}
		log.Info(ctx, "using gateway")
		return gw, nil

	case config.GatewayMemory:
		log.Warn(ctx, "using in-memory gateway, nothing is persisted")
		return memory.New(), nil
	}

	return nil, fmt.Errorf("%w %q", config.ErrUnknownGateway, c.GatewayKind)
}

func openArchive(ctx context.Context, c *config.Config, logger logging.Logger) (archive.Archive, error) {
	if !c.ArchiveEnabled() {
		return archive.Disabled{}, nil
	}

	a, err := newS3Archive(ctx, archive.Config{
		Endpoint:  c.S3.Endpoint,
		Region:    c.S3.Region,
		Bucket:    c.S3.Bucket,
		AccessKey: c.S3.AccessKey,
		SecretKey: c.S3.SecretKey,
		LinkTTL:   c.S3.LinkTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("open greeting archive: %w", err)
	}
	logger.Info(ctx, "greeting archive enabled", "bucket", c.S3.Bucket)
	return a, nil
}
