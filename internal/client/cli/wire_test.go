package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/greetkeeper/internal/archive"
	"github.com/dmitrijs2005/greetkeeper/internal/client/config"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/memory"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/postgres"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/supabase"
	"github.com/dmitrijs2005/greetkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(kind config.GatewayKind) *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.GatewayKind = kind
	return c
}

func TestOpenGateway_Kinds(t *testing.T) {
	ctx := context.Background()

	gw, err := openGateway(ctx, testConfig(config.GatewayMemory), logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &memory.Gateway{}, gw)

	c := testConfig(config.GatewaySupabase)
	c.SupabaseURL = "https://xyz.supabase.co"
	c.SupabaseAnonKey = "anon"
	gw, err = openGateway(ctx, c, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &supabase.Client{}, gw)

	_, err = openGateway(ctx, testConfig("firebase"), logging.Nop())
	require.ErrorIs(t, err, config.ErrUnknownGateway)
}

func TestOpenGateway_PostgresSecret(t *testing.T) {
	old := openPostgres
	t.Cleanup(func() { openPostgres = old })

	var gotSecret []byte
	var gotTTL time.Duration
	boom := errors.New("connection refused")
	openPostgres = func(ctx context.Context, dsn string, secret []byte, ttl time.Duration, logger logging.Logger) (*postgres.Gateway, error) {
		gotSecret, gotTTL = secret, ttl
		return nil, boom
	}

	c := testConfig(config.GatewayPostgres)
	c.DatabaseDSN = "postgres://localhost/greet"

	_, err := openGateway(context.Background(), c, logging.Nop())
	require.ErrorIs(t, err, boom)
	assert.Len(t, gotSecret, 64, "random secret when none is configured")
	assert.Equal(t, time.Hour, gotTTL)

	c.JWTSecret = "configured"
	_, _ = openGateway(context.Background(), c, logging.Nop())
	assert.Equal(t, []byte("configured"), gotSecret)
}

func TestOpenArchive(t *testing.T) {
	old := newS3Archive
	t.Cleanup(func() { newS3Archive = old })

	a, err := openArchive(context.Background(), testConfig(config.GatewayMemory), logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, archive.Disabled{}, a)

	var got archive.Config
	newS3Archive = func(ctx context.Context, cfg archive.Config) (*archive.S3Archive, error) {
		got = cfg
		return &archive.S3Archive{}, nil
	}
	c := testConfig(config.GatewayMemory)
	c.S3.Bucket = "greetings"
	c.S3.Endpoint = "http://localhost:9000"

	a, err = openArchive(context.Background(), c, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &archive.S3Archive{}, a)
	assert.Equal(t, "greetings", got.Bucket)
	assert.Equal(t, "http://localhost:9000", got.Endpoint)
	assert.Equal(t, "us-east-1", got.Region)
	assert.Equal(t, 24*time.Hour, got.LinkTTL)

	newS3Archive = func(ctx context.Context, cfg archive.Config) (*archive.S3Archive, error) {
		return nil, errors.New("bad credentials")
	}
	_, err = openArchive(context.Background(), c, logging.Nop())
	require.ErrorContains(t, err, "open greeting archive")
}

func TestNewApp_Memory(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(config.GatewayMemory), logging.Nop())
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.False(t, app.isLoggedIn())
	assert.Equal(t, "/", app.status())
}
