// Package archive stores generated greetings in an S3-compatible bucket
// (Supabase Storage, MinIO, AWS) so they can be shared as a link.
package archive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/greetkeeper/internal/netx"
	"github.com/google/uuid"
)

var ErrDisabled = errors.New("greeting archive is not configured")

// Receipt identifies a stored greeting. URL is a time-limited download link.
type Receipt struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

type Archive interface {
	Put(ctx context.Context, userID, personID, text string) (Receipt, error)
}

// Disabled is used when no bucket is configured.
type Disabled struct{}

func (Disabled) Put(context.Context, string, string, string) (Receipt, error) {
	return Receipt{}, ErrDisabled
}

type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	LinkTTL   time.Duration
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3Archive uploads through presigned PUT URLs and hands back presigned GET
// links.
type S3Archive struct {
	cfg        Config
	presign    *s3.PresignClient
	httpClient *http.Client
	now        func() time.Time
}

func NewS3Archive(ctx context.Context, cfg Config) (*S3Archive, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	if cfg.LinkTTL <= 0 {
		cfg.LinkTTL = 24 * time.Hour
	}
	return &S3Archive{
		cfg:        cfg,
		presign:    s3.NewPresignClient(client),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}, nil
}

// ObjectKey lays greetings out per user and contact, then by date.
func ObjectKey(userID, personID string, at time.Time) string {
	return fmt.Sprintf("greetings/%s/%s/%d/%02d/%02d/%s.txt",
		userID, personID, at.Year(), at.Month(), at.Day(), uuid.New())
}

func (a *S3Archive) Put(ctx context.Context, userID, personID, text string) (Receipt, error) {
	key := ObjectKey(userID, personID, a.now().UTC())
	contentType := "text/plain; charset=utf-8"

	put, err := presignPutObject(a.presign, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return Receipt{}, fmt.Errorf("presign put: %w", err)
	}

	if err := netx.PutPresigned(ctx, a.httpClient, put.URL, contentType, []byte(text)); err != nil {
		return Receipt{}, err
	}

	get, err := presignGetObject(a.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(a.cfg.LinkTTL))
	if err != nil {
		return Receipt{}, fmt.Errorf("presign get: %w", err)
	}

	return Receipt{Key: key, URL: get.URL, ExpiresAt: a.now().Add(a.cfg.LinkTTL)}, nil
}
