package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultPresignTTL applies when S3Config.PresignTTL is zero.
const DefaultPresignTTL = 15 * time.Minute

type S3Config struct {
	Region     string
	Bucket     string
	AccessKey  string
	SecretKey  string
	Endpoint   string // S3-compatible endpoint (MinIO, R2, ...), path-style addressing
	PublicBase string // base URL objects are served from, e.g. a CDN
	PresignTTL time.Duration
}

// Client hands out presigned uploads for message images.
type Client struct {
	bucket     string
	publicBase *url.URL
	ttl        time.Duration
	api        *s3.Client
	presigner  *s3.PresignClient
}

func NewClient(ctx context.Context, cfg S3Config) (*Client, error) {
	if cfg.Region == "" || cfg.Bucket == "" {
		return nil, errors.New("s3 region and bucket are required")
	}

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	client := &Client{
		bucket:    cfg.Bucket,
		ttl:       cfg.PresignTTL,
		api:       api,
		presigner: s3.NewPresignClient(api),
	}
	if client.ttl <= 0 {
		client.ttl = DefaultPresignTTL
	}
	if cfg.PublicBase != "" {
		client.publicBase, err = url.Parse(cfg.PublicBase)
		if err != nil {
			return nil, fmt.Errorf("parse public base: %w", err)
		}
	}
	return client, nil
}

// loadAWSConfig prefers static keys and falls back to the default credential chain.
func loadAWSConfig(ctx context.Context, cfg S3Config) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		provider := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		opts = append(opts, config.WithCredentialsProvider(provider))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}

// PresignPut signs a PUT of key. The returned headers must be sent with the upload.
func (c *Client) PresignPut(ctx context.Context, key, contentType string, sizeBytes int64) (string, map[string]string, error) {
	if c == nil {
		return "", nil, errors.New("s3 client not initialized")
	}
	if key == "" {
		return "", nil, errors.New("object key is required")
	}

	headers := make(map[string]string, 2)
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
		headers["Content-Type"] = contentType
	}
	if sizeBytes > 0 {
		input.ContentLength = aws.Int64(sizeBytes)
		headers["Content-Length"] = strconv.FormatInt(sizeBytes, 10)
	}

	req, err := c.presigner.PresignPutObject(ctx, input, s3.WithPresignExpires(c.ttl))
	if err != nil {
		return "", nil, fmt.Errorf("presign put %s: %w", key, err)
	}
	return req.URL, headers, nil
}

// FileURL is the public address of key, or "" when no public base is configured.
func (c *Client) FileURL(key string) string {
	if c == nil || c.publicBase == nil || key == "" {
		return ""
	}
	return c.publicBase.JoinPath(key).String()
}

// Ping checks that the bucket is reachable with the configured credentials.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)})
	return err
}
