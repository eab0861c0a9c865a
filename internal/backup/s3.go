package backup

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the S3 sink parameters. Credentials come from the default
// AWS chain (environment, shared config, instance role).
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // optional, e.g. MinIO
	Prefix   string // object key prefix

	// HTTPClient replaces the transport, used by tests
	HTTPClient *http.Client
	// LoadOptions are passed to config.LoadDefaultConfig
	LoadOptions []func(*config.LoadOptions) error
}

// S3Sink uploads backups to an S3-compatible bucket
type S3Sink struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Sink builds an S3 client from cfg
func NewS3Sink(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := append([]func(*config.LoadOptions) error{config.WithRegion(region)}, cfg.LoadOptions...)
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})
	return &S3Sink{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Put uploads data as prefix+name
func (s *S3Sink) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload backup %s: %w", name, err)
	}
	return nil
}
