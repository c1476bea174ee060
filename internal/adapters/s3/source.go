// Package s3 reads registry snapshots stored as a JSON object in an
// S3-compatible bucket (AWS S3 or MinIO).
package s3

import (
	"context"
	"fmt"
	"net/http"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"dnamatch/internal/domain"
	"dnamatch/internal/population"
	"dnamatch/internal/ports"
)

// Config holds construction parameters. Credentials fall back to the default
// chain when AccessKeyID is empty.
type Config struct {
	Region          string
	Bucket          string
	Key             string
	Endpoint        string // optional; set for MinIO and other S3-compatible stores
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	PathStyle       bool
	HTTPClient      *http.Client
}

// Source fetches one object per Fetch and decodes the population envelope.
type Source struct {
	client *s3.Client
	bucket string
	key    string
}

var _ ports.PopulationSource = (*Source)(nil)

func New(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("s3 object key required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})
	return &Source{client: client, bucket: cfg.Bucket, key: cfg.Key}, nil
}

func (s *Source) Name() string { return "s3://" + s.bucket + "/" + s.key }

func (s *Source) Fetch(ctx context.Context) ([]domain.PopulationRecord, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.Name(), err)
	}
	defer out.Body.Close()
	return population.Decode(out.Body)
}
