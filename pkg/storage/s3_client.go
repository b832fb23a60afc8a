package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Provider represents the S3-compatible storage provider
type S3Provider string

const (
	S3ProviderAWS    S3Provider = "aws"
	S3ProviderWasabi S3Provider = "wasabi"
	// S3ProviderCustom covers MinIO, R2 and other endpoints given explicitly
	S3ProviderCustom S3Provider = "custom"
)

// S3ClientConfig holds configuration for S3-compatible storage
type S3ClientConfig struct {
	Provider        S3Provider
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	// Endpoint overrides the provider default, host or full URL
	Endpoint string
}

// WasabiEndpoints maps regions to Wasabi endpoints
var WasabiEndpoints = map[string]string{
	"us-east-1":      "s3.us-east-1.wasabisys.com",
	"eu-central-1":   "s3.eu-central-1.wasabisys.com",
	"eu-central-2":   "s3.eu-central-2.wasabisys.com",
	"eu-west-1":      "s3.eu-west-1.wasabisys.com",
	"eu-west-2":      "s3.eu-west-2.wasabisys.com",
	"ap-southeast-1": "s3.ap-southeast-1.wasabisys.com",
}

// ParseProvider maps a config string onto a provider, defaulting to AWS.
func ParseProvider(s string) S3Provider {
	switch S3Provider(strings.ToLower(strings.TrimSpace(s))) {
	case S3ProviderWasabi:
		return S3ProviderWasabi
	case S3ProviderCustom:
		return S3ProviderCustom
	default:
		return S3ProviderAWS
	}
}

// resolveEndpoint returns the base endpoint URL, or "" for the AWS default.
func resolveEndpoint(cfg S3ClientConfig) (string, error) {
	endpoint := cfg.Endpoint
	switch cfg.Provider {
	case S3ProviderWasabi:
		if endpoint == "" {
			var ok bool
			if endpoint, ok = WasabiEndpoints[cfg.Region]; !ok {
				return "", fmt.Errorf("unknown Wasabi region: %s", cfg.Region)
			}
		}
	case S3ProviderCustom:
		if endpoint == "" {
			return "", fmt.Errorf("custom S3 provider requires an endpoint")
		}
	default:
		if endpoint == "" {
			return "", nil
		}
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	return endpoint, nil
}

// NewS3Client creates an S3 client with the given config.
// Non-AWS providers use a custom endpoint with path-style addressing.
func NewS3Client(ctx context.Context, cfg S3ClientConfig) (*s3.Client, error) {
	endpoint, err := resolveEndpoint(cfg)
	if err != nil {
		return nil, err
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// CheckBucket verifies the bucket is reachable with the configured credentials
func CheckBucket(ctx context.Context, client *s3.Client, bucket string) error {
	_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		return fmt.Errorf("failed to access bucket %s: %w", bucket, err)
	}
	return nil
}
