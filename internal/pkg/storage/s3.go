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

// Config holds S3-compatible storage configuration
type Config struct {
	Endpoint  string // empty for AWS S3 proper
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

// SiteStore serves published project pages from an S3-compatible bucket
type SiteStore struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewSiteStore creates a new S3-backed site store
func NewSiteStore(cfg Config) (*SiteStore, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				URL:               cfg.Endpoint,
				HostnameImmutable: true,
				SigningRegion:     cfg.Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
		config.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true // required for MinIO-style endpoints
	})

	return &SiteStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// Publish uploads a project's page under sites/{projectID}/index.html
func (s *SiteStore) Publish(ctx context.Context, projectID string, html string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(siteKey(projectID)),
		Body:        strings.NewReader(html),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload site: %w", err)
	}
	return nil
}

// Unpublish removes a project's published page
func (s *SiteStore) Unpublish(ctx context.Context, projectID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(siteKey(projectID)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}
	return nil
}

// PublicURL returns the public address of a published page
func (s *SiteStore) PublicURL(projectID string) string {
	if s.publicURL == "" {
		return ""
	}
	return s.publicURL + "/" + siteKey(projectID)
}

func siteKey(projectID string) string {
	return "sites/" + projectID + "/index.html"
}
