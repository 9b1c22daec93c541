package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jonathan/resume-builder/internal/config"
)

// ObjectPutter is the subset of *s3.Client used for archiving.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver writes artifacts to a bucket.
type S3Archiver struct {
	client ObjectPutter
	bucket string
}

// NewS3Archiver wraps an existing client.
func NewS3Archiver(client ObjectPutter, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket}
}

// DialS3 builds an archiver from configuration. Static credentials are used
// when both keys are set; otherwise the default AWS credential chain applies.
// A custom endpoint (R2, MinIO) switches to path-style addressing.
func DialS3(ctx context.Context, cfg config.S3Config) (*S3Archiver, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Archiver(client, cfg.Bucket), nil
}

// Archive implements Archiver.
func (s *S3Archiver) Archive(ctx context.Context, key string, a *Artifact) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(a.Data),
		ContentType:        aws.String(a.ContentType),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", a.Filename)),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to %s: %w", key, s.bucket, err)
	}
	return nil
}
