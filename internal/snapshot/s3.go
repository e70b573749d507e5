package snapshot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

const defaultRegion = "us-east-1"

// ObjectClient is the part of the S3 API snapshots need. *s3.Client
// satisfies it.
type ObjectClient interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds an S3 client from the default AWS credential chain.
// Endpoint and PathStyle support S3-compatible servers such as MinIO.
func NewS3Client(ctx context.Context, cfg types.S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// s3Sink buffers a snapshot in memory and uploads it on commit.
type s3Sink struct {
	ctx    context.Context
	client ObjectClient
	loc    Location
	buf    bytes.Buffer
}

func (s *s3Sink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

func (s *s3Sink) commit() error {
	_, err := s.client.PutObject(s.ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.loc.Bucket),
		Key:         aws.String(s.loc.Key),
		Body:        bytes.NewReader(s.buf.Bytes()),
		ContentType: aws.String(contentType(s.loc)),
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", s.loc, err)
	}
	return nil
}

func (s *s3Sink) discard() {
	s.buf.Reset()
}

func contentType(loc Location) string {
	if loc.Compressed {
		return "application/zstd"
	}
	return "text/plain; charset=utf-8"
}
