package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Sink archives a finished export and returns where it was stored.
type Sink interface {
	Put(ctx context.Context, resource string, data []byte) (string, error)
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads exports to exports/<resource>/<timestamp>.csv in an
// S3-compatible bucket.
type S3Sink struct {
	client putObjectAPI
	bucket string
	now    func() time.Time
}

// NewS3Sink loads the default AWS configuration. If endpoint is non-empty,
// path-style addressing is enabled (for MinIO and similar).
func NewS3Sink(ctx context.Context, bucket, region, endpoint string) (*S3Sink, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return newS3Sink(s3.NewFromConfig(cfg, s3opts...), bucket), nil
}

func newS3Sink(client putObjectAPI, bucket string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, now: time.Now}
}

func (s *S3Sink) Put(ctx context.Context, resource string, data []byte) (string, error) {
	key := fmt.Sprintf("exports/%s/%s.csv", resource, s.now().UTC().Format("20060102T150405Z"))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
