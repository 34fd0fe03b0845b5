// Package sink implements kahl's optional one-shot S3 destination (§11.1).
// Unlike the teacher's uploader package, there is no discovery, no
// manifest, and no remote listing: one run produces one object, uploaded
// unconditionally on clean EOF, or the process exits non-zero.
package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/FordUniver/kahl/internal/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Sink uploads a single buffered stream to S3 as one object.
type Sink struct {
	client *s3.Client
	target types.SinkConfig
}

// New builds a Sink targeting cfg against the given client.
func New(client *s3.Client, cfg types.SinkConfig) *Sink {
	return &Sink{client: client, target: cfg}
}

// Upload writes body to the configured bucket/key using the multipart
// uploader, matching the teacher's concurrency and part-size settings.
// It is called exactly once per run, after stdout has received the full
// redacted stream.
func (s *Sink) Upload(ctx context.Context, body []byte) error {
	uploader := manager.NewUploader(s.client, func(mu *manager.Uploader) {
		mu.Concurrency = 5
		mu.PartSize = 5 * 1024 * 1024
	})

	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.target.Bucket),
		Key:    aws.String(s.target.Key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return fmt.Errorf("upload to s3://%s/%s: %w", s.target.Bucket, s.target.Key, err)
	}
	return nil
}
