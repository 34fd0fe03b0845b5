package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client builds an S3 client for the one-shot sink (§11.1).
// Authentication priority matches the teacher's: static credentials (via
// KAHL_SINK_ACCESS_KEY_ID/SECRET_ACCESS_KEY[/SESSION_TOKEN]) > named AWS
// profile (KAHL_SINK_PROFILE) > the SDK's default credential chain.
func NewS3Client(ctx context.Context) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRetryMaxAttempts(3), config.WithRetryMode(aws.RetryModeStandard))

	if region := os.Getenv("KAHL_SINK_REGION"); region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	if accessKey := os.Getenv("KAHL_SINK_ACCESS_KEY_ID"); accessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				accessKey,
				os.Getenv("KAHL_SINK_SECRET_ACCESS_KEY"),
				os.Getenv("KAHL_SINK_SESSION_TOKEN"),
			),
		))
	} else if profile := os.Getenv("KAHL_SINK_PROFILE"); profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint := os.Getenv("KAHL_SINK_ENDPOINT"); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		if forcePathStyle := os.Getenv("KAHL_SINK_FORCE_PATH_STYLE"); forcePathStyle != "" {
			o.UsePathStyle = strings.EqualFold(forcePathStyle, "true") || forcePathStyle == "1"
		}
	})

	return client, nil
}
