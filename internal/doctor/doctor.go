// Package doctor implements the `kahl doctor` subcommand (§11.2): it
// validates the resolved RunConfig and, if a sink is configured, probes
// S3 connectivity. It reads current configuration and current
// connectivity only — no manifest, no history, nothing persisted between
// runs.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/FordUniver/kahl/internal/config"
	"github.com/FordUniver/kahl/internal/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

func checkmark() string {
	return colorGreen + "✓" + colorReset
}

func crossmark() string {
	return colorRed + "✗" + colorReset
}

// dumpAWSError prints detailed AWS API error information, unwrapping the
// smithy and transport error types the SDK returns.
func dumpAWSError(w io.Writer, err error) {
	fmt.Fprintf(w, "    Type: %T\n", err)

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(w, "    API Code: %s\n", apiErr.ErrorCode())
		fmt.Fprintf(w, "    API Message: %s\n", apiErr.ErrorMessage())
		fmt.Fprintf(w, "    API Fault: %v\n", apiErr.ErrorFault())
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		fmt.Fprintf(w, "    HTTP Status: %d\n", respErr.HTTPStatusCode())
		fmt.Fprintf(w, "    Request ID: %s\n", respErr.ServiceRequestID())
	}
}

// checkBucketConnectivity verifies bucket access using HeadBucket.
func checkBucketConnectivity(ctx context.Context, w io.Writer, client *s3.Client, bucket string) bool {
	_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		fmt.Fprintf(w, "  %s Failed to connect to S3 bucket %s\n", crossmark(), bucket)
		dumpAWSError(w, err)
		fmt.Fprintf(w, "    → Check AWS credentials and bucket permissions\n")
		return false
	}
	return true
}

// RunChecks validates cfg and, unless skipRemote is true, probes sink
// connectivity. Output is written to w; it returns whether every check
// passed.
func RunChecks(ctx context.Context, w io.Writer, cfg *types.RunConfig, skipRemote bool) bool {
	fmt.Fprintln(w, "kahl doctor - configuration and connectivity check")
	fmt.Fprintln(w)

	allPassed := true

	fmt.Fprintln(w, "Filters:")
	if !cfg.Filter.Values && !cfg.Filter.Patterns && !cfg.Filter.Entropy {
		fmt.Fprintf(w, "  %s No filters enabled — kahl will pass input through unmodified\n", crossmark())
	} else {
		fmt.Fprintf(w, "  %s values=%v patterns=%v entropy=%v\n", checkmark(), cfg.Filter.Values, cfg.Filter.Patterns, cfg.Filter.Entropy)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pattern catalog:")
	fmt.Fprintf(w, "  %s %d direct, %d context, %d special patterns loaded\n",
		checkmark(), len(cfg.Tables.Direct), len(cfg.Tables.Context), len(cfg.Tables.Special))
	if len(cfg.Tables.Exclusions) > 0 {
		fmt.Fprintf(w, "  %s %d entropy exclusions loaded\n", checkmark(), len(cfg.Tables.Exclusions))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment allowlist:")
	fmt.Fprintf(w, "  %s %d allowed names, %d suffixes\n", checkmark(), len(cfg.AllowedEnvNames), len(cfg.EnvSuffixes))

	fmt.Fprintln(w)

	if cfg.Sink.Bucket == "" {
		fmt.Fprintln(w, "Sink: none configured (stdout only)")
	} else if skipRemote {
		fmt.Fprintf(w, "Sink: s3://%s/%s (connectivity check skipped)\n", cfg.Sink.Bucket, cfg.Sink.Key)
	} else {
		fmt.Fprintln(w, "Sink connectivity:")
		client, err := config.NewS3Client(ctx)
		if err != nil {
			fmt.Fprintf(w, "  %s Failed to initialize S3 client\n", crossmark())
			fmt.Fprintf(w, "    → Error: %v\n", err)
			allPassed = false
		} else {
			fmt.Fprintf(w, "  %s S3 client initialized\n", checkmark())
			if checkBucketConnectivity(ctx, w, client, cfg.Sink.Bucket) {
				fmt.Fprintf(w, "  %s Connected to bucket: %s\n", checkmark(), cfg.Sink.Bucket)
			} else {
				allPassed = false
			}
		}
	}

	fmt.Fprintln(w)
	printSummary(w, allPassed)
	return allPassed
}

func printSummary(w io.Writer, allPassed bool) {
	if allPassed {
		fmt.Fprintln(w, "All checks passed.")
	} else {
		fmt.Fprintln(w, "Some checks failed. See details above.")
	}
}
