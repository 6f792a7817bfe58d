package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/estecon/estecon-client/internal/domain"
)

// loadAWSConfig resolves region and credentials for the SQS/SNS publishers.
func loadAWSConfig(ctx context.Context, region string, creds AWSCredentials) (aws.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if creds.AccessKeyID != "" && creds.SecretAccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

func marshalEvent(evt Event) (string, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}
	return string(payload), nil
}

// fifoIDs returns the message group and deduplication ids for FIFO queues and
// topics, identified by the ".fifo" suffix AWS requires. Standard queues and
// topics reject these fields, so both are nil there. Snapshots of one endpoint
// share a group; the deduplication id is stable for a given document.
func fifoIDs(target string, evt Event) (group, dedup *string) {
	if !strings.HasSuffix(target, ".fifo") {
		return nil, nil
	}
	return aws.String(evt.EndpointID), aws.String(domain.Digest([]byte(evt.EndpointID + ":" + evt.Snapshot.Digest)))
}
