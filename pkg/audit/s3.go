package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the slice of the S3 client the archiver uses; narrowed for tests.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver exports audit entries to an object store as JSON lines, one
// object per day. Export is an offline/ops concern, separate from the
// per-decision sink path.
type Archiver struct {
	client s3API
	bucket string
	prefix string
}

// ArchiverConfig holds the object-store settings for the archiver.
type ArchiverConfig struct {
	Bucket   string
	Region   string
	Endpoint string // Optional custom endpoint (MinIO, LocalStack)
	Prefix   string // Optional key prefix, e.g. "audit/"
}

// NewArchiver builds an archiver from the ambient AWS configuration.
func NewArchiver(ctx context.Context, cfg ArchiverConfig) (*Archiver, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("audit: load aws config: %w", err)
	}

	clientOpts := func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}

	return &Archiver{
		client: s3.NewFromConfig(awsCfg, clientOpts),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// newArchiverWithClient injects a client for tests.
func newArchiverWithClient(client s3API, bucket, prefix string) *Archiver {
	return &Archiver{client: client, bucket: bucket, prefix: prefix}
}

// Export uploads the given entries as one JSONL object keyed by day,
// e.g. "audit/2026-08-29.jsonl".
func (a *Archiver) Export(ctx context.Context, day time.Time, entries []*Entry) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("audit: nothing to export")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return "", fmt.Errorf("audit: encode entry %d: %w", e.Sequence, err)
		}
	}

	key := fmt.Sprintf("%s%s.jsonl", a.prefix, day.UTC().Format("2006-01-02"))
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return "", fmt.Errorf("audit: s3 put %s: %w", key, err)
	}
	return key, nil
}
