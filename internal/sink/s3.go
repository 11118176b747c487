package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mwiater/senticv/internal/accuracy"
	"github.com/mwiater/senticv/internal/appconfig"
	"github.com/mwiater/senticv/internal/crossval"
	"github.com/mwiater/senticv/internal/logging"
)

// PutObjectAPI is the slice of the S3 client used by the sink.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 writes the same documents as Filesystem to s3://bucket/prefix/.
type S3 struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3 builds an S3 sink with the default AWS credential chain. A custom
// endpoint switches to path-style addressing for MinIO-compatible stores.
func NewS3(ctx context.Context, cfg appconfig.S3) (*S3, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	opts := []func(*s3.Options){}
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}
	return NewS3WithClient(s3.NewFromConfig(awsCfg, opts...), cfg.Bucket, cfg.Prefix), nil
}

// NewS3WithClient builds an S3 sink around an existing client.
func NewS3WithClient(client PutObjectAPI, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *S3) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *S3) put(ctx context.Context, name, contentType string, body []byte) error {
	key := s.key(name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	logging.LogDebug("uploaded s3://%s/%s", s.bucket, key)
	return nil
}

// WriteFold uploads fold-<i>.json.
func (s *S3) WriteFold(ctx context.Context, out crossval.FoldOutput) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return s.put(ctx, FoldFile(out.Fold), "application/json", data)
}

// WriteSummary uploads summary.json and results.jsonl.
func (s *S3) WriteSummary(ctx context.Context, summary accuracy.Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	if err := s.put(ctx, SummaryFile, "application/json", data); err != nil {
		return err
	}
	lines, err := encodeResults(summary)
	if err != nil {
		return err
	}
	return s.put(ctx, ResultsFile, "application/x-ndjson", lines)
}
