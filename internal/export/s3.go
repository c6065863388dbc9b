package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Defaults applied to an S3Config with empty fields.
const (
	DefaultS3Key    = "automa/snapshot.jsonl"
	DefaultS3Region = "us-east-1"
)

const snapshotContentType = "application/x-ndjson"

// S3Config locates the snapshot object. Each export overwrites it.
type S3Config struct {
	Bucket   string
	Key      string
	Region   string
	Endpoint string // MinIO and other S3-compatible stores; implies path-style URLs
}

func (c S3Config) normalized() (S3Config, error) {
	if c.Bucket == "" {
		return c, errors.New("s3 bucket is required")
	}
	c.Key = strings.TrimLeft(c.Key, "/")
	if c.Key == "" {
		c.Key = DefaultS3Key
	}
	if c.Region == "" {
		c.Region = DefaultS3Region
	}
	return c, nil
}

// URI returns the object as s3://bucket/key.
func (c S3Config) URI() string {
	return "s3://" + c.Bucket + "/" + c.Key
}

func (c S3Config) apply(o *s3.Options) {
	if c.Endpoint == "" {
		return
	}
	o.BaseEndpoint = aws.String(c.Endpoint)
	o.UsePathStyle = true
}

// S3Destination uploads snapshots to a bucket with credentials from the
// standard AWS environment and shared config files.
type S3Destination struct {
	cfg    S3Config
	client *s3.Client
}

func NewS3Destination(ctx context.Context, cfg S3Config) (*S3Destination, error) {
	cfg, err := cfg.normalized()
	if err != nil {
		return nil, err
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &S3Destination{cfg: cfg, client: s3.NewFromConfig(awsCfg, cfg.apply)}, nil
}

func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.cfg.Bucket),
		Key:           aws.String(d.cfg.Key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(snapshotContentType),
	})
	if err != nil {
		return fmt.Errorf("uploading snapshot to %s: %w", d.cfg.URI(), err)
	}
	return nil
}

func (d *S3Destination) String() string { return d.cfg.URI() }
