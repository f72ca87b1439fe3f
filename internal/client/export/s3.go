package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
)

var ErrNoBucket = errors.New("export bucket is not configured")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Config selects the bucket and, for S3-compatible stores such as MinIO,
// the endpoint and static credentials. Empty keys fall back to the default
// AWS credential chain.
type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// PutObjectAPI is the part of *s3.Client the exporter uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Exporter struct {
	api    PutObjectAPI
	bucket string
	now    func() time.Time
}

func NewS3Exporter(api PutObjectAPI, bucket string) *S3Exporter {
	return &S3Exporter{api: api, bucket: bucket, now: time.Now}
}

// NewS3Client builds an S3 client from cfg.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// ObjectKey is where a user's export taken at t is stored.
func ObjectKey(userID string, t time.Time) string {
	return fmt.Sprintf("exports/%s/%s.csv", userID, t.UTC().Format("20060102T150405Z"))
}

// Upload stores jobs as CSV and returns the object key.
func (e *S3Exporter) Upload(ctx context.Context, userID string, jobs []domain.JobApplication) (string, error) {
	if e.bucket == "" {
		return "", ErrNoBucket
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, jobs); err != nil {
		return "", fmt.Errorf("encode csv: %w", err)
	}

	key := ObjectKey(userID, e.now())
	_, err := e.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}
	return key, nil
}
