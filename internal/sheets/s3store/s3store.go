// Package s3store keeps the ledger workbook as a single object in an S3
// compatible bucket. Every save overwrites the whole object.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"financas/internal/core"
	"financas/internal/sheets"
	"financas/internal/sheets/xlsx"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var _ sheets.LedgerStore = (*Store)(nil)

// Config describes the bucket and object holding the ledger. Endpoint is set
// for MinIO or LocalStack.
type Config struct {
	Bucket          string
	Key             string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// objectAPI is the subset of the S3 client used by Store.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Store struct {
	client objectAPI
	bucket string
	key    string
}

// New builds an S3 client from cfg. Static credentials are used when both
// keys are set, otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("missing S3_BUCKET")
	}
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}
	return newStore(client, cfg.Bucket, cfg.Key), nil
}

func newStore(client objectAPI, bucket, key string) *Store {
	return &Store{client: client, bucket: bucket, key: key}
}

// Load downloads and decodes the workbook. A missing object is an empty ledger.
func (s *Store) Load(ctx context.Context) ([]core.Row, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			slog.DebugContext(ctx, "Ledger object not found, starting empty", "bucket", s.bucket, "key", s.key)
			return nil, nil
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	rows, err := xlsx.Decode(out.Body)
	if err != nil {
		return nil, fmt.Errorf("decode s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return rows, nil
}

// Save encodes rows and uploads them over the existing object.
func (s *Store) Save(ctx context.Context, rows []core.Row) error {
	data, err := xlsx.Encode(rows)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(xlsx.ContentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, s.key, err)
	}
	slog.DebugContext(ctx, "Ledger object written", "bucket", s.bucket, "key", s.key, "rows", len(rows))
	return nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	return errors.As(err, &notFound)
}
