package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Config struct {
	Region        string
	AccessKey     string
	SecretKey     string
	UploadTimeout time.Duration
}

// Error wraps any object-storage transport or write failure with the
// bucket/key it concerned.
type Error struct {
	Bucket string
	Key    string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: upload %s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client is a thin gateway over the S3 SDK. It owns the long-lived SDK
// client and nothing else; no retries, no existence checks.
type Client struct {
	cfg Config
	s3  *s3.Client
}

// NewClient builds the gateway. Static credentials are used only when both
// halves are present; otherwise the SDK's ambient resolution chain applies.
// Missing explicit credentials are not a construction error.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Region == "" {
		return nil, errors.New("s3 region is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg: cfg,
		s3:  s3.NewFromConfig(awsCfg),
	}, nil
}

// Upload writes body as the full content of bucket/key, overwriting any
// existing object. Failures surface as *Error with no automatic retry.
func (c *Client) Upload(ctx context.Context, bucket, key string, body []byte) error {
	if c == nil {
		return errors.New("s3 client not initialized")
	}
	if bucket == "" || key == "" {
		return errors.New("bucket and object key are required")
	}

	if c.cfg.UploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.UploadTimeout)
		defer cancel()
	}

	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return &Error{Bucket: bucket, Key: key, Err: err}
	}
	return nil
}

// ObjectURL derives the public URL for bucket/key. It is a pure string
// composition and does not verify the object exists. The shape is fixed
// for compatibility with stored links.
func ObjectURL(bucket, key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
}

// ObjectURL on the client mirrors the package function so callers holding
// the gateway need no second import.
func (c *Client) ObjectURL(bucket, key string) string {
	return ObjectURL(bucket, key)
}
