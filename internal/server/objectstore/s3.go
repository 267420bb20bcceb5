// Package objectstore wraps the S3-compatible bucket holding uploaded
// images: presigned GET URLs for private-bucket reads, presigned PUT URLs
// for uploads, and object removal for entry-deletion cleanup.
package objectstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Indirections for tests; the AWS SDK offers no lightweight fakes.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}
)

// DefaultSignExpiry is the signed-URL lifetime used when the caller does
// not override it.
const DefaultSignExpiry = time.Hour

// UploadExpiry bounds how long a minted upload URL stays usable.
const UploadExpiry = 15 * time.Minute

type Options struct {
	AccessKey    string
	SecretKey    string
	Region       string
	BaseEndpoint string
	Bucket       string
}

type Store struct {
	opts Options
}

func New(opts Options) *Store {
	return &Store{opts: opts}
}

// Configured reports whether credentials and a bucket are present. When
// false, signing endpoints return a server-misconfigured error and deletion
// cleanup is skipped.
func (s *Store) Configured() bool {
	return s.opts.Bucket != "" && s.opts.AccessKey != "" && s.opts.SecretKey != ""
}

// Bucket returns the configured bucket name.
func (s *Store) Bucket() string {
	return s.opts.Bucket
}

func (s *Store) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.opts.AccessKey,
			s.opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.opts.BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// PresignGet returns a time-limited URL granting read access to key.
// An empty bucket argument falls back to the configured bucket.
func (s *Store) PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	client, err := s.client(ctx)
	if err != nil {
		return "", err
	}

	if bucket == "" {
		bucket = s.opts.Bucket
	}
	if expires <= 0 {
		expires = DefaultSignExpiry
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// PresignPut returns a URL the client can PUT an upload to, keyed under the
// configured bucket.
func (s *Store) PresignPut(ctx context.Context, key string) (string, error) {
	client, err := s.client(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.opts.Bucket

	req, err := presignPutObject(newS3PresignClient(client), ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(UploadExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// Remove deletes the object. Callers doing best-effort cleanup are expected
// to swallow the returned error.
func (s *Store) Remove(ctx context.Context, key string) error {
	client, err := s.client(ctx)
	if err != nil {
		return err
	}

	bucket := s.opts.Bucket

	if _, err := deleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	return nil
}

// PublicURL composes the public-bucket URL stored as the image reference
// when the deployment does not use signed URLs.
func (s *Store) PublicURL(key string) string {
	base := s.opts.BaseEndpoint
	if base == "" {
		return key
	}
	if base[len(base)-1] != '/' {
		base += "/"
	}
	return base + s.opts.Bucket + "/" + key
}
