package objectstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/matt-dz/foodgram/internal/image"
)

type s3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput,
		optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

var _ s3Client = (*s3.Client)(nil)

type S3Config struct {
	// Endpoint is empty for AWS itself. Any other value switches to
	// path style addressing.
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

type S3 struct {
	client    s3Client
	bucket    string
	publicURL string
}

var _ image.Store = (*S3)(nil)

func NewS3(conf S3Config) *S3 {
	opts := s3.Options{
		Region: conf.Region,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     conf.AccessKey,
				SecretAccessKey: conf.SecretKey,
				Source:          "foodgram config",
			}, nil
		}),
	}
	if conf.Endpoint != "" {
		opts.BaseEndpoint = aws.String(conf.Endpoint)
		opts.UsePathStyle = true
	}

	return &S3{
		client:    s3.New(opts),
		bucket:    conf.Bucket,
		publicURL: conf.PublicURL,
	}
}

func (s *S3) WriteRecipeImage(ctx context.Context, suffix string, data []byte) (string, error) {
	key, err := newKey(suffix)
	if err != nil {
		return "", err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType(suffix)),
		CacheControl:  aws.String(cacheControl),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %q: %w", key, err)
	}
	return key, nil
}

func (s *S3) DeleteKey(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

func (s *S3) FileURL(key string) string {
	return objectURL(s.publicURL, key)
}
