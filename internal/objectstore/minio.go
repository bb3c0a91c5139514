package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/matt-dz/foodgram/internal/image"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type minioClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64,
		opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

var _ minioClient = (*minio.Client)(nil)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	PublicURL string
	Secure    bool
}

type Minio struct {
	client    minioClient
	bucket    string
	region    string
	publicURL string
}

var _ image.Store = (*Minio)(nil)

func NewMinio(conf MinioConfig) (*Minio, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.Secure,
		Region: conf.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}
	return &Minio{
		client:    client,
		bucket:    conf.Bucket,
		region:    conf.Region,
		publicURL: conf.PublicURL,
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (m *Minio) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %q: %w", m.bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.region}); err != nil {
		return fmt.Errorf("creating bucket %q: %w", m.bucket, err)
	}
	return nil
}

func (m *Minio) WriteRecipeImage(ctx context.Context, suffix string, data []byte) (string, error) {
	key, err := newKey(suffix)
	if err != nil {
		return "", err
	}
	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType(suffix),
		CacheControl: cacheControl,
	})
	if err != nil {
		return "", fmt.Errorf("uploading %q: %w", key, err)
	}
	return key, nil
}

func (m *Minio) DeleteKey(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	return nil
}

func (m *Minio) FileURL(key string) string {
	return objectURL(m.publicURL, key)
}
