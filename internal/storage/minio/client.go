// Package minio stores export documents in an S3-compatible bucket.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/emotion-log/internal/config"
	"github.com/dtroode/emotion-log/internal/model"
)

// objectAPI is the subset of *minio.Client the store uses.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// sdk adapts *minio.Client, whose GetObject returns a concrete type.
type sdk struct{ *minio.Client }

func (s sdk) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return s.Client.GetObject(ctx, bucketName, objectName, opts)
}

var _ model.Storage = (*Client)(nil)

// Client is a model.Storage over one bucket.
type Client struct {
	api    objectAPI
	bucket string
}

// New connects to the endpoint in cfg and makes sure the bucket exists.
func New(ctx context.Context, cfg config.Storage) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return newWithAPI(ctx, sdk{Client: mc}, cfg.Bucket)
}

func newWithAPI(ctx context.Context, api objectAPI, bucket string) (*Client, error) {
	c := &Client{api: api, bucket: bucket}

	if err := c.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return c, nil
}

func (c *Client) ensureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Put writes body under key, replacing any existing object.
func (c *Client) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := c.api.PutObject(ctx, c.bucket, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// Get opens the object under key. A missing object yields model.ErrNotFound.
func (c *Client) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if _, err := c.api.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}

	obj, err := c.api.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return obj, nil
}
