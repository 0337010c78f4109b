package s3client

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"

	"staff-tools-backend/config"
)

var Client *minio.Client

type Provider interface {
	MakeBucket(ctx context.Context) error
	PutObject(ctx context.Context, path, contentType string, body []byte) error
	GetObject(ctx context.Context, path string) ([]byte, error)
	PresignedURL(ctx context.Context, path string, ttl time.Duration) (*url.URL, error)
}

func NewClient(minioClient *minio.Client) Provider {
	return &s3client{minioClient: minioClient}
}

type s3client struct {
	minioClient *minio.Client
}

func (s s3client) MakeBucket(ctx context.Context) error {
	bucketName := config.Conf.S3.BucketName
	location := "us-east-1"
	exists, err := s.minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
}

func (s s3client) PutObject(ctx context.Context, path, contentType string, body []byte) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.minioClient.PutObject(ctx, config.Conf.S3.BucketName, path,
		bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (s s3client) GetObject(ctx context.Context, path string) ([]byte, error) {
	obj, err := s.minioClient.GetObject(ctx, config.Conf.S3.BucketName, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

func (s s3client) PresignedURL(ctx context.Context, path string, ttl time.Duration) (*url.URL, error) {
	return s.minioClient.PresignedGetObject(ctx, config.Conf.S3.BucketName, path, ttl, url.Values{})
}
