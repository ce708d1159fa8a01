package storage

import (
	"bytes"
	"context"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"room-service/internal/config"
)

// NewMinioClient initializes a MinIO client and ensures the bucket exists.
func NewMinioClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*minio.Client, error) {
	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSSL,
	})
	if err != nil {
		return nil, err
	}
	exists, errBucket := minioClient.BucketExists(ctx, cfg.MinioBucket)
	if errBucket != nil {
		return nil, errBucket
	}
	if !exists {
		err = minioClient.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: ""})
		if err != nil {
			return nil, err
		}
		logger.Info("Created bucket", zap.String("bucket", cfg.MinioBucket))
	}
	return minioClient, nil
}

// MinioImageStore keeps generated images in a bucket and hands out presigned
// download links.
type MinioImageStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

func NewMinioImageStore(client *minio.Client, bucket string, expiry time.Duration) *MinioImageStore {
	return &MinioImageStore{client: client, bucket: bucket, expiry: expiry}
}

func (s *MinioImageStore) Save(ctx context.Context, key string, data []byte) (string, string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/png"})
	if err != nil {
		return "", "", errors.Wrapf(err, "upload %s", key)
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, nil)
	if err != nil {
		return "", "", errors.Wrapf(err, "presign %s", key)
	}
	return u.String(), s.bucket + "/" + key, nil
}

// Ping checks the bucket is reachable.
func (s *MinioImageStore) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}
