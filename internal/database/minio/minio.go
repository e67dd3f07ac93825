package minio

import (
	"context"
	"fmt"
	"io"
	"log"

	"learning-service/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func Connect(cfg config.MinIOConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}
	return client, nil
}

// OpenObject returns a reader over the object. GetObject is lazy, so the
// object is stat'ed first to surface a missing key before reading.
func OpenObject(ctx context.Context, client *minio.Client, bucket, key string) (io.ReadCloser, error) {
	object, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", bucket, key, err)
	}

	info, err := object.Stat()
	if err != nil {
		object.Close()
		return nil, fmt.Errorf("failed to stat %s/%s: %w", bucket, key, err)
	}

	log.Printf("Opened %s/%s (%d bytes)", bucket, key, info.Size)
	return object, nil
}
