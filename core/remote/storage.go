package remote

import (
	"context"
	"fmt"
	"io"

	"modsync/core/apperr"
	"modsync/core/storage"

	"github.com/minio/minio-go/v7"
)

// StorageSource fetches resources as objects of one bucket.
type StorageSource struct {
	client storage.Client
	bucket string
}

// NewStorageSource creates a source reading from bucket.
func NewStorageSource(client storage.Client, bucket string) *StorageSource {
	return &StorageSource{client: client, bucket: bucket}
}

// Open implements Source. The object size comes from StatObject.
func (s *StorageSource) Open(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	op := fmt.Sprintf("get s3://%s/%s", s.bucket, name)

	info, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		return nil, 0, storageError(op, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, storageError(op, err)
	}

	return obj, info.Size, nil
}

func storageError(op string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode != 0 {
		reason := resp.Code
		if reason == "" {
			reason = resp.Message
		}
		return fmt.Errorf("%s: %w", op, &apperr.RemoteError{Status: resp.StatusCode, Reason: reason})
	}
	return Classify(op, err)
}
