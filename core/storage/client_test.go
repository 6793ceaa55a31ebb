package storage_test

import (
	"context"
	"errors"
	"testing"

	"modsync/core/storage"
	"modsync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Bucket:    "modpacks",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "modpacks").Return(true, nil)

		assert.NoError(t, storage.EnsureBucket(ctx, client, "modpacks"))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "modpacks").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "modpacks", mock.Anything).Return(nil)

		assert.NoError(t, storage.EnsureBucket(ctx, client, "modpacks"))
		client.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "modpacks").Return(false, errors.New("denied"))

		err := storage.EnsureBucket(ctx, client, "modpacks")
		assert.ErrorContains(t, err, "denied")
	})

	t.Run("CreateFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "modpacks").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "modpacks", minio.MakeBucketOptions{}).Return(errors.New("quota"))

		err := storage.EnsureBucket(ctx, client, "modpacks")
		assert.ErrorContains(t, err, "create bucket modpacks")
	})
}
