package main

import (
	"context"
	"fmt"
	"log"

	"modsync/core/config"
	"modsync/core/storage"

	"github.com/minio/minio-go/v7"
)

// Checks that every configured pack is published to the bucket.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
	if err != nil {
		log.Fatal(err)
	}
	if !exists {
		log.Fatalf("bucket %s does not exist", cfg.Storage.Bucket)
	}

	for _, name := range []string{cfg.Remote.ModPack, cfg.Remote.ShaderPack, cfg.Remote.ModLoader} {
		info, err := client.StatObject(ctx, cfg.Storage.Bucket, name, minio.StatObjectOptions{})
		if err != nil {
			fmt.Printf("MISSING %s: %v\n", name, err)
			continue
		}
		fmt.Printf("OK      %s (%d bytes, etag %s, modified %s)\n", name, info.Size, info.ETag, info.LastModified.Format("2006-01-02 15:04"))
	}
}
