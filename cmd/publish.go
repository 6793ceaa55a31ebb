package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"modsync/core/config"
	"modsync/core/logger"
	"modsync/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var publishName string

// publishCmd uploads a pack to object storage.
var publishCmd = &cobra.Command{
	Use:   "publish FILE",
	Short: "Upload a pack to object storage",
	Long: `Uploads FILE to the configured bucket so clients using the storage
source (remote.source=storage) can fetch it.

Examples:
  # Publish a freshly zipped mod pack
  modsync publish dist/ModPack.zip

  # Publish under a different object name
  modsync publish build/shaders.zip --name BSL_v10.1.zip`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishName, "name", "", "Object name (defaults to the file name)")
	RootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	name := publishName
	if name == "" {
		name = filepath.Base(path)
	}

	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket); err != nil {
		return err
	}

	upload, err := client.PutObject(ctx, cfg.Storage.Bucket, name, f, info.Size(), minio.PutObjectOptions{
		ContentType: contentType(name),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}

	l.Info("Pack published",
		zap.String("bucket", upload.Bucket),
		zap.String("object", upload.Key),
		zap.Int64("size", upload.Size),
		zap.String("etag", upload.ETag),
	)
	return nil
}

func contentType(name string) string {
	switch filepath.Ext(name) {
	case ".zip":
		return "application/zip"
	case ".jar":
		return "application/java-archive"
	default:
		return "application/octet-stream"
	}
}
