// Package config provides configuration management for modsync.
//
// It utilizes Viper for loading configuration from environment variables,
// an optional modsync.yaml file and a .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Remote: file server base URL, resource names, timeouts and chunking
//   - Paths: game directory override, cache directory, output directory
//   - Sync: reconciliation switches (content hash comparison, archive retention)
//   - Log: Logging level and format
//   - Storage: S3/MinIO credentials and bucket settings
//   - Server: pack file server settings
//
// Defaults live in `default:` struct tags and are registered with Viper by reflection,
// so every key can be overridden through the environment (REMOTE_BASE_URL, PATHS_CACHE_DIR, ...).
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	modsDir, err := cfg.Paths.ModsDir()
package config
