package config

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"

	"modsync/core/logger"
	"modsync/core/remote"
	"modsync/core/server"
	"modsync/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Remote holds configuration for the remote file server the packs are fetched from.
	Remote remote.Config `mapstructure:"remote"`
	// Paths holds the local directories the tool reads and writes.
	Paths Paths `mapstructure:"paths"`
	// Sync holds reconciliation behaviour switches.
	Sync Sync `mapstructure:"sync"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Server holds configuration for the pack file server.
	Server server.Config `mapstructure:"server"`
}

// Paths holds local filesystem locations.
type Paths struct {
	// MinecraftDir overrides the platform default game directory.
	MinecraftDir string `mapstructure:"minecraft_dir" default:""`
	// CacheDir is the directory owned by this tool (downloads, hash table).
	CacheDir string `mapstructure:"cache_dir" default:".cache"`
	// OutputDir receives archives built from the interactive menu when a
	// relative file name is given.
	OutputDir string `mapstructure:"output_dir" default:"dist"`
}

// Sync holds reconciliation options.
type Sync struct {
	// CompareHashes skips rewriting mods whose archived content matches the hash table.
	CompareHashes bool `mapstructure:"compare_hashes" default:"false"`
	// KeepArchive keeps the downloaded mod pack in the staging area after a sync.
	KeepArchive bool `mapstructure:"keep_archive" default:"true"`
}

// LoadConfig loads configuration from environment variables, an optional
// modsync.yaml and a .env file found in path.
func LoadConfig(path string) (*Config, error) {
	envPath := filepath.Join(path, ".env")
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	v.SetConfigName("modsync")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Map environment variables to nested keys (e.g. REMOTE_BASE_URL -> remote.base_url)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
