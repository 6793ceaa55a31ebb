package remote

import "time"

// Source kinds selectable through remote.source.
const (
	SourceHTTP    = "http"
	SourceStorage = "storage"
)

// Config holds configuration for the remote file server.
type Config struct {
	// Source selects where packs are fetched from: "http" or "storage".
	Source string `mapstructure:"source" default:"http"`
	// BaseURL is the URL every resource name is appended to.
	BaseURL string `mapstructure:"base_url" default:"http://172.30.1.1:8000/files/"`
	// ModPack is the resource name of the mod pack archive.
	ModPack string `mapstructure:"mod_pack" default:"ModPack.zip"`
	// ShaderPack is the resource name of the shader pack.
	ShaderPack string `mapstructure:"shader_pack" default:"BSL_v10.1.zip"`
	// ModLoader is the resource name of the mod loader installer.
	ModLoader string `mapstructure:"mod_loader" default:"neoforge-21.1.218-installer.jar"`
	// HashesEndpoint receives the local hash table as JSON.
	HashesEndpoint string `mapstructure:"hashes_endpoint" default:"mod-hashes"`
	// ApiKey is sent with the hash report when the server requires one.
	ApiKey string `mapstructure:"api_key" default:""`
	// TimeoutSeconds bounds connection setup and the wait for response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
	// ChunkSize is the number of bytes written between progress updates.
	ChunkSize int `mapstructure:"chunk_size" default:"4096"`
	// RequireSize rejects responses that do not advertise a content length.
	RequireSize bool `mapstructure:"require_size" default:"true"`
}

// Timeout returns the configured timeout, defaulting to 10s.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
