package files

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	prefix  string
	handler *Handler
}

// Options configures the files feature.
type Options struct {
	// Dir is the served directory.
	Dir string
	// Prefix is the route prefix, e.g. "/files".
	Prefix string
	// ModPack names the archive hash reports are compared against.
	ModPack string
	// HashesEndpoint is the report route below Prefix. Empty disables it.
	HashesEndpoint string
	// ApiKey protects the report route.
	ApiKey string
}

// NewFeature creates a new files feature.
func NewFeature(fs afero.Fs, opts Options, logger *zap.Logger) *Feature {
	svc := NewService(fs, opts.Dir, opts.ModPack, logger)
	h := NewHandler(svc, opts.HashesEndpoint, opts.ApiKey)
	return &Feature{prefix: opts.Prefix, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "files"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app.Group(f.prefix))
	return nil
}
