package cmd

import (
	"fmt"

	"modsync/core/config"
	"modsync/core/loader"
	"modsync/core/logger"
	"modsync/core/middleware/rayid"
	"modsync/feature/files"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pack directory over HTTP",
	Long: `Starts the file server clients fetch packs from. Files in server.dir
(default dist) are served under server.prefix (default /files).`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	mgr := loader.NewManager(logg)
	mgr.Register(files.NewFeature(afero.NewOsFs(), files.Options{
		Dir:            cfg.Server.Dir,
		Prefix:         cfg.Server.RoutePrefix(),
		ModPack:        cfg.Remote.ModPack,
		HashesEndpoint: cfg.Remote.HashesEndpoint,
		ApiKey:         cfg.Server.ApiKey,
	}, logg))

	// RayID first so every later line can be traced.
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	if err := mgr.LoadAll(app); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("port", cfg.Server.Port), zap.String("dir", cfg.Server.Dir))
		errCh <- app.Listen(":" + cfg.Server.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logg.Info("Shutting down server...")
	return app.Shutdown()
}
