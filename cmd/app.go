package cmd

import (
	"context"
	"fmt"
	"io"

	"modsync/core/cache"
	"modsync/core/config"
	"modsync/core/fetch"
	"modsync/core/gate"
	"modsync/core/hashstore"
	"modsync/core/logger"
	"modsync/core/remote"
	"modsync/core/storage"
	"modsync/feature/mods"
	"modsync/feature/shaders"

	"github.com/buger/goterm"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// app wires the client components for one invocation.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	out     io.Writer
	gate    *gate.Gate
	cache   *cache.Manager
	mods    *mods.Service
	shaders *shaders.Service
}

func newApp(in io.Reader, out io.Writer, path string, autoApprove bool) (*app, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	fs := afero.NewOsFs()
	cm := cache.New(fs, cfg.Paths.CacheDir)
	if err := cm.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	source, err := newSource(cfg)
	if err != nil {
		return nil, err
	}

	g := gate.New(in, out, gate.WithAutoApprove(autoApprove))
	fetcher := fetch.New(source, fs, cm.Downloads(), g, l,
		fetch.WithChunkSize(cfg.Remote.ChunkSize),
		fetch.WithRequireSize(cfg.Remote.RequireSize),
	)
	hashes := hashstore.New(fs, cm.HashesPath(), l)
	reporter := remote.NewHTTPSource(cfg.Remote.BaseURL, cfg.Remote.Timeout()).WithAPIKey(cfg.Remote.ApiKey)

	return &app{
		cfg:   cfg,
		log:   l,
		out:   out,
		gate:  g,
		cache: cm,
		mods: mods.NewService(fs, fetcher, g, hashes, reporter, out, l, mods.Options{
			ModPack:        cfg.Remote.ModPack,
			ModLoader:      cfg.Remote.ModLoader,
			HashesEndpoint: cfg.Remote.HashesEndpoint,
			CompareHashes:  cfg.Sync.CompareHashes,
			KeepArchive:    cfg.Sync.KeepArchive,
		}),
		shaders: shaders.NewService(fs, fetcher, g, cfg.Remote.ShaderPack, out, l),
	}, nil
}

// newSource returns the configured pack source.
func newSource(cfg *config.Config) (remote.Source, error) {
	switch cfg.Remote.Source {
	case remote.SourceHTTP, "":
		return remote.NewHTTPSource(cfg.Remote.BaseURL, cfg.Remote.Timeout()), nil
	case remote.SourceStorage:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		return remote.NewStorageSource(client, cfg.Storage.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown remote source %q", cfg.Remote.Source)
	}
}

func (a *app) close() {
	_ = a.log.Sync()
}

// run executes one action other than zip-mods, which needs operands.
func (a *app) run(ctx context.Context, action Action) error {
	switch action {
	case ActionUpdateMods:
		modsDir, err := a.cfg.Paths.ModsDir()
		if err != nil {
			return err
		}
		_, err = a.mods.UpdateMods(ctx, modsDir)
		return err

	case ActionUpdateShaders:
		dir, err := a.cfg.Paths.ShaderpacksDir()
		if err != nil {
			return err
		}
		_, err = a.shaders.UpdateShaders(ctx, dir)
		return err

	case ActionDownloadLoader:
		_, err := a.mods.DownloadLoader(ctx)
		return err

	case ActionClearCache:
		if err := a.cache.Clear(); err != nil {
			return err
		}
		a.log.Info("Cache cleared", zap.String("dir", a.cache.Root()))
		fmt.Fprintln(a.out, goterm.Color("Cache cleared", goterm.GREEN))
		return nil

	default:
		return fmt.Errorf("action %s needs arguments", action.Flag())
	}
}

func (a *app) zipMods(ctx context.Context, dir, file string) error {
	_, err := a.mods.ZipMods(ctx, dir, file)
	return err
}
