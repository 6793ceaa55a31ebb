package mods

import (
	"context"
	"errors"
	"fmt"
	"io"

	"modsync/core/apperr"
	"modsync/core/archive"
	"modsync/core/fetch"
	"modsync/core/gate"
	"modsync/core/hashstore"
	"modsync/core/logger"
	"modsync/core/progress"
	"modsync/core/reconcile"

	"github.com/buger/goterm"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DownloadName is the staging file name of the fetched mod pack.
const DownloadName = "mods.zip"

// Prompter is the subset of the interaction gate the mods feature uses.
type Prompter interface {
	AskYesNo(ctx context.Context, prompt string) gate.Decision
	Confirm(ctx context.Context, prompt string, pendingRemovalNames []string) gate.Decision
}

// Reporter delivers the hash table to the file server.
type Reporter interface {
	PostJSON(ctx context.Context, name string, payload any) error
}

// Options holds the mods feature settings.
type Options struct {
	// ModPack is the remote resource name of the mod pack.
	ModPack string
	// ModLoader is the remote resource name of the mod loader installer.
	ModLoader string
	// HashesEndpoint is the resource the hash report is posted to.
	HashesEndpoint string
	// CompareHashes skips rewriting mods whose content already matches.
	CompareHashes bool
	// KeepArchive keeps the downloaded pack in the staging area.
	KeepArchive bool
}

// Service handles mod operations.
type Service struct {
	fs       afero.Fs
	fetcher  *fetch.Fetcher
	prompter Prompter
	hashes   *hashstore.Store
	reporter Reporter
	out      io.Writer
	logger   *zap.Logger
	opts     Options
}

// NewService creates a new mods service. Operator-facing text goes to out.
func NewService(fs afero.Fs, fetcher *fetch.Fetcher, prompter Prompter, hashes *hashstore.Store, reporter Reporter, out io.Writer, logger *zap.Logger, opts Options) *Service {
	return &Service{
		fs:       fs,
		fetcher:  fetcher,
		prompter: prompter,
		hashes:   hashes,
		reporter: reporter,
		out:      out,
		logger:   logger,
		opts:     opts,
	}
}

// UpdateMods downloads the mod pack and reconciles modsDir against it. It
// returns a nil result when the operator declines the plan.
func (s *Service) UpdateMods(ctx context.Context, modsDir string) (*reconcile.ApplyResult, error) {
	l := logger.WithRunID(s.logger, logger.NewRunID())

	if err := s.fs.MkdirAll(modsDir, 0755); err != nil {
		return nil, apperr.IO("create directory", modsDir, err)
	}

	table, err := s.hashes.Load(modsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load hash table: %w", err)
	}

	packPath, err := s.download(ctx, s.opts.ModPack, DownloadName)
	if err != nil {
		return nil, err
	}

	pack, err := archive.Open(s.fs, packPath)
	if err != nil {
		return nil, err
	}
	defer pack.Close()

	manifest, err := s.manifest(pack)
	if err != nil {
		return nil, err
	}

	installed, err := hashstore.ListFiles(s.fs, modsDir)
	if err != nil {
		return nil, err
	}

	session := reconcile.NewSession(s.fs)
	plan, err := session.Plan(installed, manifest, reconcile.PlanOptions{
		CompareHashes: s.opts.CompareHashes,
		Installed:     table,
	})
	if err != nil {
		return nil, err
	}
	if err := reconcile.Validate(plan, modsDir); err != nil {
		l.Error("Mod pack rejected", zap.Error(err))
		return nil, err
	}
	l.Info("Plan computed",
		zap.Int("add", len(plan.ToAdd)),
		zap.Int("update", len(plan.ToUpdate)),
		zap.Int("remove", len(plan.ToRemove)),
		zap.Int("unchanged", len(plan.Unchanged)),
	)
	s.printPlan(plan)

	decision := s.prompter.Confirm(ctx, "Continue?", plan.ToRemove)
	if err := session.Confirm(decision == gate.Approved); err != nil {
		return nil, err
	}
	switch decision {
	case gate.Cancelled:
		return nil, apperr.ErrCancelled
	case gate.Declined:
		fmt.Fprintln(s.out, "No changes made")
		l.Info("Plan declined")
		return nil, nil
	}

	fmt.Fprintf(s.out, "Updating mods (%d)...\n", plan.Total)
	result, err := session.Apply(modsDir, pack, reconcile.ApplyOptions{
		OnRemove:  func(name string) { fmt.Fprintln(s.out, "  Removed", name) },
		OnInstall: func(name string) { fmt.Fprintln(s.out, "  Installing", name) },
	})
	if err != nil {
		var partial *reconcile.PartialError
		if errors.As(err, &partial) {
			l.Error("Apply failed",
				zap.String("stage", string(partial.Stage)),
				zap.String("name", partial.Name),
				zap.Strings("removed", partial.Removed),
				zap.Strings("installed", partial.Installed),
				zap.Error(partial.Err),
			)
		}
		return nil, err
	}

	if _, err := s.hashes.Rebuild(modsDir); err != nil {
		return result, fmt.Errorf("failed to rebuild hash table: %w", err)
	}

	if !s.opts.KeepArchive {
		pack.Close()
		if err := s.fs.Remove(packPath); err != nil {
			l.Warn("Failed to remove downloaded pack", zap.String("path", packPath), zap.Error(err))
		}
	}

	l.Info("Mods updated",
		zap.Int("removed", result.Removed),
		zap.Int("added", result.Added),
		zap.Int("updated", result.Updated),
		zap.Duration("elapsed", result.Elapsed),
	)
	fmt.Fprintln(s.out, goterm.Color("Successfully updated mods", goterm.GREEN))
	return result, nil
}

// DownloadLoader fetches the mod loader installer into the staging area.
func (s *Service) DownloadLoader(ctx context.Context) (string, error) {
	path, err := s.download(ctx, s.opts.ModLoader, s.opts.ModLoader)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(s.out, "Mod loader installer saved to", path)
	return path, nil
}

// ZipMods packs the .jar files of srcDir into dst.
func (s *Service) ZipMods(ctx context.Context, srcDir, dst string) (bool, error) {
	announced := false
	written, err := archive.ZipDir(s.fs, srcDir, dst, s.replaceFunc(ctx), func(name string) {
		if !announced {
			fmt.Fprintln(s.out, "Zipping directory...")
			announced = true
		}
		fmt.Fprintln(s.out, "  Adding", name)
	})
	if err != nil {
		return false, err
	}
	if written {
		fmt.Fprintln(s.out, goterm.Color("Successfully created "+dst, goterm.GREEN))
	}
	return written, nil
}

// Hashes returns the hash table for modsDir, rescanning when rebuild is set.
func (s *Service) Hashes(modsDir string, rebuild bool) (hashstore.Table, error) {
	if rebuild {
		return s.hashes.Rebuild(modsDir)
	}
	return s.hashes.Load(modsDir)
}

// SendHashes posts the hash table of modsDir to the file server.
func (s *Service) SendHashes(ctx context.Context, modsDir string) error {
	if s.reporter == nil {
		return errors.New("hash reporting requires the http source")
	}

	table, err := s.hashes.Load(modsDir)
	if err != nil {
		return err
	}
	if err := s.reporter.PostJSON(ctx, s.opts.HashesEndpoint, table); err != nil {
		return fmt.Errorf("failed to post mod hashes: %w", err)
	}
	s.logger.Info("Mod hashes sent", zap.Int("files", len(table)))
	return nil
}

func (s *Service) download(ctx context.Context, resource, destName string) (string, error) {
	fmt.Fprintf(s.out, "Downloading %s...\n", resource)
	bar := progress.New(s.out, 30, goterm.YELLOW)
	path, err := s.fetcher.Fetch(ctx, resource, destName, bar.Update)
	bar.Finish()
	if err != nil {
		if apperr.IsCancelled(err) {
			fmt.Fprintln(s.out, goterm.Color("(Cancelled)", goterm.RED))
		}
		return "", err
	}
	return path, nil
}

func (s *Service) manifest(pack *archive.Archive) (reconcile.Manifest, error) {
	var sums map[string]string
	if s.opts.CompareHashes {
		var err error
		sums, err = pack.HashEntries()
		if err != nil {
			return reconcile.Manifest{}, err
		}
	}

	manifest := reconcile.Manifest{}
	for _, e := range pack.Entries() {
		manifest.Entries = append(manifest.Entries, reconcile.Entry{Name: e.Name, Size: e.Size, Hash: sums[e.Name]})
	}
	return manifest, nil
}

func (s *Service) printPlan(plan *reconcile.Plan) {
	for _, name := range plan.ToAdd {
		fmt.Fprintln(s.out, " ", goterm.Color("A:", goterm.GREEN), name)
	}
	for _, name := range plan.ToUpdate {
		fmt.Fprintln(s.out, " ", goterm.Color("U:", goterm.YELLOW), name)
	}
	if len(plan.Unchanged) > 0 {
		fmt.Fprintf(s.out, "  %d unchanged\n", len(plan.Unchanged))
	}
}

func (s *Service) replaceFunc(ctx context.Context) archive.ReplaceFunc {
	return func(path string) (bool, error) {
		prompt := fmt.Sprintf("File %q already exists. Would you like to replace it?", path)
		switch s.prompter.AskYesNo(ctx, prompt) {
		case gate.Approved:
			return true, nil
		case gate.Declined:
			return false, nil
		default:
			return false, apperr.ErrCancelled
		}
	}
}
