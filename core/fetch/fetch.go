package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"modsync/core/apperr"
	"modsync/core/gate"
	"modsync/core/remote"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultChunkSize is the number of bytes copied between progress updates.
const DefaultChunkSize = 4096

const partSuffix = ".part"

// ProgressFunc receives the cumulative bytes written and the advertised total,
// which is -1 when unknown.
type ProgressFunc func(written, total int64)

// Prompter asks the operator whether an existing download may be replaced.
type Prompter interface {
	AskYesNo(ctx context.Context, prompt string) gate.Decision
}

// Fetcher downloads remote resources into a staging directory.
type Fetcher struct {
	source      remote.Source
	fs          afero.Fs
	dir         string
	chunkSize   int
	requireSize bool
	prompter    Prompter
	logger      *zap.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithChunkSize overrides DefaultChunkSize.
func WithChunkSize(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.chunkSize = n
		}
	}
}

// WithRequireSize selects the unknown-size policy. When true (the default), a
// response without a content length fails with apperr.ErrSizeUnknown.
func WithRequireSize(require bool) Option {
	return func(f *Fetcher) {
		f.requireSize = require
	}
}

// New creates a fetcher writing into dir.
func New(source remote.Source, fs afero.Fs, dir string, prompter Prompter, logger *zap.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		source:      source,
		fs:          fs,
		dir:         dir,
		chunkSize:   DefaultChunkSize,
		requireSize: true,
		prompter:    prompter,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Dir returns the staging directory.
func (f *Fetcher) Dir() string {
	return f.dir
}

// Fetch downloads resource to destName inside the staging directory and
// returns the local path.
//
// If the destination exists the operator is asked before any request is made;
// declining returns the existing path untouched. ctx is checked between
// chunks. On cancellation or any other failure the partial download is
// removed and an existing destination is left as it was.
func (f *Fetcher) Fetch(ctx context.Context, resource, destName string, onProgress ProgressFunc) (string, error) {
	if resource == "" {
		return "", errors.New("fetch: empty resource name")
	}
	if err := validateName(destName); err != nil {
		return "", err
	}

	dest := filepath.Join(f.dir, destName)

	exists, err := afero.Exists(f.fs, dest)
	if err != nil {
		return "", apperr.IO("stat", dest, err)
	}
	if exists {
		prompt := fmt.Sprintf("File %q already exists. Would you like to replace it?", dest)
		switch f.prompter.AskYesNo(ctx, prompt) {
		case gate.Declined:
			f.logger.Info("Keeping existing download", zap.String("path", dest))
			return dest, nil
		case gate.Cancelled:
			return "", apperr.ErrCancelled
		}
	}

	if err := ctx.Err(); err != nil {
		return "", remote.Classify("fetch "+resource, err)
	}

	if err := f.fs.MkdirAll(f.dir, 0755); err != nil {
		return "", apperr.IO("create directory", f.dir, err)
	}

	f.logger.Info("Downloading", zap.String("resource", resource), zap.String("dest", dest))

	body, total, err := f.source.Open(ctx, resource)
	if err != nil {
		return "", err
	}
	defer body.Close()

	if total < 0 {
		if f.requireSize {
			return "", fmt.Errorf("fetch %s: %w", resource, apperr.ErrSizeUnknown)
		}
		total = -1
	}

	if err := f.stream(ctx, resource, body, dest, total, onProgress); err != nil {
		return "", err
	}
	return dest, nil
}

// stream copies body into a sibling part file and renames it over dest once complete.
func (f *Fetcher) stream(ctx context.Context, resource string, body io.Reader, dest string, total int64, onProgress ProgressFunc) error {
	part := dest + partSuffix
	out, err := f.fs.OpenFile(part, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return apperr.IO("create", part, err)
	}

	fail := func(err error) error {
		out.Close()
		if rmErr := f.fs.Remove(part); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			f.logger.Warn("Failed to remove partial download", zap.String("path", part), zap.Error(rmErr))
		}
		return err
	}

	buf := make([]byte, f.chunkSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			f.logger.Info("Download cancelled", zap.String("resource", resource), zap.Int64("written", written))
			return fail(remote.Classify("download "+resource, err))
		}

		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := out.Write(buf[:n]); err != nil {
				return fail(apperr.IO("write", part, err))
			}
			written += int64(n)
			if onProgress != nil {
				onProgress(written, total)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fail(remote.Classify("download "+resource, readErr))
		}
	}

	if err := out.Close(); err != nil {
		f.fs.Remove(part)
		return apperr.IO("write", part, err)
	}
	if err := f.fs.Rename(part, dest); err != nil {
		f.fs.Remove(part)
		return apperr.IO("rename", dest, err)
	}

	f.logger.Debug("Download complete", zap.String("dest", dest), zap.Int64("bytes", written))
	return nil
}

// validateName accepts a single path element only.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.VolumeName(name) != "" {
		return apperr.UnsafePath(name)
	}
	return nil
}
