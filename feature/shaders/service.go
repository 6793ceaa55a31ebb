package shaders

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"modsync/core/apperr"
	"modsync/core/fetch"
	"modsync/core/gate"
	"modsync/core/progress"

	"github.com/buger/goterm"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Prompter asks before an installed shader pack is replaced.
type Prompter interface {
	AskYesNo(ctx context.Context, prompt string) gate.Decision
}

// Service installs the shader pack.
type Service struct {
	fs       afero.Fs
	fetcher  *fetch.Fetcher
	prompter Prompter
	pack     string
	out      io.Writer
	logger   *zap.Logger
}

// NewService creates a new shaders service for the named remote pack.
func NewService(fs afero.Fs, fetcher *fetch.Fetcher, prompter Prompter, pack string, out io.Writer, logger *zap.Logger) *Service {
	return &Service{fs: fs, fetcher: fetcher, prompter: prompter, pack: pack, out: out, logger: logger}
}

// UpdateShaders downloads the shader pack and copies it into shaderpacksDir.
// It reports false when the operator keeps the installed copy.
func (s *Service) UpdateShaders(ctx context.Context, shaderpacksDir string) (bool, error) {
	fmt.Fprintf(s.out, "Downloading %s...\n", s.pack)
	bar := progress.New(s.out, 30, goterm.YELLOW)
	staged, err := s.fetcher.Fetch(ctx, s.pack, s.pack, bar.Update)
	bar.Finish()
	if err != nil {
		return false, err
	}

	dest := filepath.Join(shaderpacksDir, s.pack)
	exists, err := afero.Exists(s.fs, dest)
	if err != nil {
		return false, apperr.IO("stat", dest, err)
	}
	if exists {
		prompt := fmt.Sprintf("File %q already exists. Would you like to replace it?", dest)
		switch s.prompter.AskYesNo(ctx, prompt) {
		case gate.Declined:
			return false, nil
		case gate.Cancelled:
			return false, apperr.ErrCancelled
		}
	}

	if err := s.fs.MkdirAll(shaderpacksDir, 0755); err != nil {
		return false, apperr.IO("create directory", shaderpacksDir, err)
	}
	if err := copyFile(s.fs, staged, dest); err != nil {
		return false, err
	}

	s.logger.Info("Shader pack installed", zap.String("path", dest))
	fmt.Fprintln(s.out, goterm.Color("Successfully installed shaderpack", goterm.GREEN))
	return true, nil
}

// copyFile copies src to a temporary sibling of dst and renames it into place.
func copyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return apperr.IO("open", src, err)
	}
	defer in.Close()

	tmp := dst + ".part"
	out, err := fs.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return apperr.IO("create", tmp, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		fs.Remove(tmp)
		return apperr.IO("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		fs.Remove(tmp)
		return apperr.IO("write", tmp, err)
	}
	if err := fs.Rename(tmp, dst); err != nil {
		fs.Remove(tmp)
		return apperr.IO("rename", dst, err)
	}
	return nil
}
