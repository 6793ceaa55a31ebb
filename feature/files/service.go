package files

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modsync/core/apperr"
	"modsync/core/archive"
	"modsync/core/hashstore"
	"modsync/core/reconcile"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrNotFound is returned for names that do not exist in the served directory.
var ErrNotFound = errors.New("file not found")

const reportsDir = "reports"

// FileInfo describes one served file.
type FileInfo struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// Report is the server's answer to a client hash report: the plan the client
// would apply against the current mod pack.
type Report struct {
	ID       string          `json:"id"`
	Received int             `json:"received"`
	Plan     *reconcile.Plan `json:"plan,omitempty"`
}

// Service serves the files of one directory.
type Service struct {
	fs      afero.Fs
	dir     string
	modPack string
	logger  *zap.Logger
}

// NewService creates a service for dir. modPack names the archive client
// reports are compared against.
func NewService(fs afero.Fs, dir, modPack string, logger *zap.Logger) *Service {
	return &Service{fs: fs, dir: dir, modPack: modPack, logger: logger}
}

// List returns every regular file in the directory with its size and hash.
func (s *Service) List() ([]FileInfo, error) {
	names, err := hashstore.ListFiles(s.fs, s.dir)
	if err != nil {
		return nil, err
	}

	files := make([]FileInfo, 0, len(names))
	for _, name := range names {
		path := filepath.Join(s.dir, name)
		info, err := s.fs.Stat(path)
		if err != nil {
			return nil, apperr.IO("stat", path, err)
		}
		sum, err := hashstore.HashFile(s.fs, path)
		if err != nil {
			return nil, err
		}
		files = append(files, FileInfo{Name: name, Size: info.Size(), SHA256: sum})
	}
	return files, nil
}

// Open returns the named file and its size. name must be a single path element.
func (s *Service) Open(name string) (afero.File, int64, error) {
	if err := validateName(name); err != nil {
		return nil, 0, err
	}

	path := filepath.Join(s.dir, name)
	info, err := s.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, 0, apperr.IO("stat", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	f, err := s.fs.Open(path)
	if err != nil {
		return nil, 0, apperr.IO("open", path, err)
	}
	return f, info.Size(), nil
}

// SaveReport stores a client hash table under id and compares it with the
// mod pack when one is present.
func (s *Service) SaveReport(id string, table hashstore.Table) (*Report, error) {
	if err := validateName(id); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	dir := filepath.Join(s.dir, reportsDir)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return nil, apperr.IO("create directory", dir, err)
	}
	path := filepath.Join(dir, id+".json")
	if err := afero.WriteFile(s.fs, path, data, 0644); err != nil {
		return nil, apperr.IO("write", path, err)
	}

	report := &Report{ID: id, Received: len(table)}

	packPath := filepath.Join(s.dir, s.modPack)
	if ok, _ := afero.Exists(s.fs, packPath); !ok {
		s.logger.Warn("Mod pack not found, report not compared", zap.String("path", packPath))
		return report, nil
	}

	pack, err := archive.Open(s.fs, packPath)
	if err != nil {
		return nil, err
	}
	defer pack.Close()

	sums, err := pack.HashEntries()
	if err != nil {
		return nil, err
	}

	manifest := reconcile.Manifest{}
	for _, e := range pack.Entries() {
		manifest.Entries = append(manifest.Entries, reconcile.Entry{Name: e.Name, Size: e.Size, Hash: sums[e.Name]})
	}
	report.Plan = reconcile.ComputePlan(table.Names(), manifest, reconcile.PlanOptions{
		CompareHashes: true,
		Installed:     table,
	})
	return report, nil
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return apperr.UnsafePath(name)
	}
	return nil
}
