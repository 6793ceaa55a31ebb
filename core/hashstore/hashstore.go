package hashstore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"modsync/core/apperr"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Table maps an installed file name to the lowercase hex SHA-256 of its content.
type Table map[string]string

// Names returns the table keys in lexicographic order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store persists a Table as a single JSON object. It is read and written wholesale.
type Store struct {
	fs     afero.Fs
	path   string
	logger *zap.Logger
}

// New creates a store persisted at path.
func New(fs afero.Fs, path string, logger *zap.Logger) *Store {
	return &Store{fs: fs, path: path, logger: logger}
}

// Path returns the location of the persisted record.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted table verbatim when it exists, without checking it
// against the filesystem. Otherwise it hashes every regular file in targetDir,
// persists the result and returns it.
func (s *Store) Load(targetDir string) (Table, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err == nil {
		var table Table
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.path, err)
		}
		if table == nil {
			table = Table{}
		}
		return table, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, apperr.IO("read", s.path, err)
	}

	s.logger.Info("Initializing mods hash table", zap.String("dir", targetDir))
	return s.Rebuild(targetDir)
}

// Rebuild rescans targetDir unconditionally and persists the new table.
func (s *Store) Rebuild(targetDir string) (Table, error) {
	table, err := Scan(s.fs, targetDir)
	if err != nil {
		return nil, err
	}
	if err := s.Save(table); err != nil {
		return nil, err
	}
	s.logger.Debug("Hash table written", zap.String("path", s.path), zap.Int("files", len(table)))
	return table, nil
}

// Save writes table, replacing any previous record.
func (s *Store) Save(table Table) error {
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode hash table: %w", err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return apperr.IO("create directory", filepath.Dir(s.path), err)
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0644); err != nil {
		return apperr.IO("write", s.path, err)
	}
	return nil
}

// Clear deletes the persisted record so the next Load bootstraps again.
func (s *Store) Clear() error {
	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperr.IO("remove", s.path, err)
	}
	return nil
}

// Scan hashes every regular file directly inside dir.
func Scan(fs afero.Fs, dir string) (Table, error) {
	names, err := ListFiles(fs, dir)
	if err != nil {
		return nil, err
	}

	table := make(Table, len(names))
	for _, name := range names {
		sum, err := HashFile(fs, filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		table[name] = sum
	}
	return table, nil
}

// ListFiles returns the names of the regular files directly inside dir, sorted.
func ListFiles(fs afero.Fs, dir string) ([]string, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, apperr.IO("list", dir, err)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.Mode().IsRegular() {
			names = append(names, info.Name())
		}
	}
	return names, nil
}

// HashFile returns the lowercase hex SHA-256 of the file at path.
func HashFile(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", apperr.IO("open", path, err)
	}
	defer f.Close()

	return HashReader(f)
}

// HashReader returns the lowercase hex SHA-256 of everything read from r.
func HashReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", apperr.IO("hash", "stream", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
