package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"modsync/core/apperr"
	"modsync/core/hashstore"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
)

// Entry is one file inside an archive.
type Entry struct {
	// Name is the entry path as stored in the central directory.
	Name string `json:"name"`

	// Size is the uncompressed size in bytes.
	Size int64 `json:"size"`
}

// Archive is an opened zip file. It holds no iteration state, so any number of
// List, Walk and Extract calls may be made on it in any order.
type Archive struct {
	fs     afero.Fs
	path   string
	file   afero.File
	reader *zip.Reader
	index  map[string]*zip.File
}

// Open parses the central directory of the archive at path.
func Open(fsys afero.Fs, path string) (*Archive, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, apperr.IO("open", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, apperr.IO("stat", path, err)
	}

	r, err := zip.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", apperr.ErrCorruptArchive, path, err)
	}

	index := make(map[string]*zip.File, len(r.File))
	for _, zf := range r.File {
		if !zf.FileInfo().IsDir() {
			index[zf.Name] = zf
		}
	}

	return &Archive{fs: fsys, path: path, file: f, reader: r, index: index}, nil
}

// Close releases the underlying file.
func (a *Archive) Close() error {
	return a.file.Close()
}

// Path returns the archive location.
func (a *Archive) Path() string {
	return a.path
}

// Entries returns the file entries in central directory order.
// Directory entries are skipped.
func (a *Archive) Entries() []Entry {
	entries := make([]Entry, 0, len(a.index))
	for _, zf := range a.reader.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		entries = append(entries, Entry{Name: zf.Name, Size: int64(zf.UncompressedSize64)})
	}
	return entries
}

// Walk calls fn for every file entry with a reader over its content.
// Iteration stops at the first error fn returns.
func (a *Archive) Walk(fn func(Entry, io.Reader) error) error {
	for _, zf := range a.reader.File {
		if zf.FileInfo().IsDir() {
			continue
		}

		rc, err := zf.Open()
		if err != nil {
			return fmt.Errorf("%w: %s: %v", apperr.ErrCorruptArchive, zf.Name, err)
		}
		err = fn(Entry{Name: zf.Name, Size: int64(zf.UncompressedSize64)}, rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// Extract writes exactly one entry under destDir and returns the written path.
// Intermediate directories are created. The content is written to a temporary
// file in the destination directory and renamed into place, replacing any
// existing file.
func (a *Archive) Extract(entryName, destDir string) (string, error) {
	target, err := SafeJoin(destDir, entryName)
	if err != nil {
		return "", err
	}

	zf, ok := a.index[entryName]
	if !ok {
		return "", apperr.IO("extract", entryName, fs.ErrNotExist)
	}

	dir := filepath.Dir(target)
	if err := a.fs.MkdirAll(dir, 0755); err != nil {
		return "", apperr.IO("create directory", dir, err)
	}

	rc, err := zf.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", apperr.ErrCorruptArchive, entryName, err)
	}
	defer rc.Close()

	tmp, err := afero.TempFile(a.fs, dir, "."+filepath.Base(target)+".*.part")
	if err != nil {
		return "", apperr.IO("create", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		a.fs.Remove(tmpName)
		if errors.Is(err, zip.ErrChecksum) || errors.Is(err, zip.ErrFormat) {
			return "", fmt.Errorf("%w: %s: %v", apperr.ErrCorruptArchive, entryName, err)
		}
		return "", apperr.IO("write", target, err)
	}
	if err := tmp.Close(); err != nil {
		a.fs.Remove(tmpName)
		return "", apperr.IO("write", target, err)
	}

	if err := a.fs.Rename(tmpName, target); err != nil {
		a.fs.Remove(tmpName)
		return "", apperr.IO("rename", target, err)
	}
	return target, nil
}

// HashEntries returns the SHA-256 of every file entry's uncompressed content.
func (a *Archive) HashEntries() (map[string]string, error) {
	sums := make(map[string]string, len(a.index))
	err := a.Walk(func(e Entry, r io.Reader) error {
		sum, err := hashstore.HashReader(r)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", apperr.ErrCorruptArchive, e.Name, err)
		}
		sums[e.Name] = sum
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sums, nil
}

// List opens the archive at path and returns its file entries.
func List(fsys afero.Fs, path string) ([]Entry, error) {
	a, err := Open(fsys, path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	return a.Entries(), nil
}

// Extract opens the archive at path and extracts a single entry under destDir.
func Extract(fsys afero.Fs, path, entryName, destDir string) (string, error) {
	a, err := Open(fsys, path)
	if err != nil {
		return "", err
	}
	defer a.Close()

	return a.Extract(entryName, destDir)
}

// SafeJoin resolves name below base. Absolute names and names that climb out
// of base are rejected with ErrUnsafePath.
func SafeJoin(base, name string) (string, error) {
	normalized := strings.ReplaceAll(name, `\`, "/")
	if normalized == "" || path.IsAbs(normalized) || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", apperr.UnsafePath(name)
	}

	cleaned := path.Clean(normalized)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", apperr.UnsafePath(name)
	}

	target := filepath.Join(base, filepath.FromSlash(cleaned))
	rel, err := filepath.Rel(filepath.Clean(base), target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", apperr.UnsafePath(name)
	}
	return target, nil
}

// Names returns the entry names sorted lexicographically.
func Names(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	sort.Strings(names)
	return names
}
