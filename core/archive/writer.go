package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"modsync/core/apperr"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
)

// Validation failures reported by ZipDir before anything is written.
var (
	ErrNotDirectory = errors.New("directory does not exist")
	ErrNestedDir    = errors.New("the provided directory should not contain directories")
	ErrEmptyDir     = errors.New("the provided directory is empty")
	ErrNotJar       = errors.New("all files in the provided directory should be a .jar")
)

// JarExt is the only extension accepted by ZipDir.
const JarExt = ".jar"

// ReplaceFunc decides whether an existing destination may be overwritten.
// Returning an error aborts the operation with that error.
type ReplaceFunc func(path string) (bool, error)

// ZipDir packs every .jar directly inside srcDir into a deflated archive at
// dst, storing each file under its base name. When dst already exists, replace
// is consulted first; a refusal leaves dst untouched and reports false.
// onAdd, when set, is called once per file before it is added.
func ZipDir(fsys afero.Fs, srcDir, dst string, replace ReplaceFunc, onAdd func(name string)) (bool, error) {
	files, err := jarFiles(fsys, srcDir)
	if err != nil {
		return false, err
	}

	exists, err := afero.Exists(fsys, dst)
	if err != nil {
		return false, apperr.IO("stat", dst, err)
	}
	if exists && replace != nil {
		ok, err := replace(dst)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return false, apperr.IO("create directory", filepath.Dir(dst), err)
	}

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return false, apperr.IO("create", dst, err)
	}

	zw := zip.NewWriter(out)
	for _, name := range files {
		if onAdd != nil {
			onAdd(name)
		}
		if err := addFile(fsys, zw, filepath.Join(srcDir, name), name); err != nil {
			zw.Close()
			out.Close()
			fsys.Remove(dst)
			return false, err
		}
	}

	if err := zw.Close(); err != nil {
		out.Close()
		fsys.Remove(dst)
		return false, apperr.IO("write", dst, err)
	}
	if err := out.Close(); err != nil {
		return false, apperr.IO("write", dst, err)
	}
	return true, nil
}

// jarFiles validates srcDir and returns its file names in directory order.
func jarFiles(fsys afero.Fs, srcDir string) ([]string, error) {
	info, err := fsys.Stat(srcDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, srcDir)
	}

	infos, err := afero.ReadDir(fsys, srcDir)
	if err != nil {
		return nil, apperr.IO("list", srcDir, err)
	}

	var files []string
	for _, fi := range infos {
		if fi.IsDir() {
			return nil, ErrNestedDir
		}
		if fi.Mode().IsRegular() {
			files = append(files, fi.Name())
		}
	}
	if len(files) == 0 {
		return nil, ErrEmptyDir
	}
	for _, name := range files {
		if !strings.HasSuffix(name, JarExt) {
			return nil, fmt.Errorf("%w: %s", ErrNotJar, name)
		}
	}
	return files, nil
}

func addFile(fsys afero.Fs, zw *zip.Writer, src, arcname string) error {
	in, err := fsys.Open(src)
	if err != nil {
		return apperr.IO("open", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return apperr.IO("stat", src, err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("build header for %s: %w", src, err)
	}
	header.Name = arcname
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return apperr.IO("write", arcname, err)
	}
	if _, err := io.Copy(w, in); err != nil {
		return apperr.IO("compress", src, err)
	}
	return nil
}
