// Package fileserver reads and writes files under a single base
// directory on local disk.
package fileserver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	directoryPerms = 0o755
	filePerms      = 0o644
)

// RecipesDir is the only top-level directory files may be written to
// or deleted from.
const RecipesDir = "recipes"

var topLevelDirectories = []string{RecipesDir}

var (
	ErrInvalidPath = errors.New("invalid path")
	ErrNotExist    = errors.New("file does not exist")
)

type FileServer struct {
	baseDir string
}

func New(baseDir string) *FileServer {
	return &FileServer{
		baseDir: baseDir,
	}
}

func (f *FileServer) BaseDirectory() string {
	if f == nil {
		return ""
	}
	return f.baseDir
}

// Write stores data at path relative to the base directory, creating
// parent directories as needed.
func (f *FileServer) Write(path string, data []byte) (n int, err error) {
	if f == nil {
		return 0, nil
	}

	if !slices.Contains(topLevelDirectories, topLevelDirectory(path)) {
		return 0, fmt.Errorf("%q: %w", path, ErrInvalidPath)
	}
	fullpath, err := cleanPath(f.baseDir, path)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(fullpath), directoryPerms); err != nil {
		return 0, fmt.Errorf("creating parent directories: %w", err)
	}

	file, err := os.OpenFile(fullpath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerms)
	if err != nil {
		return 0, fmt.Errorf("creating file: %w", err)
	}
	defer func() { _ = file.Close() }()

	n, err = file.Write(data)
	if err != nil {
		return n, fmt.Errorf("writing file: %w", err)
	}
	return n, nil
}

// Delete removes the file at path and prunes any directories left
// empty below its top-level directory.
func (f *FileServer) Delete(path string) error {
	if f == nil {
		return nil
	}

	top := topLevelDirectory(path)
	if !slices.Contains(topLevelDirectories, top) {
		return fmt.Errorf("%q: %w", path, ErrInvalidPath)
	}
	fullpath, err := cleanPath(f.baseDir, path)
	if err != nil {
		return err
	}

	if err := os.Remove(fullpath); errors.Is(err, os.ErrNotExist) {
		return errors.Join(ErrNotExist, err)
	} else if err != nil {
		return fmt.Errorf("removing file: %w", err)
	}

	stop, err := cleanPath(f.baseDir, top)
	if err != nil {
		return err
	}
	for dir := filepath.Dir(fullpath); dir != stop && strings.HasPrefix(dir, stop); dir = filepath.Dir(dir) {
		empty, err := isEmptyDirectory(dir)
		if err != nil || !empty {
			break
		}
		if err := os.Remove(dir); err != nil {
			return fmt.Errorf("pruning directory: %w", err)
		}
	}
	return nil
}

// cleanPath resolves path under baseDir and rejects anything that
// would land outside it.
func cleanPath(baseDir, path string) (string, error) {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("%q is absolute: %w", path, ErrInvalidPath)
	}

	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q escapes base: %w", path, ErrInvalidPath)
	}

	full := filepath.Join(absBase, cleaned)
	rel, err := filepath.Rel(absBase, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q escapes base: %w", path, ErrInvalidPath)
	}
	return full, nil
}

func topLevelDirectory(path string) string {
	cleaned := strings.TrimPrefix(filepath.Clean(path), string(filepath.Separator))
	top, _, _ := strings.Cut(cleaned, string(filepath.Separator))
	return top
}

func isEmptyDirectory(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}
