package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// LocalStorageClient handles local file system storage operations
type LocalStorageClient struct {
	baseDir string
}

// NewLocalStorageClient creates a new local storage client rooted at baseDir.
// Relative paths passed to its methods are resolved against baseDir.
func NewLocalStorageClient(baseDir string) (*LocalStorageClient, error) {
	if baseDir == "" {
		baseDir = "."
	}
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open base directory %s: %w", baseDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base path %s is not a directory", baseDir)
	}

	return &LocalStorageClient{
		baseDir: baseDir,
	}, nil
}

// Close is a no-op for local storage
func (l *LocalStorageClient) Close() error {
	return nil
}

func (l *LocalStorageClient) resolve(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(l.baseDir, filePath)
}

// GetFile retrieves a file from local storage
func (l *LocalStorageClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.resolve(filePath))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read file %s: %w", filePath, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// FileExists checks if a regular file exists at the specified path
func (l *LocalStorageClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	info, err := os.Stat(l.resolve(filePath))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}
	return !info.IsDir(), nil
}

// ListDir lists regular files below dirPath, relative to the base directory, sorted by name
func (l *LocalStorageClient) ListDir(ctx context.Context, dirPath string) ([]string, error) {
	root := l.resolve(dirPath)
	var files []string

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(l.baseDir, p)
		if relErr != nil {
			rel = p
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}

	sort.Strings(files)
	return files, nil
}

// StoreFile writes a file below the base directory, creating parent directories
func (l *LocalStorageClient) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	full := l.resolve(filePath)
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(full, fileData, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	return nil
}
