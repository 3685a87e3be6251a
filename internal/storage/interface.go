package storage

import (
	"context"
	"errors"
)

// ErrReadOnly is returned by clients whose backend cannot be written to
var ErrReadOnly = errors.New("storage backend is read-only")

// ErrNotFound is returned when the requested object does not exist
var ErrNotFound = errors.New("object not found")

// Client defines the operations the dashboard needs from a data source
type Client interface {
	// Close releases any resources held by the client
	Close() error

	// GetFile retrieves the object at the specified path
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// FileExists checks if an object exists at the specified path
	FileExists(ctx context.Context, filePath string) (bool, error)

	// ListDir lists objects under a directory or prefix
	ListDir(ctx context.Context, dirPath string) ([]string, error)

	// StoreFile writes data to the specified path
	StoreFile(ctx context.Context, filePath string, fileData []byte) error
}
