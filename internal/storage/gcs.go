package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"emissionsdash/internal/logger"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSClient handles Google Cloud Storage operations against a single bucket
type GCSClient struct {
	client *storage.Client
	bucket string
}

// NewGCSClient creates a new GCS client
func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("GCS bucket name is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSClient{
		client: client,
		bucket: bucketName,
	}, nil
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// GetFile retrieves an object from the bucket
func (g *GCSClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	obj := g.client.Bucket(g.bucket).Object(strings.TrimPrefix(filePath, "/"))

	reader, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("gs://%s/%s: %w", g.bucket, filePath, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to create reader for gs://%s/%s: %w", g.bucket, filePath, err)
	}
	defer reader.Close()

	fileData, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", g.bucket, filePath, err)
	}

	logger.Debug("Read object from GCS", map[string]interface{}{
		"bucket": g.bucket,
		"object": filePath,
		"bytes":  len(fileData),
	})
	return fileData, nil
}

// FileExists checks if an object exists in the bucket
func (g *GCSClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	_, err := g.client.Bucket(g.bucket).Object(strings.TrimPrefix(filePath, "/")).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat gs://%s/%s: %w", g.bucket, filePath, err)
	}
	return true, nil
}

// ListDir lists object names under a prefix, sorted by name
func (g *GCSClient) ListDir(ctx context.Context, dirPath string) ([]string, error) {
	prefix := strings.TrimPrefix(dirPath, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		names = append(names, attrs.Name)
	}

	sort.Strings(names)
	return names, nil
}

// StoreFile uploads data to the bucket
func (g *GCSClient) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	objectPath := strings.TrimPrefix(filePath, "/")
	logger.Info("Storing object to GCS", map[string]interface{}{
		"bucket": g.bucket,
		"object": objectPath,
	})

	writer := g.client.Bucket(g.bucket).Object(objectPath).NewWriter(ctx)
	writer.ContentType = GetContentType(objectPath)
	writer.CacheControl = "public, max-age=3600"

	if _, err := writer.Write(fileData); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write object to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS upload: %w", err)
	}
	return nil
}
