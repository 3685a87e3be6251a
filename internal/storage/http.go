package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient reads datasets published over HTTP(S). It cannot list or write.
type HTTPClient struct {
	client *resty.Client
}

// NewHTTPClient creates a client resolving relative paths against baseURL
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(2 * time.Second)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= http.StatusInternalServerError
	})

	return &HTTPClient{client: client}
}

// Close is a no-op; resty holds no per-client resources that need releasing
func (h *HTTPClient) Close() error {
	return nil
}

// GetFile downloads the resource at filePath
func (h *HTTPClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/csv, text/plain, */*").
		Get(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", filePath, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("fetch %s: %w", filePath, ErrNotFound)
	case resp.StatusCode() != http.StatusOK:
		return nil, fmt.Errorf("fetch %s returned status %d", filePath, resp.StatusCode())
	}

	return resp.Body(), nil
}

// FileExists issues a HEAD request for filePath
func (h *HTTPClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	resp, err := h.client.R().SetContext(ctx).Head(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", filePath, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("check %s returned status %d", filePath, resp.StatusCode())
	}
}

// ListDir is not supported over plain HTTP
func (h *HTTPClient) ListDir(ctx context.Context, dirPath string) ([]string, error) {
	return nil, fmt.Errorf("list %s: %w", dirPath, ErrReadOnly)
}

// StoreFile is not supported over plain HTTP
func (h *HTTPClient) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	return fmt.Errorf("store %s: %w", filePath, ErrReadOnly)
}
