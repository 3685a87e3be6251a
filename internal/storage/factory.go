package storage

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Backend identifies which storage implementation serves a location
type Backend string

const (
	BackendLocal Backend = "local"
	BackendGCS   Backend = "gcs"
	BackendHTTP  Backend = "http"
)

// Location is a parsed data path: the backend, the root it is served from and the object path within it
type Location struct {
	Backend Backend
	Root    string
	Path    string
}

// String renders the location back into the form ParseLocation accepts
func (l Location) String() string {
	switch l.Backend {
	case BackendGCS:
		return "gs://" + l.Root + "/" + l.Path
	case BackendHTTP:
		return l.Root + l.Path
	default:
		if l.Root == "" || l.Root == "." {
			return l.Path
		}
		return filepath.Join(l.Root, l.Path)
	}
}

// ParseLocation splits a raw path into backend, root and object path.
// "gs://bucket/object" selects GCS, "http(s)://host/path" selects HTTP, anything else is a local path.
func ParseLocation(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Location{}, fmt.Errorf("empty data path")
	}

	switch {
	case strings.HasPrefix(raw, "gs://"):
		rest := strings.TrimPrefix(raw, "gs://")
		bucket, object, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return Location{}, fmt.Errorf("invalid GCS path %q: missing bucket", raw)
		}
		return Location{Backend: BackendGCS, Root: bucket, Path: object}, nil

	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		u, err := url.Parse(raw)
		if err != nil {
			return Location{}, fmt.Errorf("invalid URL %q: %w", raw, err)
		}
		if u.Host == "" {
			return Location{}, fmt.Errorf("invalid URL %q: missing host", raw)
		}
		p := u.EscapedPath()
		if u.RawQuery != "" {
			p += "?" + u.RawQuery
		}
		return Location{Backend: BackendHTTP, Root: u.Scheme + "://" + u.Host, Path: p}, nil

	default:
		return Location{Backend: BackendLocal, Root: filepath.Dir(raw), Path: filepath.Base(raw)}, nil
	}
}

// NewStorageClient creates the client serving loc
func NewStorageClient(ctx context.Context, loc Location, timeout time.Duration) (Client, error) {
	switch loc.Backend {
	case BackendLocal:
		localClient, err := NewLocalStorageClient(loc.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return localClient, nil

	case BackendGCS:
		gcsClient, err := NewGCSClient(ctx, loc.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil

	case BackendHTTP:
		return NewHTTPClient(loc.Root, timeout), nil

	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", loc.Backend)
	}
}

// Open parses raw and returns a client together with the object path to request from it
func Open(ctx context.Context, raw string, timeout time.Duration) (Client, string, error) {
	loc, err := ParseLocation(raw)
	if err != nil {
		return nil, "", err
	}
	client, err := NewStorageClient(ctx, loc, timeout)
	if err != nil {
		return nil, "", err
	}
	return client, loc.Path, nil
}

// OpenDir is Open for a directory: a local raw path is the client's base directory itself,
// a gs:// path names a bucket and an object prefix.
func OpenDir(ctx context.Context, raw string, timeout time.Duration) (Client, string, error) {
	loc, err := ParseLocation(raw)
	if err != nil {
		return nil, "", err
	}
	if loc.Backend == BackendLocal {
		loc = Location{Backend: BackendLocal, Root: filepath.Clean(strings.TrimSpace(raw))}
	}
	client, err := NewStorageClient(ctx, loc, timeout)
	if err != nil {
		return nil, "", err
	}
	return client, loc.Path, nil
}
