package storage

import (
	"path"
	"strings"
)

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".csv":
		return "text/csv"
	case ".tsv":
		return "text/tab-separated-values"
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".txt":
		return "text/plain"
	case ".html":
		return "text/html"
	case ".md":
		return "text/markdown"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// IsDataFile reports whether name looks like a delimited dataset
func IsDataFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv", ".tsv", ".txt":
		return true
	default:
		return false
	}
}
