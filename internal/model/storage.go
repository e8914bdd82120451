package model

import (
	"context"
	"io"
)

// Storage is an object store for export documents.
type Storage interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// ExportResult is the body returned by POST /api/exports.
type ExportResult struct {
	Key string `json:"key"`
}
