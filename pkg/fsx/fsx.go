// Package fsx abstracts file storage behind a small path-based interface so
// services never touch a concrete backend.
package fsx

import (
	"context"
	"io"
)

// FileReader is the read-only half, enough for services that only consume
// stored documents.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// FileSystem is the full storage surface.
type FileSystem interface {
	FileReader
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
	DeleteFile(ctx context.Context, path string) error
	Join(parts ...string) string
}
