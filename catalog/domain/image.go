package domain

import (
	"context"
)

// ImageUpload is an uploaded file as received from a client.
type ImageUpload struct {
	OriginalName string
	Content      []byte
}

type ImageStore interface {
	// Save writes content under a generated name and returns that name
	Save(ctx context.Context, originalName string, content []byte) (string, error)

	// Delete removes the named file. Empty or missing names are a no-op.
	Delete(ctx context.Context, storedName string) error

	Exists(storedName string) bool
}
