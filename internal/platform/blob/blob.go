package blob

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Store abstracts where uploaded asset files live. Keys are the relative
// paths recorded on asset_version rows, so switching providers does not
// invalidate existing records.
type Store interface {
	// Save writes the reader under a provider-chosen key derived from name
	// and returns that key.
	Save(ctx context.Context, name string, size int64, r io.Reader) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Limits validates uploads before they reach the store.
type Limits struct {
	MaxSizeMB         int64
	AllowedExtensions []string
}

func DefaultLimits() Limits {
	return Limits{
		MaxSizeMB: 50,
		AllowedExtensions: []string{
			".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp",
			".pdf", ".ai", ".psd", ".eps",
			".mp4", ".mov",
			".zip",
		},
	}
}

func (l Limits) Validate(filename string, size int64) error {
	if size > l.MaxSizeMB*1024*1024 {
		return fmt.Errorf("file size exceeds maximum of %dMB", l.MaxSizeMB)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range l.AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("file type '%s' is not allowed", ext)
}
