// Package storage provides the blob disks the "disk" slot driver writes to.
//
// Two drivers are available:
//   - "local" — one file per key under a root directory (default)
//   - "s3"    — S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
//	d, _ := storage.Open(ctx, "local")
//	_ = d.Put(ctx, "storefront/cartItems", data)
//	data, err := d.Get(ctx, "storefront/cartItems") // ErrNotFound when absent
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/storefront/config"
)

// ErrNotFound is returned by Get when nothing is stored at path.
var ErrNotFound = errors.New("storage: not found")

// Disk is the blob driver interface. Writes replace the whole object.
type Disk interface {
	// Put writes content to path, creating parents as needed.
	Put(ctx context.Context, path string, content []byte) error

	// Get returns the full content at path, or ErrNotFound.
	Get(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether something is stored at path.
	Exists(ctx context.Context, path string) bool

	// Delete removes path. Returns nil if it did not exist.
	Delete(ctx context.Context, path string) error
}

// Open builds the named disk from config.
func Open(ctx context.Context, name string) (Disk, error) {
	switch name {
	case "", "local":
		return NewLocal(config.StorageLocalRoot()), nil
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
		})
	default:
		return nil, fmt.Errorf("storage: disk %q is not supported (local, s3)", name)
	}
}
