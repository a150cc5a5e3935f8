package slots

import (
	"context"
	"errors"
	"strings"

	"github.com/shashiranjanraj/storefront/pkg/storage"
)

// DiskKV stores each key as an object on a storage.Disk. Key separators
// (':') become path separators so a prefix maps to a directory.
type DiskKV struct {
	disk storage.Disk
}

func NewDisk(d storage.Disk) *DiskKV { return &DiskKV{disk: d} }

func objectPath(key string) string {
	return strings.ReplaceAll(key, ":", "/")
}

func (d *DiskKV) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := d.disk.Get(ctx, objectPath(key))
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func (d *DiskKV) Set(ctx context.Context, key, value string) error {
	return d.disk.Put(ctx, objectPath(key), []byte(value))
}

func (d *DiskKV) Delete(ctx context.Context, keys ...string) error {
	var errs []error
	for _, k := range keys {
		if err := d.disk.Delete(ctx, objectPath(k)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *DiskKV) Close() error { return nil }
