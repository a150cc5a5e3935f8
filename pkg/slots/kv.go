// Package slots mirrors the persisted slices of the state tree to a durable
// key-value store and rehydrates them at start-up.
//
// Each slot is one key: the session, cart items and shipping address are
// stored as JSON, the payment method as a plain string. Writes always
// replace the whole slot. Several drivers back the same KV contract:
//
//	memory  in-process map (tests, one-shot CLI runs)
//	disk    one object per key on a storage.Disk (local directory or S3)
//	redis   plain string keys
//	sql     a single key/value table through gorm
//	mongo   one document per key
//
// Any driver can be wrapped with Sealed to encrypt values at rest.
package slots

import (
	"context"
	"errors"
)

// ErrClosed is returned by drivers used after Close.
var ErrClosed = errors.New("slots: store closed")

// KV is the durable string store behind a Bridge.
type KV interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set overwrites key.
	Set(ctx context.Context, key, value string) error
	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
