package slots

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/storefront/pkg/crypt"
)

// SealedKV encrypts every value before handing it to the wrapped driver.
// A value that fails to open reads back as corrupt, so the bridge falls
// back to the slot default.
type SealedKV struct {
	inner  KV
	sealer *crypt.Sealer
}

func Sealed(inner KV, s *crypt.Sealer) *SealedKV {
	return &SealedKV{inner: inner, sealer: s}
}

func (s *SealedKV) Get(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	plain, err := s.sealer.Open(raw)
	if errors.Is(err, crypt.ErrDecrypt) {
		return "", true, ErrCorrupt
	}
	if err != nil {
		return "", false, err
	}
	return string(plain), true, nil
}

func (s *SealedKV) Set(ctx context.Context, key, value string) error {
	enc, err := s.sealer.Seal([]byte(value))
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, enc)
}

func (s *SealedKV) Delete(ctx context.Context, keys ...string) error {
	return s.inner.Delete(ctx, keys...)
}

func (s *SealedKV) Close() error { return s.inner.Close() }
