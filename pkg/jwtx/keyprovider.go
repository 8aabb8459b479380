package jwtx

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aussiebroadwan/identity/pkg/cryptox"
)

// MinHMACKeySize is the shortest key accepted for HS512, matching the
// hash output size.
const MinHMACKeySize = 64

// base64Prefix marks key material that is base64 encoded rather than raw.
const base64Prefix = "base64:"

var (
	ErrKeyMissing  = errors.New("jwtx: signing key not configured")
	ErrKeyTooShort = errors.New("jwtx: signing key too short")
)

// SigningKey is symmetric key material. Its formatting methods redact the
// bytes so a key can't leak through a log line or an error.
type SigningKey struct {
	b []byte
}

// NewSigningKey copies b into a SigningKey.
func NewSigningKey(b []byte) SigningKey {
	return SigningKey{b: append([]byte(nil), b...)}
}

func (k SigningKey) Len() int      { return len(k.b) }
func (k SigningKey) IsZero() bool  { return len(k.b) == 0 }
func (k SigningKey) Bytes() []byte { return append([]byte(nil), k.b...) }

// Equal compares two keys in constant time.
func (k SigningKey) Equal(o SigningKey) bool {
	return subtle.ConstantTimeCompare(k.b, o.b) == 1
}

func (k SigningKey) String() string       { return "[REDACTED]" }
func (k SigningKey) GoString() string     { return "jwtx.SigningKey{[REDACTED]}" }
func (k SigningKey) LogValue() slog.Value { return slog.StringValue("[REDACTED]") }

// Validate checks the key is present and long enough for HS512.
func (k SigningKey) Validate() error {
	if k.IsZero() {
		return ErrKeyMissing
	}
	if k.Len() < MinHMACKeySize {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrKeyTooShort, k.Len(), MinHMACKeySize)
	}
	return nil
}

// KeyProvider resolves the signing key. Implementations may block on I/O.
type KeyProvider interface {
	Resolve(ctx context.Context) (SigningKey, error)
}

// ParseKeyMaterial turns configured text into a key. Text prefixed with
// "base64:" is decoded; anything else is used as raw bytes.
func ParseKeyMaterial(s string) (SigningKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SigningKey{}, ErrKeyMissing
	}
	if enc, ok := strings.CutPrefix(s, base64Prefix); ok {
		raw, err := base64.StdEncoding.DecodeString(enc)
		if err != nil {
			// The decode error can echo input bytes, so it is not wrapped.
			return SigningKey{}, fmt.Errorf("%w: key material is not valid base64", ErrKeyMissing)
		}
		return NewSigningKey(raw), nil
	}
	return NewSigningKey([]byte(s)), nil
}

// FormatKeyMaterial is the inverse of ParseKeyMaterial for random keys.
func FormatKeyMaterial(raw []byte) string {
	return base64Prefix + base64.StdEncoding.EncodeToString(raw)
}

// StaticKeyProvider hands out a fixed key.
type StaticKeyProvider struct {
	Key SigningKey
}

func (p StaticKeyProvider) Resolve(context.Context) (SigningKey, error) {
	if err := p.Key.Validate(); err != nil {
		return SigningKey{}, err
	}
	return p.Key, nil
}

// EnvKeyProvider reads key material from an environment variable.
type EnvKeyProvider struct {
	Var string
}

func (p EnvKeyProvider) Resolve(context.Context) (SigningKey, error) {
	v, ok := os.LookupEnv(p.Var)
	if !ok {
		return SigningKey{}, fmt.Errorf("%w: %s is not set", ErrKeyMissing, p.Var)
	}
	key, err := ParseKeyMaterial(v)
	if err != nil {
		return SigningKey{}, fmt.Errorf("%s: %w", p.Var, err)
	}
	if err := key.Validate(); err != nil {
		return SigningKey{}, fmt.Errorf("%s: %w", p.Var, err)
	}
	return key, nil
}

// FileKeyProvider reads key material from a file. With Sealed set the file
// holds base64 text produced by cryptox.SealSecret and is opened with the
// master key.
type FileKeyProvider struct {
	Path   string
	Sealed bool
}

func (p FileKeyProvider) Resolve(context.Context) (SigningKey, error) {
	if p.Path == "" {
		return SigningKey{}, fmt.Errorf("%w: no key file configured", ErrKeyMissing)
	}

	data, err := os.ReadFile(filepath.Clean(p.Path))
	if err != nil {
		return SigningKey{}, fmt.Errorf("%w: read key file: %w", ErrKeyMissing, err)
	}

	var key SigningKey
	if p.Sealed {
		sealed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return SigningKey{}, fmt.Errorf("%w: sealed key file is not base64", ErrKeyMissing)
		}
		raw, err := cryptox.OpenSecret(sealed)
		if err != nil {
			return SigningKey{}, fmt.Errorf("%w: open sealed key: %w", ErrKeyMissing, err)
		}
		key = NewSigningKey(raw)
	} else {
		key, err = ParseKeyMaterial(string(data))
		if err != nil {
			return SigningKey{}, err
		}
	}

	if err := key.Validate(); err != nil {
		return SigningKey{}, err
	}
	return key, nil
}

// CachedKeyProvider resolves its inner provider once and then serves the
// same key until Reload. Failed resolutions are not cached.
type CachedKeyProvider struct {
	inner KeyProvider

	mu  sync.RWMutex
	key SigningKey
	ok  bool
}

func NewCachedKeyProvider(inner KeyProvider) *CachedKeyProvider {
	return &CachedKeyProvider{inner: inner}
}

func (p *CachedKeyProvider) Resolve(ctx context.Context) (SigningKey, error) {
	p.mu.RLock()
	if p.ok {
		key := p.key
		p.mu.RUnlock()
		return key, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another caller may have resolved while we waited for the write lock.
	if p.ok {
		return p.key, nil
	}

	key, err := p.inner.Resolve(ctx)
	if err != nil {
		return SigningKey{}, err
	}
	p.key, p.ok = key, true
	return key, nil
}

// Reload resolves the inner provider again. On failure the previous key
// stays in service.
func (p *CachedKeyProvider) Reload(ctx context.Context) error {
	key, err := p.inner.Resolve(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.key, p.ok = key, true
	p.mu.Unlock()
	return nil
}
