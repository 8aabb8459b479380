package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// MasterKeyEnv is consulted when no master key file is configured.
const MasterKeyEnv = "AUTH_MASTER_KEY"

var (
	// ErrNoMasterKey is returned when neither a master key file nor
	// AUTH_MASTER_KEY is available.
	ErrNoMasterKey = errors.New("cryptox: no master key configured")

	// ErrSealedCorrupt is returned when sealed data fails authentication.
	ErrSealedCorrupt = errors.New("cryptox: sealed data is corrupt or was sealed with another key")
)

var masterKeyState struct {
	mu   sync.Mutex
	path string
	key  []byte
}

// SetMasterKeyPath configures the file holding the master key material and
// forgets any key already derived.
func SetMasterKeyPath(path string) {
	masterKeyState.mu.Lock()
	defer masterKeyState.mu.Unlock()

	masterKeyState.path = path
	masterKeyState.key = nil
}

// ResetMasterKey drops the derived master key so the next call re-reads the
// file or environment. Tests use it after changing AUTH_MASTER_KEY.
func ResetMasterKey() {
	SetMasterKeyPath("")
}

// masterKey derives a 32-byte AES-256 key from the configured file or the
// AUTH_MASTER_KEY environment variable. Unlike a pepper there is no
// ephemeral fallback: a secret sealed under a throwaway key could never be
// opened again.
func masterKey() ([]byte, error) {
	masterKeyState.mu.Lock()
	defer masterKeyState.mu.Unlock()

	if masterKeyState.key != nil {
		return masterKeyState.key, nil
	}

	var material []byte
	switch {
	case masterKeyState.path != "":
		data, err := os.ReadFile(filepath.Clean(masterKeyState.path))
		if err != nil {
			return nil, fmt.Errorf("cryptox: read master key: %w", err)
		}
		material = data
	case os.Getenv(MasterKeyEnv) != "":
		material = []byte(os.Getenv(MasterKeyEnv))
	default:
		return nil, ErrNoMasterKey
	}

	sum := sha256.Sum256(material)
	masterKeyState.key = sum[:]
	return masterKeyState.key, nil
}

func masterAEAD() (cipher.AEAD, error) {
	key, err := masterKey()
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: new cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// SealSecret encrypts plaintext with AES-256-GCM under the master key.
// Output layout is nonce || ciphertext || tag.
func SealSecret(plaintext []byte) ([]byte, error) {
	gcm, err := masterAEAD()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("cryptox: read nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// OpenSecret reverses SealSecret.
func OpenSecret(sealed []byte) ([]byte, error) {
	gcm, err := masterAEAD()
	if err != nil {
		return nil, err
	}

	n := gcm.NonceSize()
	if len(sealed) < n+gcm.Overhead() {
		return nil, fmt.Errorf("%w: too short", ErrSealedCorrupt)
	}

	plain, err := gcm.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, ErrSealedCorrupt
	}
	return plain, nil
}
