package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cryptox-test")
	if err != nil {
		panic(err)
	}
	SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// cheapParams keeps the suite fast; production uses DefaultArgon2Params.
var cheapParams = Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"ascii", "correct horse battery staple"},
		{"empty", ""},
		{"unicode", "пароль🔒密码"},
		{"surrounding spaces", "  padded  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPasswordWithParams(tt.password, cheapParams)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))
			require.Len(t, strings.Split(hash, "$"), 6)

			require.NoError(t, VerifyPassword(tt.password, hash))
			require.ErrorIs(t, VerifyPassword(tt.password+"x", hash), ErrPasswordMismatch)
		})
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPasswordWithParams("same", cheapParams)
	require.NoError(t, err)
	b, err := HashPasswordWithParams("same", cheapParams)
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestHashPassword_DefaultParams(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.Contains(t, hash, "$m=19456,t=2,p=1$")
	require.False(t, NeedsRehash(hash, DefaultArgon2Params))
	require.True(t, NeedsRehash(hash, cheapParams))
}

func TestVerifyPassword_Malformed(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"wrong field count", "$argon2id$v=19$m=1,t=1,p=1$c2FsdA"},
		{"bcrypt", "$2a$10$abcdefghijklmnopqrstuv"},
		{"wrong variant", "$argon2i$v=19$m=1024,t=1,p=1$c2FsdHNhbHQ$a2V5"},
		{"wrong version", "$argon2id$v=16$m=1024,t=1,p=1$c2FsdHNhbHQ$a2V5"},
		{"bad params", "$argon2id$v=19$memory$c2FsdHNhbHQ$a2V5"},
		{"bad salt", "$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5"},
		{"empty key", "$argon2id$v=19$m=1024,t=1,p=1$c2FsdHNhbHQ$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword("anything", tt.hash)
			require.ErrorIs(t, err, ErrMalformedHash)
			require.True(t, NeedsRehash(tt.hash, DefaultArgon2Params))
		})
	}
}

func TestPepper_PersistsAcrossReload(t *testing.T) {
	first, err := Pepper()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	hash, err := HashPasswordWithParams("pw", cheapParams)
	require.NoError(t, err)

	// Re-setting the same path forces a reload from disk.
	SetPepperPath(pepperState.path)

	second, err := Pepper()
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.NoError(t, VerifyPassword("pw", hash))
}

func TestPepper_ChangesHashOutcome(t *testing.T) {
	original := pepperState.path
	t.Cleanup(func() { SetPepperPath(original) })

	hash, err := HashPasswordWithParams("pw", cheapParams)
	require.NoError(t, err)

	SetPepperPath(filepath.Join(t.TempDir(), "other-pepper"))
	require.ErrorIs(t, VerifyPassword("pw", hash), ErrPasswordMismatch)
}

func TestPepper_Unconfigured(t *testing.T) {
	original := pepperState.path
	t.Cleanup(func() { SetPepperPath(original) })

	SetPepperPath("")
	_, err := HashPassword("pw")
	require.Error(t, err)
}
