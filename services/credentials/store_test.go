package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"hotelbook/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCipher(t *testing.T, key string) *Cipher {
	t.Helper()
	c, err := NewCipher(key, Namespace)
	require.NoError(t, err)
	return c
}

func TestNewCipher_EmptyKey(t *testing.T) {
	_, err := NewCipher("", Namespace)
	assert.Error(t, err)
}

func TestEncryptedStore_RoundTrip(t *testing.T) {
	s := NewEncryptedStore(NewMemoryBackend(), newCipher(t, "k1"), nil)

	require.NoError(t, s.Save(FieldToken, "jwt-abc"))
	require.NoError(t, s.Save(FieldRole, "CUSTOMER"))

	token, ok := s.Read(FieldToken)
	require.True(t, ok)
	assert.Equal(t, "jwt-abc", token)

	role, ok := s.Read(FieldRole)
	require.True(t, ok)
	assert.Equal(t, "CUSTOMER", role)
}

func TestEncryptedStore_StoresCiphertext(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewEncryptedStore(backend, newCipher(t, "k1"), nil)
	require.NoError(t, s.Save(FieldToken, "jwt-abc"))

	raw, ok, err := backend.Get("token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, raw, "jwt-abc")
}

func TestEncryptedStore_ReadAbsent(t *testing.T) {
	s := NewEncryptedStore(NewMemoryBackend(), newCipher(t, "k1"), nil)
	_, ok := s.Read(FieldToken)
	assert.False(t, ok)
}

func TestEncryptedStore_ClearIsIdempotent(t *testing.T) {
	s := NewEncryptedStore(NewMemoryBackend(), newCipher(t, "k1"), nil)
	require.NoError(t, s.Save(FieldToken, "jwt-abc"))
	require.NoError(t, s.Save(FieldRole, "ADMIN"))

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())

	_, ok := s.Read(FieldToken)
	assert.False(t, ok)
	_, ok = s.Read(FieldRole)
	assert.False(t, ok)
}

func TestEncryptedStore_CorruptReadsAsAbsent(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewEncryptedStore(backend, newCipher(t, "k1"), nil)

	require.NoError(t, backend.Set("token", "not base64 !!"))
	_, ok := s.Read(FieldToken)
	assert.False(t, ok)

	require.NoError(t, backend.Set("token", "c2hvcnQ="))
	_, ok = s.Read(FieldToken)
	assert.False(t, ok)
}

func TestEncryptedStore_UndecryptableTokenClearsRole(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewEncryptedStore(backend, newCipher(t, "k1"), nil)
	require.NoError(t, s.Save(FieldToken, "jwt-abc"))
	require.NoError(t, s.Save(FieldRole, "ADMIN"))
	require.NoError(t, backend.Set("token", "garbage"))

	_, ok := s.Read(FieldToken)
	assert.False(t, ok)
	_, ok = s.Read(FieldRole)
	assert.False(t, ok)
	_, ok, err := backend.Get("role")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEncryptedStore_MissingTokenKeepsRoleReadable(t *testing.T) {
	s := NewEncryptedStore(NewMemoryBackend(), newCipher(t, "k1"), nil)
	require.NoError(t, s.Save(FieldRole, "ADMIN"))

	_, ok := s.Read(FieldToken)
	assert.False(t, ok)
	role, ok := s.Read(FieldRole)
	require.True(t, ok)
	assert.Equal(t, "ADMIN", role)
}

func TestEncryptedStore_ForeignKeyReadsAsAbsent(t *testing.T) {
	backend := NewMemoryBackend()
	writer := NewEncryptedStore(backend, newCipher(t, "k1"), nil)
	reader := NewEncryptedStore(backend, newCipher(t, "k2"), nil)

	require.NoError(t, writer.Save(FieldToken, "jwt-abc"))
	_, ok := reader.Read(FieldToken)
	assert.False(t, ok)
}

func TestEncryptedStore_FieldsAreNotInterchangeable(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewEncryptedStore(backend, newCipher(t, "k1"), nil)
	require.NoError(t, s.Save(FieldRole, "CUSTOMER"))

	raw, _, _ := backend.Get("role")
	require.NoError(t, backend.Set("token", raw))

	_, ok := s.Read(FieldToken)
	assert.False(t, ok)
}

func TestEncryptedStore_RejectsUnknownField(t *testing.T) {
	s := NewEncryptedStore(NewMemoryBackend(), newCipher(t, "k1"), nil)
	assert.Error(t, s.Save(Field("email"), "x"))
	assert.Error(t, s.Save(FieldToken, ""))
}

func TestFileBackend_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	c := newCipher(t, "k1")

	first := NewEncryptedStore(NewFileBackend(path), c, nil)
	require.NoError(t, first.Save(FieldToken, "jwt-abc"))
	require.NoError(t, first.Save(FieldRole, "ADMIN"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second := NewEncryptedStore(NewFileBackend(path), c, nil)
	role, ok := second.Read(FieldRole)
	require.True(t, ok)
	assert.Equal(t, "ADMIN", role)

	require.NoError(t, second.Clear())
	_, ok = first.Read(FieldToken)
	assert.False(t, ok)
}

func TestFileBackend_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{garbage"), 0o600))

	s := NewEncryptedStore(NewFileBackend(path), newCipher(t, "k1"), nil)
	_, ok := s.Read(FieldToken)
	assert.False(t, ok)

	require.NoError(t, s.Save(FieldToken, "jwt-abc"))
	token, ok := s.Read(FieldToken)
	require.True(t, ok)
	assert.Equal(t, "jwt-abc", token)
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := NewEncryptedStore(NewRedisBackend(client, "kiosk-1"), newCipher(t, "k1"), nil)
	require.NoError(t, s.Save(FieldToken, "jwt-abc"))
	assert.True(t, mr.Exists("hotelbook:credentials:kiosk-1:token"))

	token, ok := s.Read(FieldToken)
	require.True(t, ok)
	assert.Equal(t, "jwt-abc", token)

	require.NoError(t, s.Clear())
	assert.False(t, mr.Exists("hotelbook:credentials:kiosk-1:token"))
}

func TestRedisBackend_UnavailableReadsAsAbsent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s := NewEncryptedStore(NewRedisBackend(client, ""), newCipher(t, "k1"), nil)
	require.NoError(t, s.Save(FieldToken, "jwt-abc"))

	mr.Close()
	_, ok := s.Read(FieldToken)
	assert.False(t, ok)
}

func TestOpen(t *testing.T) {
	s, err := Open(config.Config{EncryptionKey: "k1", CredentialBackend: "memory"}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Save(FieldRole, "ADMIN"))

	_, err = Open(config.Config{EncryptionKey: "k1", CredentialBackend: "floppy"}, nil)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "c.json")
	fs, err := Open(config.Config{EncryptionKey: "k1", CredentialBackend: "file", CredentialPath: path}, nil)
	require.NoError(t, err)
	require.NoError(t, fs.Save(FieldToken, "t"))
	assert.FileExists(t, path)
}
