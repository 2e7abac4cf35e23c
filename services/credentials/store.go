package credentials

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Field names a persisted credential. The names double as storage keys.
type Field string

const (
	FieldToken Field = "token"
	FieldRole  Field = "role"
)

// Fields lists every persisted credential.
var Fields = []Field{FieldToken, FieldRole}

// Backend is durable key/value storage for ciphertext.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(keys ...string) error
}

// Store persists the session token and role.
type Store interface {
	Save(field Field, value string) error
	Read(field Field) (string, bool)
	Clear() error
}

// EncryptedStore encrypts every value before handing it to its Backend.
type EncryptedStore struct {
	backend Backend
	cipher  *Cipher
	logger  *zap.Logger
}

func NewEncryptedStore(backend Backend, cipher *Cipher, logger *zap.Logger) *EncryptedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EncryptedStore{backend: backend, cipher: cipher, logger: logger}
}

func validField(field Field) error {
	if field != FieldToken && field != FieldRole {
		return fmt.Errorf("unknown credential field %q", field)
	}
	return nil
}

// Save encrypts value and writes it under the field's key.
func (s *EncryptedStore) Save(field Field, value string) error {
	if err := validField(field); err != nil {
		return err
	}
	if value == "" {
		return errors.New("credential value must not be empty")
	}
	encrypted, err := s.cipher.Encrypt(field, value)
	if err != nil {
		return err
	}
	if err := s.backend.Set(string(field), encrypted); err != nil {
		return fmt.Errorf("failed to persist %s: %w", field, err)
	}
	return nil
}

// Read returns the decrypted value. A missing, unreadable or undecryptable
// value reads as absent. A ciphertext that fails to decrypt destroys the
// whole session so the other field never survives on its own.
func (s *EncryptedStore) Read(field Field) (string, bool) {
	if validField(field) != nil {
		return "", false
	}
	encrypted, ok, err := s.backend.Get(string(field))
	if err != nil {
		s.logger.Warn("credential storage read failed", zap.String("field", string(field)), zap.Error(err))
		return "", false
	}
	if !ok || encrypted == "" {
		return "", false
	}
	plaintext, err := s.cipher.Decrypt(field, encrypted)
	if err != nil || plaintext == "" {
		s.logger.Debug("discarding undecryptable credential", zap.String("field", string(field)), zap.Error(err))
		if err := s.Clear(); err != nil {
			s.logger.Warn("failed to discard session", zap.Error(err))
		}
		return "", false
	}
	return plaintext, true
}

// Clear removes both fields. Clearing an empty store is not an error.
func (s *EncryptedStore) Clear() error {
	keys := make([]string, 0, len(Fields))
	for _, f := range Fields {
		keys = append(keys, string(f))
	}
	if err := s.backend.Delete(keys...); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// Token returns the session token for bearer headers.
func (s *EncryptedStore) Token() (string, bool) {
	return s.Read(FieldToken)
}
