package credentials

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// Namespace is mixed into the key derivation and bound to every ciphertext.
const Namespace = "hotelbook/credentials/v1"

var errMalformed = errors.New("malformed ciphertext")

// Cipher encrypts credential values with XChaCha20-Poly1305. It obfuscates
// values at rest; whoever runs the client also holds the key.
type Cipher struct {
	aead      cipher.AEAD
	namespace string
}

// NewCipher derives the key from passphrase with scrypt, salted by namespace.
func NewCipher(passphrase, namespace string) (*Cipher, error) {
	if passphrase == "" {
		return nil, errors.New("encryption key must not be empty")
	}
	salt := sha256.Sum256([]byte(namespace))
	key, err := scrypt.Key([]byte(passphrase), salt[:], 1<<15, 8, 1, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive credential key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential cipher: %w", err)
	}
	return &Cipher{aead: aead, namespace: namespace}, nil
}

// Encrypt seals plaintext for field. The nonce is prepended to the
// ciphertext and the result is base64 encoded.
func (c *Cipher) Encrypt(field Field, plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), c.additionalData(field))
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt for the same field.
func (c *Cipher) Decrypt(field Field, encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errMalformed
	}
	if len(sealed) < c.aead.NonceSize()+c.aead.Overhead() {
		return "", errMalformed
	}
	nonce, ciphertext := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, c.additionalData(field))
	if err != nil {
		return "", fmt.Errorf("failed to decrypt %s: %w", field, err)
	}
	return string(plaintext), nil
}

func (c *Cipher) additionalData(field Field) []byte {
	return []byte(c.namespace + ":" + string(field))
}
