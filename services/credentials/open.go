package credentials

import (
	"fmt"

	"hotelbook/config"
	"hotelbook/utils"

	"go.uber.org/zap"
)

// Open builds the credential store selected by CREDENTIAL_BACKEND.
func Open(cfg config.Config, logger *zap.Logger) (*EncryptedStore, error) {
	c, err := NewCipher(cfg.EncryptionKey, Namespace)
	if err != nil {
		return nil, err
	}

	var backend Backend
	switch cfg.CredentialBackend {
	case "", "file":
		path := cfg.CredentialPath
		if path == "" {
			path = DefaultFilePath()
		}
		backend = NewFileBackend(path)
	case "redis":
		client, err := utils.GetCredentialClient()
		if err != nil {
			return nil, err
		}
		backend = NewRedisBackend(client, "")
	case "memory":
		backend = NewMemoryBackend()
	default:
		return nil, fmt.Errorf("unknown credential backend %q", cfg.CredentialBackend)
	}
	return NewEncryptedStore(backend, c, logger), nil
}
