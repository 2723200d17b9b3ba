package keymanager

import (
	"strings"

	"doc-attest/internal/signkeys"

	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// KeyManager holds the secp256k1 key pairs of the built-in development
// wallet, indexed by wallet address. Production deployments keep keys on an
// external signing device and never touch this package.
type KeyManager struct {
	logger   *zap.Logger
	keyCache *cache.Cache
}

func NewKeyManager(logger *zap.Logger) KeyManager {
	return KeyManager{
		logger:   logger,
		keyCache: cache.New(cache.NoExpiration, cache.NoExpiration),
	}
}

// GenerateKeys creates a new key pair and registers it under its address.
func (k KeyManager) GenerateKeys() (signkeys.UserKeys, error) {
	keys, err := signkeys.GenerateKeys()
	if err != nil {
		return signkeys.UserKeys{}, err
	}

	address := keys.Address()
	k.keyCache.SetDefault(address, keys)
	k.logger.Debug("generated a new key pair", zap.String("address", address))

	return keys, nil
}

// KeysFor returns the key pair registered for the given wallet address.
// Addresses are compared case-insensitively.
func (k KeyManager) KeysFor(address string) (signkeys.UserKeys, bool) {
	cached, ok := k.keyCache.Get(strings.ToLower(address))
	if !ok {
		return signkeys.UserKeys{}, false
	}

	return cached.(signkeys.UserKeys), true
}
