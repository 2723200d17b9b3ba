package wallet

import (
	"context"
	"errors"

	"doc-attest/internal/keymanager"

	"go.uber.org/zap"
)

// Capability is the only thing the core needs from a wallet: message in,
// signature bytes or failure out. Production deployments back it with an
// external signing device; the call is interactive and may block for as long
// as the caller's context allows.
type Capability interface {
	Sign(ctx context.Context, message string, account string) ([]byte, error)
}

// Local is an in-process wallet over the key manager, used by the dev
// server and the tests. It produces real recoverable signatures.
type Local struct {
	logger *zap.Logger
	keys   keymanager.KeyManager
}

func NewLocal(logger *zap.Logger, keys keymanager.KeyManager) Local {
	return Local{logger: logger, keys: keys}
}

func (w Local) Sign(ctx context.Context, message string, account string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keys, ok := w.keys.KeysFor(account)
	if !ok {
		return nil, errors.New("no key registered for account " + account)
	}

	w.logger.Debug("signing a message with the local wallet", zap.String("account", account))

	return keys.SignMessage(message), nil
}
