package signing

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"doc-attest/internal/attestation"
	"doc-attest/internal/model"
	"doc-attest/internal/signkeys"
	"doc-attest/internal/wallet"

	"go.uber.org/zap"
)

// Coordinator authorizes and records signing attempts. All attempts on one
// document go through the same per-document lock, so the duplicate check
// and the append form one atomic unit relative to concurrent callers.
type Coordinator struct {
	logger *zap.Logger
	locks  sync.Map // document ID -> *sync.Mutex
}

func NewCoordinator(logger *zap.Logger) *Coordinator {
	return &Coordinator{logger: logger}
}

// Sign runs the precondition chain in a fixed order (authentication,
// required-signer membership, duplicate), invokes the wallet and, on a
// returned signature, appends the record and recomputes the lifecycle
// status. The wallet call is interactive and may be slow, so the lock is
// released around it and the duplicate check is repeated on the latest
// state right before appending. No partial record is ever left behind: the
// document is only touched after the wallet has produced a signature.
func (c *Coordinator) Sign(ctx context.Context, doc *model.Document, identity model.Identity, capability wallet.Capability) (model.Signature, error) {
	if !identity.IsAuthenticated() {
		return model.Signature{}, model.ErrNotAuthenticated
	}

	lock := c.lockFor(doc.ID)

	lock.Lock()
	err := checkSigningAllowed(*doc, identity)
	lock.Unlock()
	if err != nil {
		return model.Signature{}, err
	}

	message := attestation.BuildMessage(*doc)

	signatureBytes, err := capability.Sign(ctx, message, identity.WalletAddress)
	if err != nil {
		return model.Signature{}, fmt.Errorf("%w: %v", model.ErrSigningFailed, err)
	}
	if len(signatureBytes) == 0 {
		return model.Signature{}, model.ErrSigningFailed
	}
	if len(signatureBytes) != signkeys.SignatureLen {
		return model.Signature{}, fmt.Errorf("%w: expected %d signature bytes, got %d",
			model.ErrSigningFailed, signkeys.SignatureLen, len(signatureBytes))
	}

	lock.Lock()
	defer lock.Unlock()

	// the wallet call may have taken long enough for a concurrent attempt
	// of the same identity to land; re-check against the latest state
	if _, signed := doc.SignatureOf(identity); signed {
		return model.Signature{}, model.ErrAlreadySigned
	}

	now := time.Now().UTC().Truncate(time.Second)
	signature := model.Signature{
		Signer:       identity,
		SignatureHex: "0x" + hex.EncodeToString(signatureBytes),
		SignedAt:     now,
		DocumentHash: doc.Content.Hash,
	}

	doc.Signatures = append(doc.Signatures, signature)
	doc.UpdatedAt = now
	doc.RefreshStatus()

	c.logger.Info("signature recorded",
		zap.String("documentID", doc.ID),
		zap.String("signer", identity.SubjectID),
		zap.String("status", doc.Status.String()),
		zap.Int("signed", doc.SignedCount()),
		zap.Int("required", len(doc.RequiredSigners)))

	return signature, nil
}

func checkSigningAllowed(doc model.Document, identity model.Identity) error {
	if doc.Status == model.DocStatusCancelled {
		return model.ErrDocumentCancelled
	}
	if _, required := doc.RequiredSignerFor(identity); !required {
		return model.ErrNotARequiredSigner
	}
	if _, signed := doc.SignatureOf(identity); signed {
		return model.ErrAlreadySigned
	}
	return nil
}

func (c *Coordinator) lockFor(docID string) *sync.Mutex {
	lock, _ := c.locks.LoadOrStore(docID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
