package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doc-attest/internal/bundle"
	"doc-attest/internal/config"
	"doc-attest/internal/hashing"
	"doc-attest/internal/model"
	"doc-attest/internal/repository"
	"doc-attest/internal/verify"
	"doc-attest/internal/wallet"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateDocumentParams struct {
	Content         model.DocumentContent
	RequiredSigners []string
	// SelfSign asks for an immediate signature by the creator, when the
	// creator is one of the required signers
	SelfSign bool
}

// CreateDocument canonicalizes and hashes the content once, stamps the
// document and persists it. The content hash is never recomputed in place
// afterwards; tampering shows up as a verification failure instead.
func (a *App) CreateDocument(ctx context.Context, identity model.Identity, params CreateDocumentParams, capability wallet.Capability) (model.Document, error) {
	if !identity.IsAuthenticated() {
		return model.Document{}, model.ErrNotAuthenticated
	}
	if len(params.RequiredSigners) == 0 {
		return model.Document{}, model.ErrNoRequiredSigners
	}
	if params.Content.Kind == model.ContentKindBinary && len(params.Content.Binary) > config.GetMaxBinarySize() {
		return model.Document{}, fmt.Errorf("%w: binary payload exceeds %d bytes",
			model.ErrInvalidContent, config.GetMaxBinarySize())
	}

	canonicalBytes, err := a.canon.Canonicalize(params.Content)
	if err != nil {
		return model.Document{}, fmt.Errorf("%w: %v", model.ErrInvalidContent, err)
	}

	now := time.Now().UTC().Truncate(time.Second)

	doc := model.Document{
		ID:        uuid.NewString(),
		Content:   params.Content,
		CreatedBy: identity,
		CreatedAt: now,
		UpdatedAt: now,
		Status:    model.DocStatusPending,
	}
	doc.Content.Hash = hashing.Calculate(canonicalBytes)

	for _, signer := range params.RequiredSigners {
		doc.RequiredSigners = append(doc.RequiredSigners,
			model.RequiredSigner{Identifier: signer, Required: true})
	}

	a.logger.Info("creating a document",
		zap.String("documentID", doc.ID),
		zap.String("contentType", doc.Content.Kind.String()),
		zap.String("contentHash", doc.Content.Hash),
		zap.String("author", identity.SubjectID),
		zap.Int("requiredSigners", len(doc.RequiredSigners)))

	if err := a.store.Put(ctx, doc); err != nil {
		return model.Document{}, err
	}

	if params.SelfSign {
		if _, err := a.SignDocument(ctx, doc.ID, identity, capability); err != nil {
			// the document stays; the creator can retry the signature
			a.logger.Warn("immediate self-sign failed: "+err.Error(), zap.String("documentID", doc.ID))
			return model.Document{}, err
		}
		return a.GetDocument(ctx, doc.ID)
	}

	return doc, nil
}

// SignDocument loads the latest document state, runs the signing
// coordinator against it and persists the appended signature. Attempts on
// one document are serialized, so the duplicate check always sees the
// latest appended state.
func (a *App) SignDocument(ctx context.Context, docID string, identity model.Identity, capability wallet.Capability) (model.Signature, error) {
	var signature model.Signature

	err := a.withDocumentLock(docID, func() error {
		doc, err := a.getDocument(ctx, docID)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, config.GetSigningTimeout())
		defer cancel()

		signature, err = a.coordinator.Sign(ctx, &doc, identity, capability)
		if err != nil {
			return err
		}

		return a.store.Put(ctx, doc)
	})

	return signature, err
}

// VerifyDocument recomputes the full verification report and refreshes the
// cached verified flags as a read optimization. The report never depends on
// those caches.
func (a *App) VerifyDocument(ctx context.Context, docID string) (verify.DocumentReport, error) {
	doc, err := a.getDocument(ctx, docID)
	if err != nil {
		return verify.DocumentReport{}, err
	}

	report := verify.Document(doc)

	for i := range doc.Signatures {
		doc.Signatures[i].Verified = report.Signatures[i].Valid
		doc.Signatures[i].VerifiedAt = report.VerifiedAt
	}
	if err := a.store.Put(ctx, doc); err != nil {
		// the report stands on its own, a failed cache refresh is not fatal
		a.logger.Warn("failed to persist the verification caches: "+err.Error(),
			zap.String("documentID", docID))
	}

	return report, nil
}

func (a *App) GetDocument(ctx context.Context, docID string) (model.Document, error) {
	return a.getDocument(ctx, docID)
}

// GetAllDocuments returns every stored document with its status freshly
// derived from the signature list.
func (a *App) GetAllDocuments(ctx context.Context) ([]model.Document, error) {
	docs, err := a.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range docs {
		docs[i].RefreshStatus()
	}
	return docs, nil
}

// CancelDocument is the one administrative action that reaches the
// cancelled status. It is terminal and audited; signing a cancelled
// document is rejected.
func (a *App) CancelDocument(ctx context.Context, docID string, admin model.Identity) error {
	if admin.SubjectID == "" {
		return model.ErrNotAuthenticated
	}

	return a.withDocumentLock(docID, func() error {
		doc, err := a.getDocument(ctx, docID)
		if err != nil {
			return err
		}
		if doc.Status == model.DocStatusCancelled {
			return model.ErrDocumentCancelled
		}

		now := time.Now().UTC().Truncate(time.Second)
		doc.Status = model.DocStatusCancelled
		doc.CancelledBy = admin.SubjectID
		doc.CancelledAt = now
		doc.UpdatedAt = now

		a.logger.Info("document cancelled",
			zap.String("documentID", docID),
			zap.String("admin", admin.SubjectID))

		return a.store.Put(ctx, doc)
	})
}

// ExportBundle packs a document for offline third-party verification.
func (a *App) ExportBundle(ctx context.Context, docID string) ([]byte, error) {
	doc, err := a.getDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	return bundle.Export(doc)
}

func (a *App) getDocument(ctx context.Context, docID string) (model.Document, error) {
	doc, err := a.store.Get(ctx, docID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Document{}, model.ErrDocumentNotFound
	}
	if err != nil {
		return model.Document{}, err
	}

	// derived state is recomputed on every load, the persisted copy is
	// only a cache
	doc.RefreshStatus()
	return doc, nil
}
