package repository

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"doc-attest/internal/model"
)

// The stored record is the portable form of a document: timestamps as
// RFC 3339 strings and binary content as base64 text, so any consumer can
// restore it without knowing the storage medium. Both the mongo repository
// and the offline bundle persist this shape.

type StoredIdentity struct {
	SubjectID     string `bson:"subjectId" cbor:"subjectId"`
	DisplayName   string `bson:"displayName" cbor:"displayName"`
	Email         string `bson:"email,omitempty" cbor:"email,omitempty"`
	WalletAddress string `bson:"walletAddress" cbor:"walletAddress"`
}

type StoredRequiredSigner struct {
	Identifier string `bson:"identifier" cbor:"identifier"`
	Required   bool   `bson:"required" cbor:"required"`
	HasSigned  bool   `bson:"hasSigned" cbor:"hasSigned"`
}

type StoredSignature struct {
	Signer       StoredIdentity `bson:"signer" cbor:"signer"`
	Signature    string         `bson:"signature" cbor:"signature"`
	SignedAt     string         `bson:"signedAt" cbor:"signedAt"`
	DocumentHash string         `bson:"documentHash" cbor:"documentHash"`
	Verified     bool           `bson:"verified" cbor:"verified"`
	VerifiedAt   string         `bson:"verifiedAt,omitempty" cbor:"verifiedAt,omitempty"`
}

type StoredContent struct {
	Kind       string `bson:"kind" cbor:"kind"`
	Text       string `bson:"text,omitempty" cbor:"text,omitempty"`
	Structured string `bson:"structured,omitempty" cbor:"structured,omitempty"`
	Binary     string `bson:"binary,omitempty" cbor:"binary,omitempty"`
	Hash       string `bson:"hash" cbor:"hash"`
}

type StoredDocument struct {
	ID              string                 `bson:"_id" cbor:"id"`
	Content         StoredContent          `bson:"content" cbor:"content"`
	CreatedBy       StoredIdentity         `bson:"createdBy" cbor:"createdBy"`
	CreatedAt       string                 `bson:"createdAt" cbor:"createdAt"`
	UpdatedAt       string                 `bson:"updatedAt" cbor:"updatedAt"`
	Status          string                 `bson:"status" cbor:"status"`
	RequiredSigners []StoredRequiredSigner `bson:"requiredSigners" cbor:"requiredSigners"`
	Signatures      []StoredSignature      `bson:"signatures" cbor:"signatures"`
	CancelledBy     string                 `bson:"cancelledBy,omitempty" cbor:"cancelledBy,omitempty"`
	CancelledAt     string                 `bson:"cancelledAt,omitempty" cbor:"cancelledAt,omitempty"`
}

func NewStoredDocument(doc model.Document) StoredDocument {
	stored := StoredDocument{
		ID:          doc.ID,
		Content:     newStoredContent(doc.Content),
		CreatedBy:   newStoredIdentity(doc.CreatedBy),
		CreatedAt:   formatTime(doc.CreatedAt),
		UpdatedAt:   formatTime(doc.UpdatedAt),
		Status:      doc.Status.String(),
		CancelledBy: doc.CancelledBy,
		CancelledAt: formatTime(doc.CancelledAt),
	}

	for _, signer := range doc.RequiredSigners {
		stored.RequiredSigners = append(stored.RequiredSigners, StoredRequiredSigner(signer))
	}
	for _, sig := range doc.Signatures {
		stored.Signatures = append(stored.Signatures, StoredSignature{
			Signer:       newStoredIdentity(sig.Signer),
			Signature:    sig.SignatureHex,
			SignedAt:     formatTime(sig.SignedAt),
			DocumentHash: sig.DocumentHash,
			Verified:     sig.Verified,
			VerifiedAt:   formatTime(sig.VerifiedAt),
		})
	}

	return stored
}

// ToModel restores the structured document, parsing the timestamp strings
// and decoding the base64 binary payload.
func (stored StoredDocument) ToModel() (model.Document, error) {
	content, err := stored.Content.toModel()
	if err != nil {
		return model.Document{}, err
	}

	createdAt, err := parseTime(stored.CreatedAt)
	if err != nil {
		return model.Document{}, errors.New("invalid createdAt timestamp: " + err.Error())
	}
	updatedAt, err := parseTime(stored.UpdatedAt)
	if err != nil {
		return model.Document{}, errors.New("invalid updatedAt timestamp: " + err.Error())
	}
	cancelledAt, err := parseTime(stored.CancelledAt)
	if err != nil {
		return model.Document{}, errors.New("invalid cancelledAt timestamp: " + err.Error())
	}

	doc := model.Document{
		ID:          stored.ID,
		Content:     content,
		CreatedBy:   model.Identity(stored.CreatedBy),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
		Status:      model.DocStatus(stored.Status),
		CancelledBy: stored.CancelledBy,
		CancelledAt: cancelledAt,
	}

	for _, signer := range stored.RequiredSigners {
		doc.RequiredSigners = append(doc.RequiredSigners, model.RequiredSigner(signer))
	}
	for _, sig := range stored.Signatures {
		signedAt, err := parseTime(sig.SignedAt)
		if err != nil {
			return model.Document{}, errors.New("invalid signedAt timestamp: " + err.Error())
		}
		verifiedAt, err := parseTime(sig.VerifiedAt)
		if err != nil {
			return model.Document{}, errors.New("invalid verifiedAt timestamp: " + err.Error())
		}

		doc.Signatures = append(doc.Signatures, model.Signature{
			Signer:       model.Identity(sig.Signer),
			SignatureHex: sig.Signature,
			SignedAt:     signedAt,
			DocumentHash: sig.DocumentHash,
			Verified:     sig.Verified,
			VerifiedAt:   verifiedAt,
		})
	}

	return doc, nil
}

func newStoredContent(content model.DocumentContent) StoredContent {
	stored := StoredContent{
		Kind: content.Kind.String(),
		Text: content.Text,
		Hash: content.Hash,
	}
	if len(content.Structured) > 0 {
		stored.Structured = string(content.Structured)
	}
	if len(content.Binary) > 0 {
		stored.Binary = base64.StdEncoding.EncodeToString(content.Binary)
	}
	return stored
}

func (stored StoredContent) toModel() (model.DocumentContent, error) {
	content := model.DocumentContent{
		Kind: model.ContentKind(stored.Kind),
		Text: stored.Text,
		Hash: stored.Hash,
	}

	if !content.Kind.IsValid() {
		return model.DocumentContent{}, errors.New("unknown content kind: " + stored.Kind)
	}

	if stored.Structured != "" {
		content.Structured = json.RawMessage(stored.Structured)
	}
	if stored.Binary != "" {
		decoded, err := base64.StdEncoding.DecodeString(stored.Binary)
		if err != nil {
			return model.DocumentContent{}, errors.New("invalid base64 binary content: " + err.Error())
		}
		content.Binary = decoded
	}

	return content, nil
}

func newStoredIdentity(identity model.Identity) StoredIdentity {
	return StoredIdentity(identity)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}
