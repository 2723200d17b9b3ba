package attestation

import (
	"strings"
	"time"

	"doc-attest/internal/model"
)

// The message format is part of the system's public contract: every signer
// and every offline verifier rebuilds it byte for byte. Any change here
// breaks cross-party verifiability and needs a version bump of the header.
const (
	header = "----- BEGIN DOCUMENT ATTESTATION v1 -----"
	footer = "----- END DOCUMENT ATTESTATION v1 -----"

	attestationSentence = "I attest that I have reviewed this document and approve its content as identified by the hash above."
)

// BuildMessage returns the exact byte sequence every required signer signs.
// It is a pure function of the document's immutable identity fields; the
// current signature list deliberately plays no part, so the message is
// identical for the first and the last signer.
func BuildMessage(doc model.Document) string {
	var b strings.Builder

	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString("Document ID: " + doc.ID + "\n")
	b.WriteString("Content Type: " + doc.Content.Kind.String() + "\n")
	b.WriteString("Content Hash: " + doc.Content.Hash + "\n")
	b.WriteString("Created At: " + doc.CreatedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("Required Signers: " + strings.Join(doc.SignerIdentifiers(), ", ") + "\n")
	b.WriteString(attestationSentence)
	b.WriteString("\n")
	b.WriteString(footer)

	return b.String()
}
