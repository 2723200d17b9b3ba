package model

import "time"

// Signature is one append-only record of a signing attempt that succeeded.
// DocumentHash snapshots content.Hash at signing time and is what lets a
// verifier prove the content was not touched afterwards.
type Signature struct {
	Signer       Identity
	SignatureHex string
	SignedAt     time.Time
	DocumentHash string

	// Verified and VerifiedAt are a read optimization only. The
	// verification engine recomputes them from scratch every time and
	// never trusts these fields.
	Verified   bool
	VerifiedAt time.Time
}
