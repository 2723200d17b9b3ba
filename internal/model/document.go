package model

import "time"

type DocStatus string

const (
	DocStatusDraft     DocStatus = "draft"
	DocStatusPending   DocStatus = "pending"
	DocStatusPartial   DocStatus = "partial"
	DocStatusComplete  DocStatus = "complete"
	DocStatusCancelled DocStatus = "cancelled"
)

func (status DocStatus) IsValid() bool {
	switch status {
	case DocStatusDraft, DocStatusPending, DocStatusPartial, DocStatusComplete, DocStatusCancelled:
		return true
	}
	return false
}

func (status DocStatus) String() string {
	return string(status)
}

// RequiredSigner is one entry of the signer set fixed at creation. The
// identifier may be a subject id, an email or a display name; matching is
// done through MatchesIdentity. HasSigned is a derived cache, refreshed
// together with the status and never used as ground truth.
type RequiredSigner struct {
	Identifier string
	Required   bool
	HasSigned  bool
}

type Document struct {
	ID      string
	Content DocumentContent

	CreatedBy Identity
	CreatedAt time.Time
	UpdatedAt time.Time

	Status          DocStatus
	RequiredSigners []RequiredSigner
	Signatures      []Signature

	CancelledBy string
	CancelledAt time.Time
}

// SignatureOf returns the stored signature matching the given identity
// under the shared match policy, if any.
func (doc Document) SignatureOf(identity Identity) (Signature, bool) {
	for _, sig := range doc.Signatures {
		if identitiesMatch(sig.Signer, identity) {
			return sig, true
		}
	}
	return Signature{}, false
}

// RequiredSignerFor returns the required-signer entry matching the identity.
func (doc Document) RequiredSignerFor(identity Identity) (RequiredSigner, bool) {
	for _, signer := range doc.RequiredSigners {
		if MatchesIdentity(signer.Identifier, identity) {
			return signer, true
		}
	}
	return RequiredSigner{}, false
}

// SignerIdentifiers returns the required-signer identifiers in stored order.
func (doc Document) SignerIdentifiers() []string {
	identifiers := make([]string, len(doc.RequiredSigners))
	for i, signer := range doc.RequiredSigners {
		identifiers[i] = signer.Identifier
	}
	return identifiers
}

// SignedCount counts the required signers covered by a stored signature,
// evaluated dynamically against the signature list.
func (doc Document) SignedCount() int {
	count := 0
	for _, signer := range doc.RequiredSigners {
		if doc.signerCovered(signer.Identifier) {
			count++
		}
	}
	return count
}

// ComputeStatus derives the lifecycle status purely from the required-signer
// set and the signature list. Cancelled is terminal and is never produced
// here; it is only ever set by an explicit administrative action.
func (doc Document) ComputeStatus() DocStatus {
	if doc.Status == DocStatusCancelled {
		return DocStatusCancelled
	}

	allSigned := true
	for _, signer := range doc.RequiredSigners {
		if !doc.signerCovered(signer.Identifier) {
			allSigned = false
			break
		}
	}

	if allSigned && len(doc.RequiredSigners) > 0 {
		return DocStatusComplete
	}
	if len(doc.Signatures) > 0 {
		return DocStatusPartial
	}
	return DocStatusPending
}

// RefreshStatus recomputes the status and the HasSigned caches after a
// signature append.
func (doc *Document) RefreshStatus() {
	for i, signer := range doc.RequiredSigners {
		doc.RequiredSigners[i].HasSigned = doc.signerCovered(signer.Identifier)
	}
	doc.Status = doc.ComputeStatus()
}

func (doc Document) signerCovered(identifier string) bool {
	for _, sig := range doc.Signatures {
		if MatchesIdentity(identifier, sig.Signer) {
			return true
		}
	}
	return false
}

// identitiesMatch applies the shared policy symmetrically on the fields of
// a recorded signer against a live identity.
func identitiesMatch(recorded Identity, identity Identity) bool {
	return MatchesIdentity(recorded.SubjectID, identity) ||
		MatchesIdentity(recorded.Email, identity) ||
		MatchesIdentity(recorded.DisplayName, identity)
}
