package model

import "strings"

// Identity is the authenticated caller as delivered by the identity
// provider, together with the wallet account able to produce signatures.
type Identity struct {
	SubjectID     string
	DisplayName   string
	Email         string
	WalletAddress string
}

// IsAuthenticated reports whether the identity is complete enough to sign:
// a stable subject id and a wallet account are both needed.
func (id Identity) IsAuthenticated() bool {
	return id.SubjectID != "" && id.WalletAddress != ""
}

// MatchesIdentity is the single identity-match policy used by the signing
// coordinator, the status derivation and the verification engine. A stored
// signer identifier refers to an identity when it equals the subject id,
// the email (case-insensitive) or the display name.
func MatchesIdentity(identifier string, identity Identity) bool {
	if identifier == "" {
		return false
	}
	if identifier == identity.SubjectID {
		return true
	}
	if identity.Email != "" && strings.EqualFold(identifier, identity.Email) {
		return true
	}
	return identity.DisplayName != "" && identifier == identity.DisplayName
}
