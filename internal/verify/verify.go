package verify

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"doc-attest/internal/attestation"
	"doc-attest/internal/canonical"
	"doc-attest/internal/hashing"
	"doc-attest/internal/model"
	"doc-attest/internal/signkeys"
)

// SignatureReport is the outcome of checking one signature. Verification
// failures are data, not errors: the report always comes back, with Error
// explaining why Valid is false when recovery itself broke down.
type SignatureReport struct {
	Valid            bool
	RecoveredAddress string
	ExpectedAddress  string
	AddressMatch     bool
	HashMatch        bool
	Error            string
}

type DocumentReport struct {
	Valid             bool
	SignaturesValid   bool
	ContentHashValid  bool
	AllSignersPresent bool
	Errors            []string
	VerifiedAt        time.Time
	Signatures        []SignatureReport
}

// Signature checks one stored signature against the document as it is now.
// The attestation message is rebuilt from the current fields, the content
// hash is recomputed from scratch, and the signer address is recovered from
// the signature bytes. Everything happens offline; nothing outside the two
// arguments is consulted.
func Signature(sig model.Signature, doc model.Document) SignatureReport {
	report := SignatureReport{ExpectedAddress: sig.Signer.WalletAddress}

	freshHash, err := recomputeContentHash(doc)
	if err != nil {
		report.Error = "failed to recompute the content hash: " + err.Error()
		return report
	}
	report.HashMatch = hashing.Equal(sig.DocumentHash, freshHash)

	signatureBytes, err := decodeSignature(sig.SignatureHex)
	if err != nil {
		report.Error = "malformed signature encoding: " + err.Error()
		return report
	}

	message := attestation.BuildMessage(doc)
	recovered, err := signkeys.RecoverAddress(signatureBytes, message)
	if err != nil {
		report.Error = "signature recovery failed: " + err.Error()
		return report
	}

	report.RecoveredAddress = recovered
	report.AddressMatch = strings.EqualFold(recovered, sig.Signer.WalletAddress)
	report.Valid = report.AddressMatch && report.HashMatch

	if !report.Valid && report.Error == "" {
		switch {
		case !report.AddressMatch:
			report.Error = "recovered address does not match the recorded signer"
		case !report.HashMatch:
			report.Error = "document content changed after signing"
		}
	}

	return report
}

// Document produces the full verification report: every signature checked
// individually, the content hash recomputed, and required-signer coverage
// evaluated dynamically against the signature list. Computable by any third
// party holding the document and its signatures, with no other state.
func Document(doc model.Document) DocumentReport {
	report := DocumentReport{
		SignaturesValid: true,
		VerifiedAt:      time.Now().UTC(),
	}

	for i, sig := range doc.Signatures {
		sigReport := Signature(sig, doc)
		report.Signatures = append(report.Signatures, sigReport)

		if !sigReport.Valid {
			report.SignaturesValid = false
			reason := sigReport.Error
			if reason == "" {
				reason = "invalid signature"
			}
			report.Errors = append(report.Errors,
				"signature "+strconv.Itoa(i)+" ("+sig.Signer.SubjectID+"): "+reason)
		}
	}

	freshHash, err := recomputeContentHash(doc)
	if err != nil {
		report.Errors = append(report.Errors, "failed to recompute the content hash: "+err.Error())
	} else {
		report.ContentHashValid = hashing.Equal(doc.Content.Hash, freshHash)
		if !report.ContentHashValid {
			report.Errors = append(report.Errors, "stored content hash does not match the content")
		}
	}

	report.AllSignersPresent = allSignersPresent(doc)
	if !report.AllSignersPresent {
		report.Errors = append(report.Errors, "not all required signers have signed")
	}

	report.Valid = report.SignaturesValid && report.ContentHashValid && report.AllSignersPresent
	return report
}

func allSignersPresent(doc model.Document) bool {
	for _, signer := range doc.RequiredSigners {
		covered := false
		for _, sig := range doc.Signatures {
			if model.MatchesIdentity(signer.Identifier, sig.Signer) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return len(doc.RequiredSigners) > 0
}

func recomputeContentHash(doc model.Document) (string, error) {
	canonicalBytes, err := canonical.New().Canonicalize(doc.Content)
	if err != nil {
		return "", err
	}
	return hashing.Calculate(canonicalBytes), nil
}

func decodeSignature(signatureHex string) ([]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(signatureHex, "0x"), "0X")
	return hex.DecodeString(trimmed)
}
