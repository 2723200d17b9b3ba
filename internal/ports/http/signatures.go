package http

import (
	"net/http"
	"time"

	"doc-attest/internal/ports/http/middleware/auth"
	"doc-attest/internal/verify"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type signatureResponse struct {
	Signer       string `json:"signer"`
	Wallet       string `json:"wallet"`
	Signature    string `json:"signature"`
	SignedAt     string `json:"signedAt"`
	DocumentHash string `json:"documentHash"`
}

type signatureReportResponse struct {
	Valid            bool   `json:"valid"`
	RecoveredAddress string `json:"recoveredAddress,omitempty"`
	ExpectedAddress  string `json:"expectedAddress"`
	AddressMatch     bool   `json:"addressMatch"`
	HashMatch        bool   `json:"hashMatch"`
	Error            string `json:"error,omitempty"`
}

type verificationResponse struct {
	Valid             bool                      `json:"valid"`
	SignaturesValid   bool                      `json:"signaturesValid"`
	ContentHashValid  bool                      `json:"contentHashValid"`
	AllSignersPresent bool                      `json:"allSignersPresent"`
	Errors            []string                  `json:"errors,omitempty"`
	VerifiedAt        string                    `json:"verifiedAt"`
	Signatures        []signatureReportResponse `json:"signatures"`
}

func (ser server) postSignature(w http.ResponseWriter, r *http.Request) {
	docID := normalize(mux.Vars(r)["documentID"])
	identity := auth.IdentityFromContext(r.Context())

	ser.logger.Info("signing a document",
		zap.String("documentID", docID),
		zap.String("signer", identity.SubjectID))

	signature, err := ser.app.SignDocument(r.Context(), docID, identity, ser.wallet)
	if err != nil {
		ser.operationError(w, err)
		return
	}

	ser.respondJSONStatus(w, http.StatusCreated, signatureResponse{
		Signer:       signature.Signer.DisplayName,
		Wallet:       signature.Signer.WalletAddress,
		Signature:    signature.SignatureHex,
		SignedAt:     signature.SignedAt.UTC().Format(time.RFC3339),
		DocumentHash: signature.DocumentHash,
	})
}

func (ser server) getVerification(w http.ResponseWriter, r *http.Request) {
	docID := normalize(mux.Vars(r)["documentID"])

	report, err := ser.app.VerifyDocument(r.Context(), docID)
	if err != nil {
		ser.operationError(w, err)
		return
	}

	ser.respondJSON(w, newVerificationResponse(report))
}

func newVerificationResponse(report verify.DocumentReport) verificationResponse {
	response := verificationResponse{
		Valid:             report.Valid,
		SignaturesValid:   report.SignaturesValid,
		ContentHashValid:  report.ContentHashValid,
		AllSignersPresent: report.AllSignersPresent,
		Errors:            report.Errors,
		VerifiedAt:        report.VerifiedAt.Format(time.RFC3339),
	}

	for _, sig := range report.Signatures {
		response.Signatures = append(response.Signatures, signatureReportResponse{
			Valid:            sig.Valid,
			RecoveredAddress: sig.RecoveredAddress,
			ExpectedAddress:  sig.ExpectedAddress,
			AddressMatch:     sig.AddressMatch,
			HashMatch:        sig.HashMatch,
			Error:            sig.Error,
		})
	}

	return response
}
