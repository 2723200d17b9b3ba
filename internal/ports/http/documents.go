package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"doc-attest/internal/app"
	"doc-attest/internal/model"
	"doc-attest/internal/ports/http/middleware/auth"

	"github.com/gorilla/mux"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type postDocumentRequest struct {
	Kind            string          `json:"kind"`
	Text            string          `json:"text,omitempty"`
	Structured      json.RawMessage `json:"structured,omitempty"`
	Binary          string          `json:"binary,omitempty"`
	RequiredSigners []string        `json:"requiredSigners"`
	SelfSign        bool            `json:"selfSign"`
}

type retrievedSignature struct {
	Signer       string `json:"signer"`
	Wallet       string `json:"wallet"`
	Signature    string `json:"signature"`
	SignedAt     string `json:"signedAt"`
	DocumentHash string `json:"documentHash"`
}

type retrievedDocument struct {
	ID              string               `json:"id"`
	Kind            string               `json:"kind"`
	ContentHash     string               `json:"contentHash"`
	Author          string               `json:"author"`
	CreatedAt       string               `json:"createdAt"`
	Status          string               `json:"status"`
	RequiredSigners []string             `json:"requiredSigners"`
	Signed          int                  `json:"signed"`
	Signatures      []retrievedSignature `json:"signatures"`
}

func (ret *retrievedDocument) assign(doc model.Document) {
	ret.ID = doc.ID
	ret.Kind = doc.Content.Kind.String()
	ret.ContentHash = doc.Content.Hash
	ret.Author = doc.CreatedBy.DisplayName
	ret.CreatedAt = doc.CreatedAt.UTC().Format(time.RFC3339)
	ret.Status = doc.Status.String()
	ret.RequiredSigners = doc.SignerIdentifiers()
	ret.Signed = doc.SignedCount()

	ret.Signatures = make([]retrievedSignature, len(doc.Signatures))
	for i, sig := range doc.Signatures {
		ret.Signatures[i] = retrievedSignature{
			Signer:       sig.Signer.DisplayName,
			Wallet:       sig.Signer.WalletAddress,
			Signature:    sig.SignatureHex,
			SignedAt:     sig.SignedAt.UTC().Format(time.RFC3339),
			DocumentHash: sig.DocumentHash,
		}
	}
}

func (ser server) postDocument(w http.ResponseWriter, r *http.Request) {
	params, err := readPostDocumentParams(r)
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	identity := auth.IdentityFromContext(r.Context())
	ser.logger.Info("creating a document",
		zap.String("kind", params.Content.Kind.String()),
		zap.String("author", identity.SubjectID))

	doc, err := ser.app.CreateDocument(r.Context(), identity, params, ser.wallet)
	if err != nil {
		ser.operationError(w, err)
		return
	}

	ser.respondDocumentStatus(w, http.StatusCreated, doc)
}

func (ser server) getDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := ser.app.GetAllDocuments(r.Context())
	if err != nil {
		ser.serverError(w, "getting the documents failed: "+err.Error())
		return
	}

	retDocs := make([]retrievedDocument, len(docs))
	for i, doc := range docs {
		retDocs[i].assign(doc)
	}
	ser.respondJSON(w, retDocs)
}

func (ser server) getDocument(w http.ResponseWriter, r *http.Request) {
	docID := normalize(mux.Vars(r)["documentID"])

	doc, err := ser.app.GetDocument(r.Context(), docID)
	if err != nil {
		ser.operationError(w, err)
		return
	}

	ser.respondDocument(w, doc)
}

func (ser server) postCancel(w http.ResponseWriter, r *http.Request) {
	docID := normalize(mux.Vars(r)["documentID"])
	identity := auth.IdentityFromContext(r.Context())

	if err := ser.app.CancelDocument(r.Context(), docID, identity); err != nil {
		ser.operationError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (ser server) getBundle(w http.ResponseWriter, r *http.Request) {
	docID := normalize(mux.Vars(r)["documentID"])

	blob, err := ser.app.ExportBundle(r.Context(), docID)
	if err != nil {
		ser.operationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/cbor")
	w.Header().Set("Content-Disposition", `attachment; filename="`+docID+`.bundle"`)
	if _, err := w.Write(blob); err != nil {
		ser.logger.Error("failed to write the bundle response: " + err.Error())
	}
}

func readPostDocumentParams(r *http.Request) (app.CreateDocumentParams, error) {
	var request postDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return app.CreateDocumentParams{}, errors.New("failed to decode the request body: " + err.Error())
	}

	var err error
	if len(request.RequiredSigners) == 0 {
		err = multierr.Append(err, errors.New("requiredSigners is missing"))
	}

	var content model.DocumentContent
	switch model.ContentKind(request.Kind) {
	case model.ContentKindText:
		content = model.NewTextContent(request.Text)
	case model.ContentKindStructured:
		content = model.NewStructuredContent(request.Structured)
	case model.ContentKindBinary:
		decoded, decodeErr := base64.StdEncoding.DecodeString(request.Binary)
		if decodeErr != nil {
			err = multierr.Append(err, errors.New("binary is not valid base64: "+decodeErr.Error()))
		}
		content = model.NewBinaryContent(decoded)
	default:
		err = multierr.Append(err, errors.New("kind must be one of text, structured, binary"))
	}

	if err != nil {
		return app.CreateDocumentParams{}, err
	}

	return app.CreateDocumentParams{
		Content:         content,
		RequiredSigners: request.RequiredSigners,
		SelfSign:        request.SelfSign,
	}, nil
}

func (ser server) respondDocument(w http.ResponseWriter, doc model.Document) {
	ser.respondDocumentStatus(w, http.StatusOK, doc)
}

func (ser server) respondDocumentStatus(w http.ResponseWriter, status int, doc model.Document) {
	var ret retrievedDocument
	ret.assign(doc)
	ser.respondJSONStatus(w, status, ret)
}

func (ser server) respondJSON(w http.ResponseWriter, payload interface{}) {
	ser.respondJSONStatus(w, http.StatusOK, payload)
}

func (ser server) respondJSONStatus(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		ser.serverError(w, "marshalling the response failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(response); err != nil {
		ser.logger.Error("failed to write the response: " + err.Error())
	}
}
