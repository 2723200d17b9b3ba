package bundle

import (
	"errors"

	"doc-attest/internal/model"
	"doc-attest/internal/repository"

	"github.com/fxamacker/cbor"
)

// FormatVersion is bumped whenever the bundle layout changes.
const FormatVersion = 1

// envelope is what actually goes over the wire: the portable document
// record plus a format marker, canonically CBOR-encoded.
type envelope struct {
	Version  int                       `cbor:"version"`
	Document repository.StoredDocument `cbor:"document"`
}

// Export packs a document with all its signatures into a self-contained
// blob. A third party holding nothing but this blob can decode it and run
// the verification engine over the result.
func Export(doc model.Document) ([]byte, error) {
	data, err := cbor.Marshal(envelope{
		Version:  FormatVersion,
		Document: repository.NewStoredDocument(doc),
	}, cbor.EncOptions{Canonical: true})
	if err != nil {
		return nil, errors.New("failed to encode the bundle: " + err.Error())
	}

	return data, nil
}

// Import unpacks a bundle produced by Export.
func Import(data []byte) (model.Document, error) {
	var env envelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return model.Document{}, errors.New("failed to decode the bundle: " + err.Error())
	}

	if env.Version != FormatVersion {
		return model.Document{}, errors.New("unsupported bundle format version")
	}

	return env.Document.ToModel()
}
