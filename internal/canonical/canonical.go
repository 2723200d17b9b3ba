package canonical

import (
	"bytes"
	"doc-attest/internal/model"
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

// DefaultMaxDepth bounds structured-content nesting before serialization is
// even attempted, to keep adversarial input cheap to reject.
const DefaultMaxDepth = 10

var (
	ErrUnsupportedValue = errors.New("value has no canonical JSON representation")
	ErrDepthExceeded    = errors.New("structured content exceeds the maximum nesting depth")
	ErrUnsupportedKind  = errors.New("unsupported content kind")
)

// Canonicalizer produces the unique deterministic byte form of document
// content, the input of the content hash. It is pure and safe for
// concurrent use.
type Canonicalizer struct {
	maxDepth int
}

func New() Canonicalizer {
	return Canonicalizer{maxDepth: DefaultMaxDepth}
}

func NewWithMaxDepth(maxDepth int) Canonicalizer {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return Canonicalizer{maxDepth: maxDepth}
}

// Canonicalize returns the canonical bytes of the content payload:
//   - text: the UTF-8 bytes verbatim
//   - structured: RFC 8785 canonical JSON (sorted keys, no whitespace,
//     minimal number form)
//   - binary: the base64 text encoding of the payload; the hash deliberately
//     covers the encoded form so that it is independent of whatever
//     transport encoding carried the bytes
func (c Canonicalizer) Canonicalize(content model.DocumentContent) ([]byte, error) {
	switch content.Kind {
	case model.ContentKindText:
		return []byte(content.Text), nil

	case model.ContentKindStructured:
		return c.canonicalizeJSON(content.Structured)

	case model.ContentKindBinary:
		encoded := make([]byte, base64.StdEncoding.EncodedLen(len(content.Binary)))
		base64.StdEncoding.Encode(encoded, content.Binary)
		return encoded, nil
	}

	return nil, ErrUnsupportedKind
}

// CanonicalizeValue canonicalizes an arbitrary in-memory value by first
// encoding it as JSON. Values without a JSON representation (cycles,
// channels, functions) are rejected with ErrUnsupportedValue.
func (c Canonicalizer) CanonicalizeValue(value interface{}) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, ErrUnsupportedValue
	}
	return c.canonicalizeJSON(raw)
}

func (c Canonicalizer) canonicalizeJSON(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return nil, ErrUnsupportedValue
	}

	if err := c.checkDepth(raw); err != nil {
		return nil, err
	}

	canonical, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return nil, ErrUnsupportedValue
	}

	return canonical, nil
}

func (c Canonicalizer) checkDepth(raw json.RawMessage) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return ErrUnsupportedValue
	}

	if depthOf(value) > c.maxDepth {
		return ErrDepthExceeded
	}
	return nil
}

func depthOf(value interface{}) int {
	switch typed := value.(type) {
	case map[string]interface{}:
		deepest := 0
		for _, nested := range typed {
			if d := depthOf(nested); d > deepest {
				deepest = d
			}
		}
		return deepest + 1
	case []interface{}:
		deepest := 0
		for _, nested := range typed {
			if d := depthOf(nested); d > deepest {
				deepest = d
			}
		}
		return deepest + 1
	}
	return 0
}
