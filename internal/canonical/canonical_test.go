package canonical_test

import (
	"doc-attest/internal/canonical"
	"doc-attest/internal/model"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeTextVerbatim(t *testing.T) {
	c := canonical.New()

	out, err := c.Canonicalize(model.NewTextContent("  hello\nworld  "))
	require.NoError(t, err)

	// no trimming, no normalization
	assert.Equal(t, []byte("  hello\nworld  "), out)
}

func TestCanonicalizeStructuredKeyOrderIndependent(t *testing.T) {
	c := canonical.New()

	first, err := c.Canonicalize(model.NewStructuredContent(json.RawMessage(`{"b":1,"a":2}`)))
	require.NoError(t, err)
	second, err := c.Canonicalize(model.NewStructuredContent(json.RawMessage(`{"a":2,"b":1}`)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, `{"a":2,"b":1}`, string(first))
}

func TestCanonicalizeStructuredStripsWhitespace(t *testing.T) {
	c := canonical.New()

	out, err := c.Canonicalize(model.NewStructuredContent(json.RawMessage("{\n  \"z\": [1, 2],\n  \"a\": \"x\"\n}")))
	require.NoError(t, err)

	assert.Equal(t, `{"a":"x","z":[1,2]}`, string(out))
}

func TestCanonicalizeStructuredArrayOrderPreserved(t *testing.T) {
	c := canonical.New()

	out, err := c.Canonicalize(model.NewStructuredContent(json.RawMessage(`[3,1,2]`)))
	require.NoError(t, err)

	assert.Equal(t, `[3,1,2]`, string(out))
}

func TestCanonicalizeStructuredInvalidJSON(t *testing.T) {
	c := canonical.New()

	_, err := c.Canonicalize(model.NewStructuredContent(json.RawMessage(`{"a":`)))
	assert.ErrorIs(t, err, canonical.ErrUnsupportedValue)
}

func TestCanonicalizeStructuredDepthGuard(t *testing.T) {
	nested := strings.Repeat(`{"a":`, 11) + "1" + strings.Repeat("}", 11)

	c := canonical.New()
	_, err := c.Canonicalize(model.NewStructuredContent(json.RawMessage(nested)))
	assert.ErrorIs(t, err, canonical.ErrDepthExceeded)

	// a wider limit accepts the same value
	wide := canonical.NewWithMaxDepth(20)
	_, err = wide.Canonicalize(model.NewStructuredContent(json.RawMessage(nested)))
	assert.NoError(t, err)
}

func TestCanonicalizeBinaryIsBase64(t *testing.T) {
	c := canonical.New()

	out, err := c.Canonicalize(model.NewBinaryContent([]byte{0x00, 0x01, 0xff}))
	require.NoError(t, err)

	// the canonical form is the encoded text, not the raw bytes
	assert.Equal(t, []byte("AAH/"), out)
}

func TestCanonicalizeValueCycle(t *testing.T) {
	type node struct {
		Next *node `json:"next"`
	}
	looped := &node{}
	looped.Next = looped

	c := canonical.New()
	_, err := c.CanonicalizeValue(looped)
	assert.ErrorIs(t, err, canonical.ErrUnsupportedValue)
}

func TestCanonicalizeValueSortsKeys(t *testing.T) {
	c := canonical.New()

	out, err := c.CanonicalizeValue(map[string]interface{}{"b": 1, "a": 2})
	require.NoError(t, err)

	assert.Equal(t, `{"a":2,"b":1}`, string(out))
}

func TestCanonicalizeUnknownKind(t *testing.T) {
	c := canonical.New()

	_, err := c.Canonicalize(model.DocumentContent{Kind: "spreadsheet"})
	assert.ErrorIs(t, err, canonical.ErrUnsupportedKind)
}
