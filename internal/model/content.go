package model

import "encoding/json"

type ContentKind string

const (
	ContentKindText       ContentKind = "text"
	ContentKindStructured ContentKind = "structured"
	ContentKindBinary     ContentKind = "binary"
)

func (kind ContentKind) IsValid() bool {
	return kind == ContentKindText || kind == ContentKindStructured || kind == ContentKindBinary
}

func (kind ContentKind) String() string {
	return string(kind)
}

// DocumentContent is a tagged variant: exactly one of Text, Structured and
// Binary is populated, selected by Kind. Hash is stamped once at creation
// over the canonical form and is never recomputed in place; an apparent
// content edit has to be modeled as a new document.
type DocumentContent struct {
	Kind ContentKind

	Text       string
	Structured json.RawMessage
	Binary     []byte

	Hash string
}

func NewTextContent(text string) DocumentContent {
	return DocumentContent{Kind: ContentKindText, Text: text}
}

func NewStructuredContent(raw json.RawMessage) DocumentContent {
	return DocumentContent{Kind: ContentKindStructured, Structured: raw}
}

func NewBinaryContent(data []byte) DocumentContent {
	return DocumentContent{Kind: ContentKindBinary, Binary: data}
}
