package model

import "errors"

// Authorization errors: surfaced to the caller, never change state.
var (
	ErrNotAuthenticated   = errors.New("identity is not authenticated")
	ErrNotARequiredSigner = errors.New("identity is not a required signer of this document")
	ErrAlreadySigned      = errors.New("identity has already signed this document")
)

// External failures: retryable by the caller, must not leave partial records.
var (
	ErrSigningFailed = errors.New("the signing capability returned no signature")
)

// Validation errors: the operation is rejected, stored state is untouched.
var (
	ErrInvalidContent    = errors.New("invalid document content")
	ErrNoRequiredSigners = errors.New("a document needs at least one required signer")
	ErrDocumentCancelled = errors.New("document is cancelled")
	ErrDocumentNotFound  = errors.New("document not found")
)
