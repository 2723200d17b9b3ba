package app_test

import (
	"context"
	"encoding/json"
	"testing"

	"doc-attest/internal/app"
	"doc-attest/internal/bundle"
	"doc-attest/internal/keymanager"
	"doc-attest/internal/model"
	"doc-attest/internal/repository/memory"
	"doc-attest/internal/verify"
	"doc-attest/internal/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type env struct {
	app    *app.App
	store  *memory.Store
	wallet wallet.Local
	alice  model.Identity
	bob    model.Identity
}

func newEnv(t *testing.T) env {
	t.Helper()

	keys := keymanager.NewKeyManager(zap.NewNop())
	aliceKeys, err := keys.GenerateKeys()
	require.NoError(t, err)
	bobKeys, err := keys.GenerateKeys()
	require.NoError(t, err)

	store := memory.NewStore()

	return env{
		app:    app.NewApp(zap.NewNop(), store),
		store:  store,
		wallet: wallet.NewLocal(zap.NewNop(), keys),
		alice: model.Identity{
			SubjectID:     "sub-alice",
			DisplayName:   "Alice",
			Email:         "alice@example.com",
			WalletAddress: aliceKeys.Address(),
		},
		bob: model.Identity{
			SubjectID:     "sub-bob",
			DisplayName:   "Bob",
			Email:         "bob@example.com",
			WalletAddress: bobKeys.Address(),
		},
	}
}

// create a text document with required signers [Alice, Bob], Alice signs at
// creation, Bob signs after: partial then complete, and the full report is
// valid
func TestCreateSignVerifyFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	doc, err := e.app.CreateDocument(ctx, e.alice, app.CreateDocumentParams{
		Content:         model.NewTextContent("hello"),
		RequiredSigners: []string{"alice@example.com", "sub-bob"},
		SelfSign:        true,
	}, e.wallet)
	require.NoError(t, err)

	assert.Equal(t, model.DocStatusPartial, doc.Status)
	assert.Equal(t, 1, doc.SignedCount())
	assert.Len(t, doc.RequiredSigners, 2)

	_, err = e.app.SignDocument(ctx, doc.ID, e.bob, e.wallet)
	require.NoError(t, err)

	doc, err = e.app.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DocStatusComplete, doc.Status)
	assert.Equal(t, 2, doc.SignedCount())

	report, err := e.app.VerifyDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, report.Valid)

	// the verified caches were refreshed on the stored copy
	doc, err = e.app.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	for _, sig := range doc.Signatures {
		assert.True(t, sig.Verified)
		assert.False(t, sig.VerifiedAt.IsZero())
	}
}

func TestCreateStampsContentHash(t *testing.T) {
	e := newEnv(t)

	doc, err := e.app.CreateDocument(context.Background(), e.alice, app.CreateDocumentParams{
		Content:         model.NewStructuredContent(json.RawMessage(`{"b":1,"a":2}`)),
		RequiredSigners: []string{"alice@example.com"},
	}, nil)
	require.NoError(t, err)

	permuted, err := e.app.CreateDocument(context.Background(), e.alice, app.CreateDocumentParams{
		Content:         model.NewStructuredContent(json.RawMessage(`{"a":2,"b":1}`)),
		RequiredSigners: []string{"alice@example.com"},
	}, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, doc.Content.Hash)
	assert.Equal(t, doc.Content.Hash, permuted.Content.Hash)
	assert.Equal(t, model.DocStatusPending, doc.Status)
}

func TestCreateRejectsUnauthenticated(t *testing.T) {
	e := newEnv(t)

	_, err := e.app.CreateDocument(context.Background(), model.Identity{SubjectID: "sub-x"},
		app.CreateDocumentParams{
			Content:         model.NewTextContent("x"),
			RequiredSigners: []string{"someone"},
		}, nil)

	assert.ErrorIs(t, err, model.ErrNotAuthenticated)
}

func TestCreateRejectsEmptySignerList(t *testing.T) {
	e := newEnv(t)

	_, err := e.app.CreateDocument(context.Background(), e.alice, app.CreateDocumentParams{
		Content: model.NewTextContent("x"),
	}, nil)

	assert.ErrorIs(t, err, model.ErrNoRequiredSigners)
}

func TestCreateRejectsMalformedStructuredContent(t *testing.T) {
	e := newEnv(t)

	_, err := e.app.CreateDocument(context.Background(), e.alice, app.CreateDocumentParams{
		Content:         model.NewStructuredContent(json.RawMessage(`{"a":`)),
		RequiredSigners: []string{"alice@example.com"},
	}, nil)

	assert.ErrorIs(t, err, model.ErrInvalidContent)

	// nothing was persisted
	docs, err := e.app.GetAllDocuments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSignUnknownDocument(t *testing.T) {
	e := newEnv(t)

	_, err := e.app.SignDocument(context.Background(), "no-such-doc", e.alice, e.wallet)
	assert.ErrorIs(t, err, model.ErrDocumentNotFound)
}

func TestSignerOutsideTheRequiredSet(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	doc, err := e.app.CreateDocument(ctx, e.alice, app.CreateDocumentParams{
		Content:         model.NewTextContent("hello"),
		RequiredSigners: []string{"alice@example.com"},
	}, nil)
	require.NoError(t, err)

	_, err = e.app.SignDocument(ctx, doc.ID, e.bob, e.wallet)
	assert.ErrorIs(t, err, model.ErrNotARequiredSigner)
}

func TestDoubleSign(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	doc, err := e.app.CreateDocument(ctx, e.alice, app.CreateDocumentParams{
		Content:         model.NewTextContent("hello"),
		RequiredSigners: []string{"alice@example.com", "sub-bob"},
		SelfSign:        true,
	}, e.wallet)
	require.NoError(t, err)

	_, err = e.app.SignDocument(ctx, doc.ID, e.alice, e.wallet)
	assert.ErrorIs(t, err, model.ErrAlreadySigned)
}

func TestTamperedStoreDetectedOnVerify(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	doc, err := e.app.CreateDocument(ctx, e.alice, app.CreateDocumentParams{
		Content:         model.NewTextContent("hello"),
		RequiredSigners: []string{"alice@example.com", "sub-bob"},
		SelfSign:        true,
	}, e.wallet)
	require.NoError(t, err)
	_, err = e.app.SignDocument(ctx, doc.ID, e.bob, e.wallet)
	require.NoError(t, err)

	// flip one character behind the application's back
	stored, err := e.store.Get(ctx, doc.ID)
	require.NoError(t, err)
	stored.Content.Text = "hellp"
	require.NoError(t, e.store.Put(ctx, stored))

	report, err := e.app.VerifyDocument(ctx, doc.ID)
	require.NoError(t, err)

	assert.False(t, report.Valid)
	assert.False(t, report.ContentHashValid)
	require.Len(t, report.Signatures, 2)
	for _, sig := range report.Signatures {
		assert.False(t, sig.HashMatch)
	}
}

func TestCancelDocument(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	doc, err := e.app.CreateDocument(ctx, e.alice, app.CreateDocumentParams{
		Content:         model.NewTextContent("hello"),
		RequiredSigners: []string{"alice@example.com"},
	}, nil)
	require.NoError(t, err)

	require.NoError(t, e.app.CancelDocument(ctx, doc.ID, e.alice))

	cancelled, err := e.app.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DocStatusCancelled, cancelled.Status)
	assert.Equal(t, "sub-alice", cancelled.CancelledBy)
	assert.False(t, cancelled.CancelledAt.IsZero())

	// cancelled is terminal
	_, err = e.app.SignDocument(ctx, doc.ID, e.alice, e.wallet)
	assert.ErrorIs(t, err, model.ErrDocumentCancelled)
	assert.ErrorIs(t, e.app.CancelDocument(ctx, doc.ID, e.alice), model.ErrDocumentCancelled)
}

func TestExportBundleVerifiesOffline(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	doc, err := e.app.CreateDocument(ctx, e.alice, app.CreateDocumentParams{
		Content:         model.NewTextContent("hello"),
		RequiredSigners: []string{"alice@example.com"},
		SelfSign:        true,
	}, e.wallet)
	require.NoError(t, err)

	blob, err := e.app.ExportBundle(ctx, doc.ID)
	require.NoError(t, err)

	imported, err := bundle.Import(blob)
	require.NoError(t, err)

	report := verify.Document(imported)
	assert.True(t, report.Valid)
}
