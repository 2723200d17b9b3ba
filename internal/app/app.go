package app

import (
	"sync"

	"doc-attest/internal/canonical"
	"doc-attest/internal/config"
	"doc-attest/internal/repository"
	"doc-attest/internal/signing"

	"go.uber.org/zap"
)

// App wires the pure core components to the document store. It owns no
// identity or wallet clients; both are passed in by the caller per request.
type App struct {
	logger      *zap.Logger
	store       repository.DocumentStore
	coordinator *signing.Coordinator
	canon       canonical.Canonicalizer

	// one writer per document: load-modify-save cycles are serialized here
	docLocks sync.Map
}

func NewApp(logger *zap.Logger, store repository.DocumentStore) *App {
	return &App{
		logger:      logger,
		store:       store,
		coordinator: signing.NewCoordinator(logger),
		canon:       canonical.NewWithMaxDepth(config.GetMaxStructuredDepth()),
	}
}

func (a *App) lockDocument(docID string) func() {
	lock, _ := a.docLocks.LoadOrStore(docID, &sync.Mutex{})
	mutex := lock.(*sync.Mutex)
	mutex.Lock()
	return mutex.Unlock
}

func (a *App) withDocumentLock(docID string, fn func() error) error {
	unlock := a.lockDocument(docID)
	defer unlock()
	return fn()
}
