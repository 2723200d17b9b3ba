package model_test

import (
	"doc-attest/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesIdentityBySubjectID(t *testing.T) {
	identity := model.Identity{
		SubjectID:     "b51f8e7a-8b2b-4c69-9b23-000000000001",
		DisplayName:   "Alice",
		Email:         "alice@example.com",
		WalletAddress: "0x1111111111111111111111111111111111111111",
	}

	assert.True(t, model.MatchesIdentity("b51f8e7a-8b2b-4c69-9b23-000000000001", identity))
	assert.False(t, model.MatchesIdentity("b51f8e7a-8b2b-4c69-9b23-000000000002", identity))
}

func TestMatchesIdentityByEmailCaseInsensitive(t *testing.T) {
	identity := model.Identity{SubjectID: "sub-1", Email: "Alice@Example.com"}

	assert.True(t, model.MatchesIdentity("alice@example.com", identity))
	assert.True(t, model.MatchesIdentity("ALICE@EXAMPLE.COM", identity))
	assert.False(t, model.MatchesIdentity("bob@example.com", identity))
}

func TestMatchesIdentityByDisplayName(t *testing.T) {
	identity := model.Identity{SubjectID: "sub-1", DisplayName: "Alice"}

	assert.True(t, model.MatchesIdentity("Alice", identity))
	// display names are matched verbatim, not case-folded
	assert.False(t, model.MatchesIdentity("alice", identity))
}

func TestMatchesIdentityEmptyIdentifier(t *testing.T) {
	identity := model.Identity{SubjectID: "sub-1", DisplayName: "Alice"}

	assert.False(t, model.MatchesIdentity("", identity))
}

func TestIsAuthenticated(t *testing.T) {
	assert.False(t, model.Identity{SubjectID: "sub-1"}.IsAuthenticated())
	assert.False(t, model.Identity{WalletAddress: "0xabc"}.IsAuthenticated())
	assert.True(t, model.Identity{SubjectID: "sub-1", WalletAddress: "0xabc"}.IsAuthenticated())
}
