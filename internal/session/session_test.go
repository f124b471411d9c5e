package session

import (
	"testing"

	"circle-backend/internal/keyValue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	keyValue.Setup(zap.NewNop().Sugar(), nil, true)
	return NewStore()
}

func TestCreateAndLookup(t *testing.T) {
	store := newTestStore(t)

	token, err := store.Create(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, found, err := store.Lookup(token)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(42), userID)
}

func TestLookupUnknownToken(t *testing.T) {
	store := newTestStore(t)

	_, found, err := store.Lookup("no-such-token")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = store.Lookup("")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	store := newTestStore(t)

	token, err := store.Create(7)
	require.NoError(t, err)

	require.NoError(t, store.Invalidate(token))

	_, found, err := store.Lookup(token)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTokensAreUnique(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Create(1)
	require.NoError(t, err)
	second, err := store.Create(1)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
