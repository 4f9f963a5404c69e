package identity

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAuthenticated(t *testing.T) {
	r := NewResolver(NewFileStore(filepath.Join(t.TempDir(), "identity.json")), slog.Default())

	p := r.Resolve(&Auth{UserId: "auth-id", Username: "alice"})
	assert.Equal(t, "auth-id", p.Id)
	assert.Equal(t, "alice", p.DisplayName)
	assert.False(t, p.IsAdmin, "role is unresolved until room metadata is known")

	// username falls back to the id
	p = r.Resolve(&Auth{UserId: "auth-id"})
	assert.Equal(t, "auth-id", p.DisplayName)
}

func TestResolveAnonymousIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")

	first := NewResolver(NewFileStore(path), slog.Default()).Resolve(nil)
	require.NotEmpty(t, first.Id)
	assert.Equal(t, anonymousIdLength, len(first.Id))
	assert.Equal(t, first.Id, first.DisplayName, "display name defaults to the id")

	// a fresh resolver over the same store yields the same identity
	second := NewResolver(NewFileStore(path), slog.Default()).Resolve(nil)
	assert.Equal(t, first.Id, second.Id)
}

func TestResolveSurvivesCorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	p := NewResolver(NewFileStore(path), slog.Default()).Resolve(nil)
	assert.NotEmpty(t, p.Id, "a corrupt store degrades to a fresh identity")
}

func TestResolveSurvivesNullStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o600))

	store := NewFileStore(path)
	require.NoError(t, store.Set("display_name", "alice"))

	p := NewResolver(store, slog.Default()).Resolve(nil)
	assert.NotEmpty(t, p.Id)
	assert.Equal(t, "alice", p.DisplayName)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "identity.json")
	store := NewFileStore(path)

	_, ok := store.Get("display_name")
	assert.False(t, ok)

	require.NoError(t, store.Set("display_name", "alice"))

	value, ok := NewFileStore(path).Get("display_name")
	require.True(t, ok)
	assert.Equal(t, "alice", value)
}
