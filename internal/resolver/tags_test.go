package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagStore_FuncIdentity(t *testing.T) {
	store := NewTagStore()
	component := func() {}
	other := func() {}

	require.NoError(t, store.Tag(component, "react"))

	name, ok := store.Lookup(component)
	require.True(t, ok)
	assert.Equal(t, "react", name)

	_, ok = store.Lookup(other)
	assert.False(t, ok, "distinct functions have distinct identities")
}

func TestTagStore_PointerIdentity(t *testing.T) {
	store := NewTagStore()
	type component struct{ name string }
	c := &component{name: "Counter"}

	require.NoError(t, store.Tag(c, "svelte"))

	name, ok := store.Lookup(c)
	require.True(t, ok)
	assert.Equal(t, "svelte", name)
}

func TestTagStore_UntaggableValues(t *testing.T) {
	store := NewTagStore()

	assert.ErrorIs(t, store.Tag("a string", "react"), ErrUntaggable)
	assert.ErrorIs(t, store.Tag(42, "react"), ErrUntaggable)
	assert.ErrorIs(t, store.Tag(struct{}{}, "react"), ErrUntaggable)
	assert.ErrorIs(t, store.Tag(nil, "react"), ErrUntaggable)

	_, ok := store.Lookup("a string")
	assert.False(t, ok)
}

func TestTagStore_Retag(t *testing.T) {
	store := NewTagStore()
	component := func() {}

	require.NoError(t, store.Tag(component, "react"))
	require.NoError(t, store.Tag(component, "preact"))

	name, _ := store.Lookup(component)
	assert.Equal(t, "preact", name, "retagging overwrites")
}

func TestTagStore_Untag(t *testing.T) {
	store := NewTagStore()
	component := func() {}

	require.NoError(t, store.Tag(component, "react"))
	store.Untag(component)

	_, ok := store.Lookup(component)
	assert.False(t, ok)

	// Untagging something untaggable is a no-op.
	store.Untag("plain value")
}
