package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thought2/blog/internal/manifest"
)

func newManifest(t *testing.T) *manifest.SiteManifest {
	t.Helper()
	m := manifest.New("/src", "/blog", "cfg")
	m.AddPage(manifest.PageEntry{Source: "a.md", Output: "2020/01/a/index.html", Title: "A"}, []byte("<html>"))
	m.Status = manifest.StatusSuccess
	m.DurationMS = 42
	return m
}

func TestStore_AppendAndList(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	first := newManifest(t)
	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, newManifest(t)))

	records, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, manifest.StatusSuccess, records[0].Status)
	require.Equal(t, 1, records[0].PageCount)
	require.Equal(t, int64(42), records[0].DurationMS)

	// Identical inputs, identical site hashes.
	require.Equal(t, records[0].SiteHash, records[1].SiteHash)
}

func TestStore_Get_ReturnsFullManifest(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	m := newManifest(t)
	require.NoError(t, store.Append(ctx, m))

	back, err := store.Get(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, m.ID, back.ID)
	require.Len(t, back.Pages, 1)
	require.Equal(t, "A", back.Pages[0].Title)
}

func TestStore_Get_UnknownID_ReturnsNotFound(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_List_RespectsLimit(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, newManifest(t)))
	}

	records, err := store.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
}
