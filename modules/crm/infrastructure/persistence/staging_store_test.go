package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coldreach/cedb/modules/crm/domain/entities/stagedupload"
	"github.com/coldreach/cedb/modules/crm/infrastructure/persistence"
)

func TestFSStagingStore_RoundTrip(t *testing.T) {
	store := persistence.NewStagingStore(t.TempDir(), 0)
	ctx := context.Background()

	blob := []byte("Email,Company\na@x.com,Acme\n")
	storedAt := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Put(ctx, stagedupload.New("leads.csv", blob, storedAt)))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, stagedupload.SlotID, got.ID())
	require.Equal(t, "leads.csv", got.FileName())
	require.Equal(t, blob, got.Blob())
	require.True(t, got.StoredAt().Equal(storedAt))
}

func TestFSStagingStore_PutReplaces(t *testing.T) {
	store := persistence.NewStagingStore(t.TempDir(), 0)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, stagedupload.New("first.csv", []byte("one"), time.Now())))
	require.NoError(t, store.Put(ctx, stagedupload.New("second.csv", []byte("two"), time.Now())))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "second.csv", got.FileName())
	require.Equal(t, []byte("two"), got.Blob())
}

func TestFSStagingStore_GetEmpty(t *testing.T) {
	store := persistence.NewStagingStore(t.TempDir(), 0)

	_, err := store.Get(context.Background())
	require.ErrorIs(t, err, stagedupload.ErrNotFound)
}

func TestFSStagingStore_Delete(t *testing.T) {
	store := persistence.NewStagingStore(t.TempDir(), 0)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, stagedupload.New("leads.csv", []byte("x"), time.Now())))
	require.NoError(t, store.Delete(ctx))

	_, err := store.Get(ctx)
	require.ErrorIs(t, err, stagedupload.ErrNotFound)

	// Deleting an empty slot is not an error.
	require.NoError(t, store.Delete(ctx))
}

func TestFSStagingStore_QuotaExceeded(t *testing.T) {
	store := persistence.NewStagingStore(t.TempDir(), 4)

	err := store.Put(context.Background(), stagedupload.New("big.csv", []byte("toolarge"), time.Now()))
	require.ErrorIs(t, err, stagedupload.ErrQuotaExceeded)
}
