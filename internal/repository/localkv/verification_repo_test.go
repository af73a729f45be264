package localkv

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomrequests/internal/domain"
)

func TestVerificationRepository_LoadAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewVerificationRepository(filepath.Join(t.TempDir(), "verification.json"))

	rec, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestVerificationRepository_LoadCorrupt(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "verification.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	repo := NewVerificationRepository(path)
	rec, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestVerificationRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "verification.json")
	repo := NewVerificationRepository(path)

	verifiedAt := time.Date(2025, 3, 15, 12, 30, 45, 0, time.UTC)
	rec := &domain.VerificationRecord{
		Email:      "a@b.com",
		VerifiedAt: &verifiedAt,
		PendingItems: []domain.PendingItem{
			{Type: domain.PendingBooking, ID: "bk-1"},
			{Type: domain.PendingComment, ID: "cm-1"},
		},
	}
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a@b.com", got.Email)
	require.NotNil(t, got.VerifiedAt)
	assert.True(t, verifiedAt.Equal(*got.VerifiedAt))
	assert.Equal(t, rec.PendingItems, got.PendingItems)
}

func TestVerificationRepository_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "verification.json")
	repo := NewVerificationRepository(path)

	require.NoError(t, repo.Save(ctx, &domain.VerificationRecord{Email: "first@example.com"}))
	require.NoError(t, repo.Save(ctx, &domain.VerificationRecord{
		Email:        "second@example.com",
		PendingItems: []domain.PendingItem{{Type: domain.PendingBooking, ID: "bk-1"}},
	}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "second@example.com", got.Email)
	assert.Nil(t, got.VerifiedAt)
	assert.Len(t, got.PendingItems, 1)
}
