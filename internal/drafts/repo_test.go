package drafts

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/khajaghar/pos-terminal/pkg/db/models"
)

func setupDraftTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CartDraft{}))
	return db
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := NewRepository(setupDraftTestDB(t))
	ctx := context.Background()
	key := SessionKey{TableNumber: "5", GroupName: "GroupA"}

	draft := &models.CartDraft{
		TableNumber: key.TableNumber,
		GroupName:   key.GroupName,
		Lines: models.CartLines{
			{ProductID: "momo", UnitPrice: decimal.RequireFromString("250"), Quantity: 2},
			{ProductID: "tea", UnitPrice: decimal.RequireFromString("60"), Quantity: 1},
		},
		SavedAt: time.Now(),
	}
	require.NoError(t, repo.Upsert(ctx, draft))

	loaded, err := repo.Get(ctx, key)
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 2)
	assert.Equal(t, "momo", loaded.Lines[0].ProductID)
	assert.Equal(t, "tea", loaded.Lines[1].ProductID)
	assert.Equal(t, 2, loaded.Lines[0].Quantity)
	assert.True(t, loaded.Lines[0].UnitPrice.Equal(decimal.RequireFromString("250")))
}

func TestRepositoryUpsertReplacesWholesale(t *testing.T) {
	repo := NewRepository(setupDraftTestDB(t))
	ctx := context.Background()
	key := SessionKey{TableNumber: "5", GroupName: ""}

	first := &models.CartDraft{
		TableNumber: key.TableNumber,
		Lines:       models.CartLines{{ProductID: "momo", UnitPrice: decimal.RequireFromString("250"), Quantity: 1}},
		SavedAt:     time.Now().Add(-time.Minute),
	}
	require.NoError(t, repo.Upsert(ctx, first))

	second := &models.CartDraft{
		TableNumber: key.TableNumber,
		Lines:       models.CartLines{{ProductID: "thukpa", UnitPrice: decimal.RequireFromString("180"), Quantity: 3}},
		SavedAt:     time.Now(),
	}
	require.NoError(t, repo.Upsert(ctx, second))

	loaded, err := repo.Get(ctx, key)
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 1)
	assert.Equal(t, "thukpa", loaded.Lines[0].ProductID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "upsert must not duplicate the row")
}

func TestRepositoryKeysAreIndependent(t *testing.T) {
	repo := NewRepository(setupDraftTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.CartDraft{
		TableNumber: "5",
		Lines:       models.CartLines{{ProductID: "momo", UnitPrice: decimal.RequireFromString("250"), Quantity: 1}},
		SavedAt:     time.Now(),
	}))
	require.NoError(t, repo.Upsert(ctx, &models.CartDraft{
		TableNumber: "5",
		GroupName:   "GroupA",
		Lines:       models.CartLines{{ProductID: "tea", UnitPrice: decimal.RequireFromString("60"), Quantity: 2}},
		SavedAt:     time.Now(),
	}))

	bare, err := repo.Get(ctx, SessionKey{TableNumber: "5"})
	require.NoError(t, err)
	assert.Equal(t, "momo", bare.Lines[0].ProductID)

	grouped, err := repo.Get(ctx, SessionKey{TableNumber: "5", GroupName: "GroupA"})
	require.NoError(t, err)
	assert.Equal(t, "tea", grouped.Lines[0].ProductID)
}

func TestRepositoryDeleteAndDeleteAll(t *testing.T) {
	repo := NewRepository(setupDraftTestDB(t))
	ctx := context.Background()

	for _, table := range []string{"1", "2", "3"} {
		require.NoError(t, repo.Upsert(ctx, &models.CartDraft{
			TableNumber: table,
			Lines:       models.CartLines{{ProductID: "momo", UnitPrice: decimal.RequireFromString("250"), Quantity: 1}},
			SavedAt:     time.Now(),
		}))
	}

	require.NoError(t, repo.Delete(ctx, SessionKey{TableNumber: "2"}))
	_, err := repo.Get(ctx, SessionKey{TableNumber: "2"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// deleting an absent key is a no-op
	require.NoError(t, repo.Delete(ctx, SessionKey{TableNumber: "2"}))

	require.NoError(t, repo.DeleteAll(ctx))
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
