package service

import (
	"context"
	"errors"
	"testing"

	"purchases/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_AppendIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	actor := createTestUser(t, db, "alice")
	catID, err := NewCatalogStore(db).ResolveCategory(ctx, "grocery")
	require.NoError(t, err)
	itemID, _, err := NewCatalogStore(db).ResolveItem(ctx, "milk", catID)
	require.NoError(t, err)

	ledger := NewLedger(db)
	id1, err := ledger.Append(ctx, actor.UserID, itemID, 1704067200, decimal.RequireFromString("3.50"))
	require.NoError(t, err)
	id2, err := ledger.Append(ctx, actor.UserID, itemID, 1704067200, decimal.RequireFromString("3.5"))
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	assert.Equal(t, int64(1), countRows(t, db, &models.History{}))

	// 价格不同则是新记录
	id3, err := ledger.Append(ctx, actor.UserID, itemID, 1704067200, decimal.RequireFromString("3.75"))
	require.NoError(t, err)
	assert.NotEqual(t, id1, id3)

	dup, ok, err := ledger.FindDuplicate(ctx, actor.UserID, itemID, 1704067200, decimal.RequireFromString("3.75"), id3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, dup)
}

func TestLedger_GetUpdateRemove(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	actor := createTestUser(t, db, "alice")
	catID, _ := NewCatalogStore(db).ResolveCategory(ctx, "grocery")
	itemID, _, _ := NewCatalogStore(db).ResolveItem(ctx, "milk", catID)

	ledger := NewLedger(db)
	id, err := ledger.Append(ctx, actor.UserID, itemID, models.NoDate, decimal.NewFromInt(2))
	require.NoError(t, err)

	require.NoError(t, ledger.Update(ctx, id, itemID, 1704067200, decimal.NewFromInt(4)))
	entry, err := ledger.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1704067200), entry.Date)
	assert.True(t, entry.Price.Equal(decimal.NewFromInt(4)))

	require.NoError(t, ledger.Remove(ctx, id))
	_, err = ledger.Get(ctx, id)
	assert.True(t, errors.Is(err, ErrHistoryNotFound))

	// 删除不存在的记录不报错
	assert.NoError(t, ledger.Remove(ctx, id))
}

func TestLedger_ListOrdering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	catID, _ := NewCatalogStore(db).ResolveCategory(ctx, "grocery")
	milk, _, _ := NewCatalogStore(db).ResolveItem(ctx, "milk", catID)
	eggs, _, _ := NewCatalogStore(db).ResolveItem(ctx, "eggs", catID)

	ledger := NewLedger(db)
	_, err := ledger.Append(ctx, alice.UserID, milk, 100*secondsPerDay, decimal.NewFromInt(1))
	require.NoError(t, err)
	_, err = ledger.Append(ctx, alice.UserID, eggs, 300*secondsPerDay, decimal.NewFromInt(2))
	require.NoError(t, err)
	_, err = ledger.Append(ctx, alice.UserID, milk, 200*secondsPerDay, decimal.NewFromInt(1))
	require.NoError(t, err)
	_, err = ledger.Append(ctx, bob.UserID, milk, 400*secondsPerDay, decimal.NewFromInt(1))
	require.NoError(t, err)

	all, err := ledger.ListForUser(ctx, alice.UserID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "eggs", all[0].ItemName)
	assert.Equal(t, int64(200*secondsPerDay), all[1].Date)
	assert.Equal(t, "alice", all[0].Username)
	assert.Equal(t, "grocery", all[0].CategoryName)

	milkOnly, err := ledger.ListForUserAndItem(ctx, alice.UserID, milk)
	require.NoError(t, err)
	require.Len(t, milkOnly, 2)
	assert.Equal(t, int64(200*secondsPerDay), milkOnly[0].Date)

	require.NoError(t, ledger.RemoveAllForUser(ctx, alice.UserID))
	assert.Equal(t, int64(1), countRows(t, db, &models.History{}))
}
