package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecothreads/internal/core/domain"
)

func TestItemCreateAndValidation(t *testing.T) {
	db := newTestDB(t)
	items, _, _, _ := newTestServices(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner", 0)

	item, err := items.Create(ctx, owner.ID, &CreateItemInput{
		Title:         "  Linen Shirt ",
		Category:      "Shirts",
		ItemCondition: "Good",
		Cost:          intp(25),
	})
	require.NoError(t, err)
	assert.Equal(t, "Linen Shirt", item.Title)
	assert.Equal(t, domain.ItemAvailable, item.ItemStatus)

	_, err = items.Create(ctx, owner.ID, &CreateItemInput{Category: "Shirts", ItemCondition: "Good"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = items.Create(ctx, owner.ID, &CreateItemInput{
		Title:         "Bad Cost",
		Category:      "Shirts",
		ItemCondition: "Good",
		Cost:          intp(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemBrowseExcludesOwnAndUnavailable(t *testing.T) {
	db := newTestDB(t)
	items, _, _, _ := newTestServices(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice", 0)
	bob := createTestUser(t, db, "bob", 0)

	mine := createTestItem(t, db, alice.ID, "Mine", nil)
	theirs := createTestItem(t, db, bob.ID, "Theirs", nil)
	gone := createTestItem(t, db, bob.ID, "Gone", nil)
	require.NoError(t, db.Model(gone).Update("item_status", domain.ItemDonated).Error)

	found, err := items.Browse(ctx, alice.ID, nil)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, theirs.ID, found[0].ID)
	assert.NotEqual(t, mine.ID, found[0].ID)
}

func TestItemPartialUpdate(t *testing.T) {
	db := newTestDB(t)
	items, _, _, _ := newTestServices(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner", 0)
	other := createTestUser(t, db, "other", 0)
	item := createTestItem(t, db, owner.ID, "Plain Tee", intp(10))

	title := "Graphic Tee"
	updated, err := items.Update(ctx, owner.ID, item.ID, &UpdateItemInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Graphic Tee", updated.Title)
	// Untouched fields survive
	assert.Equal(t, 10, updated.CostValue())
	assert.Equal(t, "Shirts", updated.Category)

	_, err = items.Update(ctx, other.ID, item.ID, &UpdateItemInput{Title: &title})
	assert.ErrorIs(t, err, ErrNotItemOwner)

	empty := "   "
	_, err = items.Update(ctx, owner.ID, item.ID, &UpdateItemInput{Title: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Items that left the catalog are frozen
	require.NoError(t, db.Model(item).Update("item_status", domain.ItemExchanged).Error)
	_, err = items.Update(ctx, owner.ID, item.ID, &UpdateItemInput{Title: &title})
	assert.ErrorIs(t, err, ErrItemNotAvailable)
}

func TestItemDelete(t *testing.T) {
	db := newTestDB(t)
	items, _, _, _ := newTestServices(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner", 0)
	other := createTestUser(t, db, "other", 0)
	item := createTestItem(t, db, owner.ID, "Scarf", nil)

	assert.ErrorIs(t, items.Delete(ctx, other.ID, item.ID), ErrNotItemOwner)
	require.NoError(t, items.Delete(ctx, owner.ID, item.ID))

	_, err := items.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
}
