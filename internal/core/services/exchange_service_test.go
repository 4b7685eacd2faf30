package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecothreads/internal/adapters/persistence/models"
	"ecothreads/internal/adapters/persistence/repositories"
	"ecothreads/internal/core/domain"
)

func TestBonusPoints(t *testing.T) {
	cases := []struct {
		value int
		want  int
	}{
		{0, 0},
		{-10, 0},
		{1, 1},
		{5, 1},
		{9, 1},
		{10, 1},
		{15, 1},
		{20, 2},
		{100, 10},
		{105, 10},
		{999, 99},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, BonusPoints(tc.value), "value %d", tc.value)
	}
}

func TestExchangeCreateValidation(t *testing.T) {
	db := newTestDB(t)
	_, _, exchanges, _ := newTestServices(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner", 0)
	requester := createTestUser(t, db, "requester", 10)
	stranger := createTestUser(t, db, "stranger", 0)

	wanted := createTestItem(t, db, owner.ID, "Wanted Coat", intp(40))
	offered := createTestItem(t, db, requester.ID, "Offered Shirt", intp(20))
	strangersItem := createTestItem(t, db, stranger.ID, "Not Yours", intp(10))

	t.Run("own item", func(t *testing.T) {
		_, err := exchanges.Create(ctx, owner.ID, &CreateExchangeInput{
			RequestedItemID: wanted.ID,
			OfferedPoints:   5,
		})
		assert.ErrorIs(t, err, ErrOwnItem)
	})

	t.Run("no offer", func(t *testing.T) {
		_, err := exchanges.Create(ctx, requester.ID, &CreateExchangeInput{
			RequestedItemID: wanted.ID,
		})
		assert.ErrorIs(t, err, ErrNoOffer)
	})

	t.Run("negative points", func(t *testing.T) {
		_, err := exchanges.Create(ctx, requester.ID, &CreateExchangeInput{
			RequestedItemID: wanted.ID,
			OfferedPoints:   -1,
		})
		assert.ErrorIs(t, err, ErrInvalidPoints)
	})

	t.Run("missing requested item", func(t *testing.T) {
		_, err := exchanges.Create(ctx, requester.ID, &CreateExchangeInput{
			RequestedItemID: 9999,
			OfferedPoints:   5,
		})
		assert.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("offered item owned by someone else", func(t *testing.T) {
		_, err := exchanges.Create(ctx, requester.ID, &CreateExchangeInput{
			RequestedItemID: wanted.ID,
			OfferedItemID:   &strangersItem.ID,
		})
		assert.ErrorIs(t, err, ErrNotItemOwner)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		_, err := exchanges.Create(ctx, requester.ID, &CreateExchangeInput{
			RequestedItemID: wanted.ID,
			OfferedPoints:   11,
		})
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})

	t.Run("duplicate pending request", func(t *testing.T) {
		_, err := exchanges.Create(ctx, requester.ID, &CreateExchangeInput{
			RequestedItemID: wanted.ID,
			OfferedItemID:   &offered.ID,
			OfferedPoints:   5,
		})
		require.NoError(t, err)

		_, err = exchanges.Create(ctx, requester.ID, &CreateExchangeInput{
			RequestedItemID: wanted.ID,
			OfferedPoints:   5,
		})
		assert.ErrorIs(t, err, ErrDuplicateRequest)
	})
}

func TestExchangeAcceptSettlesItemsPointsAndBonus(t *testing.T) {
	db := newTestDB(t)
	_, _, exchanges, _ := newTestServices(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner", 20)
	requester := createTestUser(t, db, "requester", 30)

	wanted := createTestItem(t, db, owner.ID, "Wanted Coat", intp(60))
	offered := createTestItem(t, db, requester.ID, "Offered Shirt", intp(40))

	exchange, err := exchanges.Create(ctx, requester.ID, &CreateExchangeInput{
		RequestedItemID: wanted.ID,
		OfferedItemID:   &offered.ID,
		OfferedPoints:   5,
	})
	require.NoError(t, err)
	require.Equal(t, domain.ExchangePending, exchange.Status)

	settled, err := exchanges.Accept(ctx, owner.ID, exchange.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.ExchangeAccepted, settled.Exchange.Status)
	require.NotNil(t, settled.Exchange.ApprovalDate)
	assert.Equal(t, 105, settled.TotalValue)
	assert.Equal(t, 10, settled.BonusPoints)

	// Both items leave the catalog
	assert.Equal(t, domain.ItemExchanged, itemStatus(t, db, wanted.ID))
	assert.Equal(t, domain.ItemExchanged, itemStatus(t, db, offered.ID))

	// Points moved, and both sides got 10% of 60+40+5=105 rounded down
	assert.Equal(t, 30-5+10, reloadBalance(t, db, requester.ID))
	assert.Equal(t, 20+5+10, reloadBalance(t, db, owner.ID))

	// Ledger carries the transfer pair and the two bonus rows
	var txs []models.PointTransaction
	require.NoError(t, db.Where("exchange_id = ?", exchange.ID).Order("id").Find(&txs).Error)
	require.Len(t, txs, 4)

	assert.Equal(t, domain.TxSpend, txs[0].TransactionType)
	assert.Equal(t, requester.ID, txs[0].UserID)
	assert.Equal(t, 5, txs[0].Points)
	assert.Equal(t, domain.ReasonExchange, txs[0].Reason)

	assert.Equal(t, domain.TxEarn, txs[1].TransactionType)
	assert.Equal(t, owner.ID, txs[1].UserID)
	assert.Equal(t, 5, txs[1].Points)
	assert.Equal(t, domain.ReasonExchange, txs[1].Reason)

	for _, tx := range txs[2:] {
		assert.Equal(t, domain.TxEarn, tx.TransactionType)
		assert.Equal(t, 10, tx.Points)
		assert.Equal(t, domain.ReasonExchangeBonus, tx.Reason)
	}

	// Ledger reconciles with the stored balances
	assert.Equal(t, reloadBalance(t, db, requester.ID)-30, ledgerSum(t, db, requester.ID))
	assert.Equal(t, reloadBalance(t, db, owner.ID)-20, ledgerSum(t, db, owner.ID))
}

func TestExchangeAcceptZeroValueNoBonus(t *testing.T) {
	db := newTestDB(t)
	_, _, exchanges, _ := newTestServices(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner", 0)
	requester := createTestUser(t, db, "requester", 10)

	wanted := createTestItem(t, db, owner.ID, "Free Item", nil)
	offered := createTestItem(t, db, requester.ID, "Also Free", nil)

	exchange, err := exchanges.Create(ctx, requester.ID, &CreateExchangeInput{
		RequestedItemID: wanted.ID,
		OfferedItemID:   &offered.ID,
	})
	require.NoError(t, err)

	result, err := exchanges.Accept(ctx, owner.ID, exchange.ID)
	require.NoError(t, err)
	assert.Zero(t, result.TotalValue)
	assert.Zero(t, result.BonusPoints)

	var count int64
	require.NoError(t, db.Model(&models.PointTransaction{}).
		Where("exchange_id = ?", exchange.ID).
		Count(&count).Error)
	assert.Zero(t, count)

	assert.Equal(t, 10, reloadBalance(t, db, requester.ID))
	assert.Equal(t, 0, reloadBalance(t, db, owner.ID))
}

func TestExchangeAcceptMinimumBonus(t *testing.T) {
	db := newTestDB(t)
	_, _, exchanges, _ := newTestServices(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner", 0)
	requester := createTestUser(t, db, "requester", 10)

	// 10% of 5+2=7 floors to 0 but a valued exchange always pays at least 1
	wanted := createTestItem(t, db, owner.ID, "Cheap Scarf", intp(5))

	exchange, err := exchanges.Create(ctx, requester.ID, &CreateExchangeInput{
		RequestedItemID: wanted.ID,
		OfferedPoints:   2,
	})
	require.NoError(t, err)

	result, err := exchanges.Accept(ctx, owner.ID, exchange.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, result.TotalValue)
	assert.Equal(t, 1, result.BonusPoints)

	assert.Equal(t, 10-2+1, reloadBalance(t, db, requester.ID))
	assert.Equal(t, 0+2+1, reloadBalance(t, db, owner.ID))
}

func TestExchangeSettleIsTerminal(t *testing.T) {
	db := newTestDB(t)
	_, _, exchanges, _ := newTestServices(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner", 0)
	requester := createTestUser(t, db, "requester", 10)
	wanted := createTestItem(t, db, owner.ID, "Wanted Coat", intp(40))

	exchange, err := exchanges.Create(ctx, requester.ID, &CreateExchangeInput{
		RequestedItemID: wanted.ID,
		OfferedPoints:   5,
	})
	require.NoError(t, err)

	_, err = exchanges.Accept(ctx, owner.ID, exchange.ID)
	require.NoError(t, err)

	ownerBalance := reloadBalance(t, db, owner.ID)
	requesterBalance := reloadBalance(t, db, requester.ID)

	// A settled request cannot be settled again, in either direction
	_, err = exchanges.Accept(ctx, owner.ID, exchange.ID)
	assert.ErrorIs(t, err, ErrExchangeNotPending)

	_, err = exchanges.Reject(ctx, owner.ID, exchange.ID)
	assert.ErrorIs(t, err, ErrExchangeNotPending)

	// And the failed retries had no side effects
	assert.Equal(t, ownerBalance, reloadBalance(t, db, owner.ID))
	assert.Equal(t, requesterBalance, reloadBalance(t, db, requester.ID))
}

func TestExchangeRejectHasNoSideEffects(t *testing.T) {
	db := newTestDB(t)
	_, _, exchanges, _ := newTestServices(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner", 7)
	requester := createTestUser(t, db, "requester", 10)
	wanted := createTestItem(t, db, owner.ID, "Wanted Coat", intp(40))

	exchange, err := exchanges.Create(ctx, requester.ID, &CreateExchangeInput{
		RequestedItemID: wanted.ID,
		OfferedPoints:   5,
	})
	require.NoError(t, err)

	rejected, err := exchanges.Reject(ctx, owner.ID, exchange.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.ExchangeRejected, rejected.Status)
	require.NotNil(t, rejected.ApprovalDate)

	assert.Equal(t, domain.ItemAvailable, itemStatus(t, db, wanted.ID))
	assert.Equal(t, 7, reloadBalance(t, db, owner.ID))
	assert.Equal(t, 10, reloadBalance(t, db, requester.ID))

	var count int64
	require.NoError(t, db.Model(&models.PointTransaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestExchangeAcceptRequiresOwner(t *testing.T) {
	db := newTestDB(t)
	_, _, exchanges, _ := newTestServices(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner", 0)
	requester := createTestUser(t, db, "requester", 10)
	stranger := createTestUser(t, db, "stranger", 0)
	wanted := createTestItem(t, db, owner.ID, "Wanted Coat", intp(40))

	exchange, err := exchanges.Create(ctx, requester.ID, &CreateExchangeInput{
		RequestedItemID: wanted.ID,
		OfferedPoints:   5,
	})
	require.NoError(t, err)

	_, err = exchanges.Accept(ctx, stranger.ID, exchange.ID)
	assert.ErrorIs(t, err, ErrNotRequestOwner)

	_, err = exchanges.Accept(ctx, requester.ID, exchange.ID)
	assert.ErrorIs(t, err, ErrNotRequestOwner)

	assert.Equal(t, domain.ExchangePending, func() domain.ExchangeStatus {
		got, err := exchanges.Get(ctx, owner.ID, exchange.ID)
		require.NoError(t, err)
		return got.Status
	}())
}

func TestExchangeAcceptRechecksBalance(t *testing.T) {
	db := newTestDB(t)
	_, points, exchanges, _ := newTestServices(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner", 0)
	requester := createTestUser(t, db, "requester", 10)
	wanted := createTestItem(t, db, owner.ID, "Wanted Coat", intp(40))

	exchange, err := exchanges.Create(ctx, requester.ID, &CreateExchangeInput{
		RequestedItemID: wanted.ID,
		OfferedPoints:   8,
	})
	require.NoError(t, err)

	// Requester spends points elsewhere before the owner accepts
	require.NoError(t, points.Debit(ctx, Entry{
		UserID: requester.ID,
		Points: 5,
		Reason: domain.ReasonExchange,
	}))

	_, err = exchanges.Accept(ctx, owner.ID, exchange.ID)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// The failed settlement rolled back completely
	assert.Equal(t, domain.ItemAvailable, itemStatus(t, db, wanted.ID))
	assert.Equal(t, 0, reloadBalance(t, db, owner.ID))
	assert.Equal(t, 5, reloadBalance(t, db, requester.ID))

	got, err := exchanges.Get(ctx, owner.ID, exchange.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ExchangePending, got.Status)
}

func TestExchangeAcceptRequiresAvailableItem(t *testing.T) {
	db := newTestDB(t)
	_, _, exchanges, donations := newTestServices(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner", 0)
	requester := createTestUser(t, db, "requester", 10)
	wanted := createTestItem(t, db, owner.ID, "Wanted Coat", intp(40))

	exchange, err := exchanges.Create(ctx, requester.ID, &CreateExchangeInput{
		RequestedItemID: wanted.ID,
		OfferedPoints:   5,
	})
	require.NoError(t, err)

	// The owner donates the item while the request is still open
	_, err = donations.Create(ctx, owner.ID, &CreateDonationInput{ItemID: wanted.ID})
	require.NoError(t, err)

	_, err = exchanges.Accept(ctx, owner.ID, exchange.ID)
	assert.ErrorIs(t, err, ErrItemNotAvailable)

	got, err := exchanges.Get(ctx, owner.ID, exchange.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ExchangePending, got.Status)
}

func TestExchangeListFilters(t *testing.T) {
	db := newTestDB(t)
	_, _, exchanges, _ := newTestServices(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner", 0)
	requester := createTestUser(t, db, "requester", 10)
	wanted := createTestItem(t, db, owner.ID, "Wanted Coat", intp(40))

	_, err := exchanges.Create(ctx, requester.ID, &CreateExchangeInput{
		RequestedItemID: wanted.ID,
		OfferedPoints:   5,
	})
	require.NoError(t, err)

	sent, err := exchanges.List(ctx, requester.ID, repositories.FilterSent)
	require.NoError(t, err)
	assert.Len(t, sent, 1)

	received, err := exchanges.List(ctx, requester.ID, repositories.FilterReceived)
	require.NoError(t, err)
	assert.Empty(t, received)

	all, err := exchanges.List(ctx, owner.ID, repositories.FilterAll)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Wanted Coat", all[0].RequestedItem.Title)

	// A third party cannot read the exchange
	stranger := createTestUser(t, db, "stranger", 0)
	_, err = exchanges.Get(ctx, stranger.ID, all[0].ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
