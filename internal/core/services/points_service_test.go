package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecothreads/internal/core/domain"
	"ecothreads/internal/pkg/pagination"
)

func TestPointsCreditAndDebit(t *testing.T) {
	db := newTestDB(t)
	_, points, _, _ := newTestServices(db)
	ctx := context.Background()

	user := createTestUser(t, db, "user", 0)

	require.NoError(t, points.Credit(ctx, Entry{UserID: user.ID, Points: 20, Reason: domain.ReasonDonation}))
	require.NoError(t, points.Debit(ctx, Entry{UserID: user.ID, Points: 8, Reason: domain.ReasonExchange}))

	balance, err := points.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, balance)

	// Ledger matches the stored balance
	assert.Equal(t, 12, ledgerSum(t, db, user.ID))
}

func TestPointsDebitNeverGoesNegative(t *testing.T) {
	db := newTestDB(t)
	_, points, _, _ := newTestServices(db)
	ctx := context.Background()

	user := createTestUser(t, db, "user", 5)

	err := points.Debit(ctx, Entry{UserID: user.ID, Points: 6, Reason: domain.ReasonExchange})
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// The failed debit wrote nothing
	assert.Equal(t, 5, reloadBalance(t, db, user.ID))
	assert.Equal(t, 0, ledgerSum(t, db, user.ID))
}

func TestPointsRejectsNonPositiveAmounts(t *testing.T) {
	db := newTestDB(t)
	_, points, _, _ := newTestServices(db)
	ctx := context.Background()

	user := createTestUser(t, db, "user", 5)

	assert.ErrorIs(t, points.Credit(ctx, Entry{UserID: user.ID, Points: 0}), ErrInvalidPoints)
	assert.ErrorIs(t, points.Credit(ctx, Entry{UserID: user.ID, Points: -3}), ErrInvalidPoints)
	assert.ErrorIs(t, points.Debit(ctx, Entry{UserID: user.ID, Points: 0}), ErrInvalidPoints)
}

func TestPointsUnknownUser(t *testing.T) {
	db := newTestDB(t)
	_, points, _, _ := newTestServices(db)
	ctx := context.Background()

	err := points.Credit(ctx, Entry{UserID: 9999, Points: 5})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = points.Balance(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestPointsTransactionHistory(t *testing.T) {
	db := newTestDB(t)
	_, points, _, _ := newTestServices(db)
	ctx := context.Background()

	user := createTestUser(t, db, "user", 100)

	for i := 0; i < 3; i++ {
		require.NoError(t, points.Credit(ctx, Entry{UserID: user.ID, Points: 10, Reason: domain.ReasonDonation}))
	}
	require.NoError(t, points.Debit(ctx, Entry{UserID: user.ID, Points: 5, Reason: domain.ReasonExchange}))

	txs, total, err := points.Transactions(ctx, user.ID, pagination.New(1, 2))
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, txs, 2)
}
