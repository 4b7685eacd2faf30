package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ecothreads/internal/adapters/persistence/models"
	"ecothreads/internal/adapters/persistence/repositories"
	"ecothreads/internal/core/domain"
	"ecothreads/internal/pkg/pagination"
)

// Points errors
var (
	ErrInsufficientBalance = errors.New("insufficient eco point balance")
	ErrInvalidPoints       = errors.New("points must be a positive amount")
)

// PointsService maintains eco point balances and their ledger. Every
// balance change appends a matching ledger row in the same transaction,
// so the sum of Earn minus Spend always equals the stored balance.
type PointsService struct {
	db     *gorm.DB
	txRepo *repositories.PointTransactionRepository
}

// NewPointsService creates a new points service
func NewPointsService(db *gorm.DB, txRepo *repositories.PointTransactionRepository) *PointsService {
	return &PointsService{
		db:     db,
		txRepo: txRepo,
	}
}

// Entry describes a single balance change to record
type Entry struct {
	UserID     uint
	Points     int
	Reason     string
	ExchangeID *uint
	DonationID *uint
}

// CreditTx adds points to a user inside the caller's transaction
func (s *PointsService) CreditTx(ctx context.Context, tx *gorm.DB, entry Entry) error {
	if entry.Points <= 0 {
		return ErrInvalidPoints
	}

	user, err := lockUser(ctx, tx, entry.UserID)
	if err != nil {
		return err
	}

	user.EcoPoints += entry.Points
	if err := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("eco_points", user.EcoPoints).Error; err != nil {
		return err
	}

	return s.txRepo.WithTx(tx).Create(ctx, &models.PointTransaction{
		UserID:          entry.UserID,
		TransactionType: domain.TxEarn,
		Points:          entry.Points,
		Reason:          entry.Reason,
		ExchangeID:      entry.ExchangeID,
		DonationID:      entry.DonationID,
		TransactionDate: time.Now(),
	})
}

// DebitTx removes points from a user inside the caller's transaction.
// Fails with ErrInsufficientBalance rather than letting the balance go
// negative.
func (s *PointsService) DebitTx(ctx context.Context, tx *gorm.DB, entry Entry) error {
	if entry.Points <= 0 {
		return ErrInvalidPoints
	}

	user, err := lockUser(ctx, tx, entry.UserID)
	if err != nil {
		return err
	}

	if user.EcoPoints < entry.Points {
		return ErrInsufficientBalance
	}

	user.EcoPoints -= entry.Points
	if err := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("eco_points", user.EcoPoints).Error; err != nil {
		return err
	}

	return s.txRepo.WithTx(tx).Create(ctx, &models.PointTransaction{
		UserID:          entry.UserID,
		TransactionType: domain.TxSpend,
		Points:          entry.Points,
		Reason:          entry.Reason,
		ExchangeID:      entry.ExchangeID,
		DonationID:      entry.DonationID,
		TransactionDate: time.Now(),
	})
}

// Credit adds points to a user in its own transaction
func (s *PointsService) Credit(ctx context.Context, entry Entry) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.CreditTx(ctx, tx, entry)
	})
}

// Debit removes points from a user in its own transaction
func (s *PointsService) Debit(ctx context.Context, entry Entry) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.DebitTx(ctx, tx, entry)
	})
}

// Balance returns a user's current eco point balance
func (s *PointsService) Balance(ctx context.Context, userID uint) (int, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrUserNotFound
		}
		return 0, err
	}
	return user.EcoPoints, nil
}

// Transactions returns a user's ledger history, newest first
func (s *PointsService) Transactions(ctx context.Context, userID uint, params *pagination.Params) ([]*models.PointTransaction, int64, error) {
	return s.txRepo.ListByUser(ctx, userID, params.Offset, params.Limit)
}

// lockUser reads a user row under a row lock inside a transaction
func lockUser(ctx context.Context, tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
