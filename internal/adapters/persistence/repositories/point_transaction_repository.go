package repositories

import (
	"context"

	"ecothreads/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// PointTransactionRepository handles the append-only eco point ledger
type PointTransactionRepository struct {
	db *gorm.DB
}

// NewPointTransactionRepository creates a new point transaction repository
func NewPointTransactionRepository(db *gorm.DB) *PointTransactionRepository {
	return &PointTransactionRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *PointTransactionRepository) WithTx(tx *gorm.DB) *PointTransactionRepository {
	return &PointTransactionRepository{db: tx}
}

// Create appends a transaction record. Records are never updated or
// deleted afterwards.
func (r *PointTransactionRepository) Create(ctx context.Context, tx *models.PointTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// ListByUser lists a user's transactions, newest first, paginated
func (r *PointTransactionRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.PointTransaction, int64, error) {
	var transactions []*models.PointTransaction
	var total int64

	if err := r.db.WithContext(ctx).
		Model(&models.PointTransaction{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("transaction_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error

	return transactions, total, err
}

// ListByExchange lists the transactions linked to an exchange request
func (r *PointTransactionRepository) ListByExchange(ctx context.Context, exchangeID uint) ([]*models.PointTransaction, error) {
	var transactions []*models.PointTransaction
	err := r.db.WithContext(ctx).
		Where("exchange_id = ?", exchangeID).
		Order("id ASC").
		Find(&transactions).Error
	return transactions, err
}
