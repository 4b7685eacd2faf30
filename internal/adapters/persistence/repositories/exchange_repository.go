package repositories

import (
	"context"

	"ecothreads/internal/adapters/persistence/models"
	"ecothreads/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExchangeRepository handles exchange request data access
type ExchangeRepository struct {
	db *gorm.DB
}

// NewExchangeRepository creates a new exchange repository
func NewExchangeRepository(db *gorm.DB) *ExchangeRepository {
	return &ExchangeRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *ExchangeRepository) WithTx(tx *gorm.DB) *ExchangeRepository {
	return &ExchangeRepository{db: tx}
}

// Create creates a new exchange request
func (r *ExchangeRepository) Create(ctx context.Context, exchange *models.ExchangeRequest) error {
	return r.db.WithContext(ctx).Create(exchange).Error
}

// GetByID gets an exchange request with relations
func (r *ExchangeRepository) GetByID(ctx context.Context, id uint) (*models.ExchangeRequest, error) {
	var exchange models.ExchangeRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Owner").
		Preload("RequestedItem").
		Preload("OfferedItem").
		First(&exchange, id).Error
	if err != nil {
		return nil, err
	}
	return &exchange, nil
}

// GetForUpdate gets an exchange request under a row lock, for use inside
// a transaction. Serializes concurrent Accept/Reject on the same request.
func (r *ExchangeRepository) GetForUpdate(ctx context.Context, id uint) (*models.ExchangeRequest, error) {
	var exchange models.ExchangeRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&exchange, id).Error
	if err != nil {
		return nil, err
	}
	return &exchange, nil
}

// ListFilter selects which side of the exchange the viewer is on
type ListFilter string

const (
	FilterAll      ListFilter = "all"
	FilterSent     ListFilter = "sent"
	FilterReceived ListFilter = "received"
)

// ListByUser lists exchange requests visible to a user, newest first
func (r *ExchangeRepository) ListByUser(ctx context.Context, userID uint, filter ListFilter) ([]*models.ExchangeRequest, error) {
	q := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Owner").
		Preload("RequestedItem").
		Preload("OfferedItem")

	switch filter {
	case FilterSent:
		q = q.Where("requester_id = ?", userID)
	case FilterReceived:
		q = q.Where("owner_id = ?", userID)
	default:
		q = q.Where("requester_id = ? OR owner_id = ?", userID, userID)
	}

	var exchanges []*models.ExchangeRequest
	err := q.Order("request_date DESC").Find(&exchanges).Error
	return exchanges, err
}

// HasPending reports whether a Pending request already exists for the
// (requester, requested item) pair
func (r *ExchangeRepository) HasPending(ctx context.Context, requesterID, requestedItemID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ExchangeRequest{}).
		Where("requester_id = ? AND requested_item_id = ? AND status = ?",
			requesterID, requestedItemID, domain.ExchangePending).
		Count(&count).Error
	return count > 0, err
}

// Update updates an exchange request
func (r *ExchangeRepository) Update(ctx context.Context, exchange *models.ExchangeRequest) error {
	return r.db.WithContext(ctx).Save(exchange).Error
}
