package repositories

import (
	"context"

	"ecothreads/internal/adapters/persistence/models"
	"ecothreads/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepository handles clothing item data access
type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *ItemRepository) WithTx(tx *gorm.DB) *ItemRepository {
	return &ItemRepository{db: tx}
}

// Create creates a new clothing item
func (r *ItemRepository) Create(ctx context.Context, item *models.ClothingItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// GetByID gets an item by ID
func (r *ItemRepository) GetByID(ctx context.Context, id uint) (*models.ClothingItem, error) {
	var item models.ClothingItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByIDWithOwner gets an item with its owner preloaded
func (r *ItemRepository) GetByIDWithOwner(ctx context.Context, id uint) (*models.ClothingItem, error) {
	var item models.ClothingItem
	err := r.db.WithContext(ctx).Preload("Owner").First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetForUpdate gets an item under a row lock, for use inside a transaction
func (r *ItemRepository) GetForUpdate(ctx context.Context, id uint) (*models.ClothingItem, error) {
	var item models.ClothingItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ItemFilter narrows List results; zero values mean "no constraint"
type ItemFilter struct {
	Category    string
	Statuses    []domain.ItemStatus
	ExcludeUser *uint
	Size        string
	Search      string
	Limit       int
}

// List lists items matching the filter, newest first
func (r *ItemRepository) List(ctx context.Context, filter *ItemFilter) ([]*models.ClothingItem, error) {
	q := r.db.WithContext(ctx).Model(&models.ClothingItem{})

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("item_status IN ?", filter.Statuses)
	}
	if filter.ExcludeUser != nil {
		q = q.Where("user_id != ?", *filter.ExcludeUser)
	}
	if filter.Size != "" {
		q = q.Where("size = ?", filter.Size)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	q = q.Order("id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var items []*models.ClothingItem
	err := q.Find(&items).Error
	return items, err
}

// ListByOwner lists a user's items, optionally restricted by status
func (r *ItemRepository) ListByOwner(ctx context.Context, userID uint, status domain.ItemStatus) ([]*models.ClothingItem, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("item_status = ?", status)
	}

	var items []*models.ClothingItem
	err := q.Order("id DESC").Find(&items).Error
	return items, err
}

// UpdateFields applies a partial update built from an explicit field set
func (r *ItemRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.ClothingItem{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// SetStatus sets an item's status; the caller is responsible for
// validating the transition first
func (r *ItemRepository) SetStatus(ctx context.Context, id uint, status domain.ItemStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.ClothingItem{}).
		Where("id = ?", id).
		Update("item_status", status).Error
}

// Delete deletes an item
func (r *ItemRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ClothingItem{}, id).Error
}
