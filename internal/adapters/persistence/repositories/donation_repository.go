package repositories

import (
	"context"

	"ecothreads/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// DonationRepository handles donation data access
type DonationRepository struct {
	db *gorm.DB
}

// NewDonationRepository creates a new donation repository
func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *DonationRepository) WithTx(tx *gorm.DB) *DonationRepository {
	return &DonationRepository{db: tx}
}

// Create creates a new donation
func (r *DonationRepository) Create(ctx context.Context, donation *models.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

// GetByID gets a donation with its item, restricted to the donor
func (r *DonationRepository) GetByID(ctx context.Context, id, donorID uint) (*models.Donation, error) {
	var donation models.Donation
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("id = ? AND donor_id = ?", id, donorID).
		First(&donation).Error
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

// ListByDonor lists a user's donations, newest first
func (r *DonationRepository) ListByDonor(ctx context.Context, donorID uint) ([]*models.Donation, error) {
	var donations []*models.Donation
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("donor_id = ?", donorID).
		Order("donation_date DESC").
		Find(&donations).Error
	return donations, err
}
