package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"ecothreads/internal/adapters/persistence/models"
	"ecothreads/internal/adapters/persistence/repositories"
	"ecothreads/internal/core/domain"
)

// ErrDonationNotFound is returned when a donation does not exist or
// belongs to another user
var ErrDonationNotFound = errors.New("donation not found")

// DonationService records item donations. Donating flips the item to
// Donated and credits the donor a fixed reward, atomically.
type DonationService struct {
	db            *gorm.DB
	donationRepo  *repositories.DonationRepository
	itemService   *ItemService
	pointsService *PointsService
}

// NewDonationService creates a new donation service
func NewDonationService(db *gorm.DB, donationRepo *repositories.DonationRepository, itemService *ItemService, pointsService *PointsService) *DonationService {
	return &DonationService{
		db:            db,
		donationRepo:  donationRepo,
		itemService:   itemService,
		pointsService: pointsService,
	}
}

// CreateDonationInput holds the fields for donating an item
type CreateDonationInput struct {
	ItemID    uint   `json:"item_id"`
	Recipient string `json:"recipient"`
}

// Create donates the caller's own Available item
func (s *DonationService) Create(ctx context.Context, donorID uint, input *CreateDonationInput) (*models.Donation, error) {
	var donation *models.Donation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.itemService.GetAvailableForUpdateTx(ctx, tx, input.ItemID)
		if err != nil {
			return err
		}
		if item.UserID != donorID {
			return ErrNotItemOwner
		}

		if err := s.itemService.MarkDonatedTx(ctx, tx, item.ID); err != nil {
			return err
		}

		donation = &models.Donation{
			DonorID:      donorID,
			ItemID:       item.ID,
			Recipient:    strings.TrimSpace(input.Recipient),
			DonationDate: time.Now(),
		}
		if err := s.donationRepo.WithTx(tx).Create(ctx, donation); err != nil {
			return err
		}

		return s.pointsService.CreditTx(ctx, tx, Entry{
			UserID:     donorID,
			Points:     domain.DonationPoints,
			Reason:     domain.ReasonDonation,
			DonationID: &donation.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.donationRepo.GetByID(ctx, donation.ID, donorID)
}

// Get returns one of the caller's donations
func (s *DonationService) Get(ctx context.Context, donorID, donationID uint) (*models.Donation, error) {
	donation, err := s.donationRepo.GetByID(ctx, donationID, donorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}
	return donation, nil
}

// List returns the caller's donations, newest first
func (s *DonationService) List(ctx context.Context, donorID uint) ([]*models.Donation, error) {
	return s.donationRepo.ListByDonor(ctx, donorID)
}
