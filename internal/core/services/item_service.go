package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"ecothreads/internal/adapters/persistence/models"
	"ecothreads/internal/adapters/persistence/repositories"
	"ecothreads/internal/core/domain"
)

// Item errors
var (
	ErrItemNotFound     = errors.New("item not found")
	ErrNotItemOwner     = errors.New("item belongs to another user")
	ErrItemNotAvailable = errors.New("item is not available")
)

// ItemService manages the clothing item catalog and guards the item
// status lifecycle: Available is the only state an item can leave, and
// Exchanged/Donated are terminal.
type ItemService struct {
	itemRepo *repositories.ItemRepository
}

// NewItemService creates a new item service
func NewItemService(itemRepo *repositories.ItemRepository) *ItemService {
	return &ItemService{itemRepo: itemRepo}
}

// CreateItemInput holds the fields for listing a new item
type CreateItemInput struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Brand           string   `json:"brand"`
	Size            string   `json:"size"`
	Color           string   `json:"color"`
	PickupLocation  string   `json:"pickup_location"`
	PickupLatitude  *float64 `json:"pickup_latitude"`
	PickupLongitude *float64 `json:"pickup_longitude"`
	ItemCondition   string   `json:"item_condition"`
	Cost            *int     `json:"cost"`
	ImageURL        string   `json:"image_url"`
}

// Validate checks required fields
func (in *CreateItemInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("title is required: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Category) == "" {
		return fmt.Errorf("category is required: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.ItemCondition) == "" {
		return fmt.Errorf("item_condition is required: %w", domain.ErrInvalidInput)
	}
	if in.Cost != nil && *in.Cost < 0 {
		return fmt.Errorf("cost cannot be negative: %w", domain.ErrInvalidInput)
	}
	return nil
}

// Create lists a new item for the given owner, status Available
func (s *ItemService) Create(ctx context.Context, userID uint, input *CreateItemInput) (*models.ClothingItem, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	item := &models.ClothingItem{
		UserID:          userID,
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		Category:        input.Category,
		Brand:           input.Brand,
		Size:            input.Size,
		Color:           input.Color,
		PickupLocation:  input.PickupLocation,
		PickupLatitude:  input.PickupLatitude,
		PickupLongitude: input.PickupLongitude,
		ItemCondition:   input.ItemCondition,
		Cost:            input.Cost,
		ImageURL:        input.ImageURL,
		ItemStatus:      domain.ItemAvailable,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetByID returns an item with its owner preloaded
func (s *ItemService) GetByID(ctx context.Context, id uint) (*models.ClothingItem, error) {
	item, err := s.itemRepo.GetByIDWithOwner(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// BrowseFilter narrows the public catalog listing
type BrowseFilter struct {
	Category string
	Size     string
	Search   string
	Limit    int
}

// Browse lists Available items; a non-zero viewerID hides the viewer's
// own listings
func (s *ItemService) Browse(ctx context.Context, viewerID uint, filter *BrowseFilter) ([]*models.ClothingItem, error) {
	if filter == nil {
		filter = &BrowseFilter{}
	}
	var exclude *uint
	if viewerID != 0 {
		exclude = &viewerID
	}
	return s.itemRepo.List(ctx, &repositories.ItemFilter{
		Category:    filter.Category,
		Statuses:    []domain.ItemStatus{domain.ItemAvailable},
		ExcludeUser: exclude,
		Size:        filter.Size,
		Search:      filter.Search,
		Limit:       filter.Limit,
	})
}

// ListByOwner lists a user's own items, optionally by status
func (s *ItemService) ListByOwner(ctx context.Context, userID uint, status domain.ItemStatus) ([]*models.ClothingItem, error) {
	return s.itemRepo.ListByOwner(ctx, userID, status)
}

// UpdateItemInput holds a partial update; nil fields are left untouched
type UpdateItemInput struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Category       *string  `json:"category"`
	Brand          *string  `json:"brand"`
	Size           *string  `json:"size"`
	Color          *string  `json:"color"`
	PickupLocation *string  `json:"pickup_location"`
	ItemCondition  *string  `json:"item_condition"`
	Cost           *int     `json:"cost"`
	ImageURL       *string  `json:"image_url"`
}

// Fields flattens the input into the column set to update
func (in *UpdateItemInput) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.Brand != nil {
		fields["brand"] = *in.Brand
	}
	if in.Size != nil {
		fields["size"] = *in.Size
	}
	if in.Color != nil {
		fields["color"] = *in.Color
	}
	if in.PickupLocation != nil {
		fields["pickup_location"] = *in.PickupLocation
	}
	if in.ItemCondition != nil {
		fields["item_condition"] = *in.ItemCondition
	}
	if in.Cost != nil {
		fields["cost"] = *in.Cost
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}
	return fields
}

// Update applies a partial update to the caller's own Available item
func (s *ItemService) Update(ctx context.Context, userID, itemID uint, input *UpdateItemInput) (*models.ClothingItem, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrNotItemOwner
	}
	if item.ItemStatus != domain.ItemAvailable {
		return nil, ErrItemNotAvailable
	}

	if in := input.Title; in != nil && strings.TrimSpace(*in) == "" {
		return nil, fmt.Errorf("title cannot be empty: %w", domain.ErrInvalidInput)
	}
	if in := input.Cost; in != nil && *in < 0 {
		return nil, fmt.Errorf("cost cannot be negative: %w", domain.ErrInvalidInput)
	}

	fields := input.Fields()
	if len(fields) == 0 {
		return item, nil
	}
	if err := s.itemRepo.UpdateFields(ctx, itemID, fields); err != nil {
		return nil, err
	}
	return s.itemRepo.GetByID(ctx, itemID)
}

// Delete removes the caller's own Available item
func (s *ItemService) Delete(ctx context.Context, userID, itemID uint) error {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	if item.UserID != userID {
		return ErrNotItemOwner
	}
	if item.ItemStatus != domain.ItemAvailable {
		return ErrItemNotAvailable
	}
	return s.itemRepo.Delete(ctx, itemID)
}

// GetAvailableForUpdateTx loads an item under a row lock inside the
// caller's transaction and verifies it is still Available
func (s *ItemService) GetAvailableForUpdateTx(ctx context.Context, tx *gorm.DB, itemID uint) (*models.ClothingItem, error) {
	item, err := s.itemRepo.WithTx(tx).GetForUpdate(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if item.ItemStatus != domain.ItemAvailable {
		return nil, ErrItemNotAvailable
	}
	return item, nil
}

// MarkExchangedTx flips a locked item to Exchanged inside the caller's
// transaction
func (s *ItemService) MarkExchangedTx(ctx context.Context, tx *gorm.DB, itemID uint) error {
	return s.itemRepo.WithTx(tx).SetStatus(ctx, itemID, domain.ItemExchanged)
}

// MarkDonatedTx flips a locked item to Donated inside the caller's
// transaction
func (s *ItemService) MarkDonatedTx(ctx context.Context, tx *gorm.DB, itemID uint) error {
	return s.itemRepo.WithTx(tx).SetStatus(ctx, itemID, domain.ItemDonated)
}
