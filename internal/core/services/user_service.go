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

// UserService handles user profile operations
type UserService struct {
	userRepo    repositories.UserRepository
	itemService *ItemService
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, itemService *ItemService) *UserService {
	return &UserService{
		userRepo:    userRepo,
		itemService: itemService,
	}
}

// GetProfile returns the caller's own profile
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// UpdateProfileInput holds a partial profile update
type UpdateProfileInput struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// UpdateProfile applies a partial update to the caller's profile
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("name cannot be empty: %w", domain.ErrInvalidInput)
		}
		user.Name = name
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// PublicProfile is the view of a user shown to other users
type PublicProfile struct {
	ID    uint                   `json:"user_id"`
	Name  string                 `json:"name"`
	Items []*models.ClothingItem `json:"items"`
}

// GetPublicProfile returns another user's name and their Available items
func (s *UserService) GetPublicProfile(ctx context.Context, userID uint) (*PublicProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	items, err := s.itemService.ListByOwner(ctx, userID, domain.ItemAvailable)
	if err != nil {
		return nil, err
	}

	return &PublicProfile{
		ID:    user.ID,
		Name:  user.Name,
		Items: items,
	}, nil
}
