package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ecothreads/internal/adapters/persistence/models"
	"ecothreads/internal/adapters/persistence/repositories"
	"ecothreads/internal/config"
	"ecothreads/internal/core/domain"
	"ecothreads/internal/pkg/jwt"
	"ecothreads/internal/pkg/password"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.RefreshTokenRepository
	config    *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, tokenRepo repositories.RefreshTokenRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		config:    cfg,
	}
}

// RegisterInput holds registration data
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// LoginInput holds login data; identifier is an email or phone number
type LoginInput struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// AuthResult holds the outcome of a successful authentication
type AuthResult struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)

	if input.Name == "" || input.Email == "" {
		return nil, fmt.Errorf("name and email are required: %w", domain.ErrInvalidInput)
	}
	if !password.ValidatePassword(input.Password) {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", domain.ErrInvalidPassword)
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Phone:    input.Phone,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Login authenticates a user by email or phone
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResult, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	var user *models.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.userRepo.GetByPhone(ctx, identifier)
	}
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// new pair is issued
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.config.JWT.RefreshSecret)
	if err != nil {
		if err == jwt.ErrTokenExpired {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	stored, err := s.tokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	if stored.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	if err := s.tokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken))
}

// LogoutAll revokes every active refresh token for a user
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	return s.tokenRepo.RevokeAllByUserID(ctx, userID)
}

// issueTokens creates an access/refresh pair and stores the hashed
// refresh token
func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*AuthResult, error) {
	accessToken, err := jwt.GenerateAccessToken(user.ID, user.Email, s.config.JWT.Secret, s.config.JWT.AccessTokenMins)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.NewString()
	refreshToken, err := jwt.GenerateRefreshToken(user.ID, tokenID, s.config.JWT.RefreshSecret, s.config.JWT.RefreshTokenDays)
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.config.JWT.RefreshTokenDays),
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
