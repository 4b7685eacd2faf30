package models

import (
	"time"

	"ecothreads/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Users & Auth
// ============================================================

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"user_id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Phone     string         `gorm:"size:20;index" json:"phone"`
	EcoPoints int            `gorm:"not null;default:0" json:"eco_points"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	EcoPoints int       `json:"eco_points"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		EcoPoints: u.EcoPoints,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Clothing Items
// ============================================================

// ClothingItem represents clothing_items table
type ClothingItem struct {
	ID              uint              `gorm:"primaryKey" json:"item_id"`
	UserID          uint              `gorm:"not null;index" json:"user_id"`
	Title           string            `gorm:"size:150;not null" json:"title"`
	Description     string            `gorm:"type:text" json:"description"`
	Category        string            `gorm:"size:20;not null" json:"category"`
	Brand           string            `gorm:"size:100" json:"brand"`
	Size            string            `gorm:"size:20" json:"size"`
	Color           string            `gorm:"size:50" json:"color"`
	PickupLocation  string            `gorm:"size:255" json:"pickup_location"`
	PickupLatitude  *float64          `json:"pickup_latitude"`
	PickupLongitude *float64          `json:"pickup_longitude"`
	ItemCondition   string            `gorm:"size:20;not null" json:"item_condition"`
	Cost            *int              `json:"cost"`
	ImageURL        string            `gorm:"size:500" json:"image_url"`
	ItemStatus      domain.ItemStatus `gorm:"size:20;not null;default:'Available';index" json:"item_status"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Owner *User `gorm:"foreignKey:UserID" json:"owner,omitempty"`
}

func (ClothingItem) TableName() string {
	return "clothing_items"
}

// CostValue returns the item cost, treating a missing cost as zero
func (i *ClothingItem) CostValue() int {
	if i == nil || i.Cost == nil {
		return 0
	}
	return *i.Cost
}

// ============================================================
// Exchange Requests
// ============================================================

// ExchangeRequest represents exchange_requests table
type ExchangeRequest struct {
	ID              uint                  `gorm:"primaryKey" json:"exchange_id"`
	RequesterID     uint                  `gorm:"not null;index" json:"requester_id"`
	OwnerID         uint                  `gorm:"not null;index" json:"owner_id"`
	RequestedItemID uint                  `gorm:"not null;index" json:"requested_item_id"`
	OfferedItemID   *uint                 `json:"offered_item_id"`
	OfferedPoints   int                   `gorm:"not null;default:0" json:"offered_points"`
	Status          domain.ExchangeStatus `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	RequestDate     time.Time             `gorm:"not null" json:"request_date"`
	ApprovalDate    *time.Time            `json:"approval_date"`

	// Relations
	Requester     *User         `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Owner         *User         `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	RequestedItem *ClothingItem `gorm:"foreignKey:RequestedItemID" json:"requested_item,omitempty"`
	OfferedItem   *ClothingItem `gorm:"foreignKey:OfferedItemID" json:"offered_item,omitempty"`
}

func (ExchangeRequest) TableName() string {
	return "exchange_requests"
}

// ExchangeResponse DTO with the joined fields the frontend renders
type ExchangeResponse struct {
	ID                uint                  `json:"id"`
	RequesterID       uint                  `json:"requester_id"`
	OwnerID           uint                  `json:"owner_id"`
	RequesterName     string                `json:"requester_name,omitempty"`
	OwnerName         string                `json:"owner_name,omitempty"`
	RequestedItemID   uint                  `json:"requested_item_id"`
	RequestedTitle    string                `json:"requested_title,omitempty"`
	RequestedImage    string                `json:"requested_image,omitempty"`
	RequestedCategory string                `json:"requested_category,omitempty"`
	OfferedItemID     *uint                 `json:"offered_item_id"`
	OfferedTitle      string                `json:"offered_title,omitempty"`
	OfferedImage      string                `json:"offered_image,omitempty"`
	OfferedCategory   string                `json:"offered_category,omitempty"`
	OfferedPoints     int                   `json:"offered_points"`
	Status            domain.ExchangeStatus `json:"status"`
	RequestDate       time.Time             `json:"request_date"`
	ApprovalDate      *time.Time            `json:"approval_date"`
	IsSent            bool                  `json:"is_sent"`
}

// ToResponse builds the joined DTO; viewerID controls the is_sent flag
func (e *ExchangeRequest) ToResponse(viewerID uint) *ExchangeResponse {
	resp := &ExchangeResponse{
		ID:              e.ID,
		RequesterID:     e.RequesterID,
		OwnerID:         e.OwnerID,
		RequestedItemID: e.RequestedItemID,
		OfferedItemID:   e.OfferedItemID,
		OfferedPoints:   e.OfferedPoints,
		Status:          e.Status,
		RequestDate:     e.RequestDate,
		ApprovalDate:    e.ApprovalDate,
		IsSent:          e.RequesterID == viewerID,
	}

	if e.Requester != nil {
		resp.RequesterName = e.Requester.Name
	}
	if e.Owner != nil {
		resp.OwnerName = e.Owner.Name
	}
	if e.RequestedItem != nil {
		resp.RequestedTitle = e.RequestedItem.Title
		resp.RequestedImage = e.RequestedItem.ImageURL
		resp.RequestedCategory = e.RequestedItem.Category
	}
	if e.OfferedItem != nil {
		resp.OfferedTitle = e.OfferedItem.Title
		resp.OfferedImage = e.OfferedItem.ImageURL
		resp.OfferedCategory = e.OfferedItem.Category
	}

	return resp
}

// ============================================================
// Point Ledger
// ============================================================

// PointTransaction represents eco_point_transactions table.
// Rows are append-only; balances are reconstructable from them.
type PointTransaction struct {
	ID              uint                   `gorm:"primaryKey" json:"id"`
	UserID          uint                   `gorm:"not null;index" json:"user_id"`
	TransactionType domain.TransactionType `gorm:"size:10;not null" json:"type"`
	Points          int                    `gorm:"not null" json:"points"`
	Reason          string                 `gorm:"size:100" json:"reason"`
	ExchangeID      *uint                  `gorm:"index" json:"exchange_id"`
	DonationID      *uint                  `gorm:"index" json:"donation_id"`
	TransactionDate time.Time              `gorm:"not null;index" json:"date"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (PointTransaction) TableName() string {
	return "eco_point_transactions"
}

// ============================================================
// Donations
// ============================================================

// Donation represents donations table
type Donation struct {
	ID           uint      `gorm:"primaryKey" json:"donation_id"`
	DonorID      uint      `gorm:"not null;index" json:"donor_id"`
	ItemID       uint      `gorm:"not null;index" json:"item_id"`
	Recipient    string    `gorm:"size:150" json:"recipient"`
	DonationDate time.Time `gorm:"not null" json:"donation_date"`

	// Relations
	Donor *User         `gorm:"foreignKey:DonorID" json:"-"`
	Item  *ClothingItem `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

func (Donation) TableName() string {
	return "donations"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&ClothingItem{},
		&ExchangeRequest{},
		&PointTransaction{},
		&Donation{},
	)
}
