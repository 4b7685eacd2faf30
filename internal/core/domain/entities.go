package domain

import "time"

// ItemStatus represents the lifecycle state of a clothing item
type ItemStatus string

const (
	ItemAvailable ItemStatus = "Available"
	ItemExchanged ItemStatus = "Exchanged"
	ItemDonated   ItemStatus = "Donated"
)

// ExchangeStatus represents the state of an exchange request
type ExchangeStatus string

const (
	ExchangePending  ExchangeStatus = "Pending"
	ExchangeAccepted ExchangeStatus = "Accepted"
	ExchangeRejected ExchangeStatus = "Rejected"
)

// TransactionType represents the direction of a point transaction
type TransactionType string

const (
	TxEarn  TransactionType = "Earn"
	TxSpend TransactionType = "Spend"
)

// Point transaction reasons recorded in the ledger
const (
	ReasonExchange      = "Exchange"
	ReasonExchangeBonus = "Exchange Bonus (10% of value)"
	ReasonDonation      = "Donation"
)

// DonationPoints is the fixed reward for donating an item
const DonationPoints = 50

// BonusRate is the fraction of total exchange value paid to each party
// on an accepted exchange (minimum 1 point when the value is positive)
const BonusRate = 0.10

// User represents a user in the domain layer
type User struct {
	ID        uint
	Name      string
	Email     string
	Password  string // Hashed
	Phone     string
	EcoPoints int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RefreshToken represents a refresh token in the domain
type RefreshToken struct {
	ID        uint
	UserID    uint
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
