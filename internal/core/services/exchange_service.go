package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"ecothreads/internal/adapters/persistence/models"
	"ecothreads/internal/adapters/persistence/repositories"
	"ecothreads/internal/core/domain"
)

// Exchange errors
var (
	ErrExchangeNotFound   = errors.New("exchange request not found")
	ErrNotRequestOwner    = errors.New("only the item owner can settle this request")
	ErrExchangeNotPending = errors.New("exchange request is no longer pending")
	ErrOwnItem            = errors.New("cannot request your own item")
	ErrNoOffer            = errors.New("an offered item or offered points is required")
	ErrDuplicateRequest   = errors.New("a pending request for this item already exists")
)

// ExchangeService runs the exchange settlement state machine. A request
// moves Pending -> Accepted or Pending -> Rejected exactly once; Accept
// settles item statuses, the point transfer and the value bonus in a
// single transaction.
type ExchangeService struct {
	db            *gorm.DB
	exchangeRepo  *repositories.ExchangeRepository
	itemService   *ItemService
	pointsService *PointsService
}

// NewExchangeService creates a new exchange service
func NewExchangeService(db *gorm.DB, exchangeRepo *repositories.ExchangeRepository, itemService *ItemService, pointsService *PointsService) *ExchangeService {
	return &ExchangeService{
		db:            db,
		exchangeRepo:  exchangeRepo,
		itemService:   itemService,
		pointsService: pointsService,
	}
}

// CreateExchangeInput holds the fields for opening a request
type CreateExchangeInput struct {
	RequestedItemID uint  `json:"requested_item_id"`
	OfferedItemID   *uint `json:"offered_item_id"`
	OfferedPoints   int   `json:"offered_points"`
}

// Create opens a Pending exchange request against another user's item.
// The offer may be an item, points, or both, but never neither.
func (s *ExchangeService) Create(ctx context.Context, requesterID uint, input *CreateExchangeInput) (*models.ExchangeRequest, error) {
	if input.OfferedPoints < 0 {
		return nil, ErrInvalidPoints
	}
	if input.OfferedItemID == nil && input.OfferedPoints == 0 {
		return nil, ErrNoOffer
	}

	var exchange *models.ExchangeRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Locking the requested item also serializes racing creates
		// for the same item.
		requested, err := s.itemService.GetAvailableForUpdateTx(ctx, tx, input.RequestedItemID)
		if err != nil {
			return err
		}
		if requested.UserID == requesterID {
			return ErrOwnItem
		}

		if input.OfferedItemID != nil {
			offered, err := s.itemService.itemRepo.WithTx(tx).GetForUpdate(ctx, *input.OfferedItemID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrItemNotFound
				}
				return err
			}
			if offered.UserID != requesterID {
				return ErrNotItemOwner
			}
			if offered.ItemStatus != domain.ItemAvailable {
				return ErrItemNotAvailable
			}
		}

		if input.OfferedPoints > 0 {
			requester, err := lockUser(ctx, tx, requesterID)
			if err != nil {
				return err
			}
			if requester.EcoPoints < input.OfferedPoints {
				return ErrInsufficientBalance
			}
		}

		dup, err := s.exchangeRepo.WithTx(tx).HasPending(ctx, requesterID, input.RequestedItemID)
		if err != nil {
			return err
		}
		if dup {
			return ErrDuplicateRequest
		}

		exchange = &models.ExchangeRequest{
			RequesterID:     requesterID,
			OwnerID:         requested.UserID,
			RequestedItemID: input.RequestedItemID,
			OfferedItemID:   input.OfferedItemID,
			OfferedPoints:   input.OfferedPoints,
			Status:          domain.ExchangePending,
			RequestDate:     time.Now(),
		}
		return s.exchangeRepo.WithTx(tx).Create(ctx, exchange)
	})
	if err != nil {
		return nil, err
	}

	return s.exchangeRepo.GetByID(ctx, exchange.ID)
}

// AcceptResult reports what an accepted exchange settled to
type AcceptResult struct {
	Exchange    *models.ExchangeRequest `json:"exchange"`
	BonusPoints int                     `json:"bonus_points"`
	TotalValue  int                     `json:"total_exchange_value"`
}

// Accept settles a pending request. In one transaction: the requested
// item (and the offered item, if any) becomes Exchanged, offered points
// move from requester to owner, and both parties earn a bonus of 10% of
// the total exchange value (minimum 1 point when the value is positive).
func (s *ExchangeService) Accept(ctx context.Context, ownerID, exchangeID uint) (*AcceptResult, error) {
	var bonusPaid, totalValue int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		exchange, err := s.getPendingForSettleTx(ctx, tx, ownerID, exchangeID)
		if err != nil {
			return err
		}

		requested, err := s.itemService.GetAvailableForUpdateTx(ctx, tx, exchange.RequestedItemID)
		if err != nil {
			return err
		}
		if err := s.itemService.MarkExchangedTx(ctx, tx, requested.ID); err != nil {
			return err
		}

		totalValue = requested.CostValue() + exchange.OfferedPoints
		if exchange.OfferedItemID != nil {
			offered, err := s.itemService.GetAvailableForUpdateTx(ctx, tx, *exchange.OfferedItemID)
			if err != nil {
				return err
			}
			if err := s.itemService.MarkExchangedTx(ctx, tx, offered.ID); err != nil {
				return err
			}
			totalValue += offered.CostValue()
		}

		if exchange.OfferedPoints > 0 {
			if err := s.pointsService.DebitTx(ctx, tx, Entry{
				UserID:     exchange.RequesterID,
				Points:     exchange.OfferedPoints,
				Reason:     domain.ReasonExchange,
				ExchangeID: &exchange.ID,
			}); err != nil {
				return err
			}
			if err := s.pointsService.CreditTx(ctx, tx, Entry{
				UserID:     exchange.OwnerID,
				Points:     exchange.OfferedPoints,
				Reason:     domain.ReasonExchange,
				ExchangeID: &exchange.ID,
			}); err != nil {
				return err
			}
		}

		if bonus := BonusPoints(totalValue); bonus > 0 {
			bonusPaid = bonus
			for _, userID := range []uint{exchange.RequesterID, exchange.OwnerID} {
				if err := s.pointsService.CreditTx(ctx, tx, Entry{
					UserID:     userID,
					Points:     bonus,
					Reason:     domain.ReasonExchangeBonus,
					ExchangeID: &exchange.ID,
				}); err != nil {
					return err
				}
			}
		}

		now := time.Now()
		exchange.Status = domain.ExchangeAccepted
		exchange.ApprovalDate = &now
		return s.exchangeRepo.WithTx(tx).Update(ctx, exchange)
	})
	if err != nil {
		return nil, err
	}

	exchange, err := s.exchangeRepo.GetByID(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	return &AcceptResult{
		Exchange:    exchange,
		BonusPoints: bonusPaid,
		TotalValue:  totalValue,
	}, nil
}

// Reject closes a pending request with no side effects on items or
// points
func (s *ExchangeService) Reject(ctx context.Context, ownerID, exchangeID uint) (*models.ExchangeRequest, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		exchange, err := s.getPendingForSettleTx(ctx, tx, ownerID, exchangeID)
		if err != nil {
			return err
		}

		now := time.Now()
		exchange.Status = domain.ExchangeRejected
		exchange.ApprovalDate = &now
		return s.exchangeRepo.WithTx(tx).Update(ctx, exchange)
	})
	if err != nil {
		return nil, err
	}

	return s.exchangeRepo.GetByID(ctx, exchangeID)
}

// getPendingForSettleTx locks the exchange row and verifies the caller
// may settle it and that it is still pending
func (s *ExchangeService) getPendingForSettleTx(ctx context.Context, tx *gorm.DB, ownerID, exchangeID uint) (*models.ExchangeRequest, error) {
	exchange, err := s.exchangeRepo.WithTx(tx).GetForUpdate(ctx, exchangeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExchangeNotFound
		}
		return nil, err
	}
	if exchange.OwnerID != ownerID {
		return nil, ErrNotRequestOwner
	}
	if exchange.Status != domain.ExchangePending {
		return nil, fmt.Errorf("request is already %s: %w", exchange.Status, ErrExchangeNotPending)
	}
	return exchange, nil
}

// List returns the exchanges a user is party to
func (s *ExchangeService) List(ctx context.Context, userID uint, filter repositories.ListFilter) ([]*models.ExchangeRequest, error) {
	return s.exchangeRepo.ListByUser(ctx, userID, filter)
}

// Get returns a single exchange if the user is a party to it
func (s *ExchangeService) Get(ctx context.Context, userID, exchangeID uint) (*models.ExchangeRequest, error) {
	exchange, err := s.exchangeRepo.GetByID(ctx, exchangeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExchangeNotFound
		}
		return nil, err
	}
	if exchange.RequesterID != userID && exchange.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	return exchange, nil
}

// BonusPoints computes the accepted-exchange bonus for a total exchange
// value: 10% rounded down, never less than 1 for a positive value, and 0
// when the exchange carries no value.
func BonusPoints(totalValue int) int {
	if totalValue <= 0 {
		return 0
	}
	bonus := int(float64(totalValue) * domain.BonusRate)
	if bonus < 1 {
		bonus = 1
	}
	return bonus
}
