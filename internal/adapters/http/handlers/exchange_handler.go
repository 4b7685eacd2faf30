package handlers

import (
	"errors"
	"log"
	"strconv"

	"ecothreads/internal/adapters/http/middleware"
	"ecothreads/internal/adapters/persistence/models"
	"ecothreads/internal/adapters/persistence/repositories"
	"ecothreads/internal/core/domain"
	"ecothreads/internal/core/services"
	"ecothreads/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ExchangeHandler handles exchange request endpoints
type ExchangeHandler struct {
	exchangeService *services.ExchangeService
}

// NewExchangeHandler creates a new exchange handler
func NewExchangeHandler(exchangeService *services.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchangeService: exchangeService}
}

// Create opens an exchange request
// @Summary Create exchange request
// @Description Request another user's item, offering an item, points, or both
// @Tags Exchanges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateExchangeInput true "Exchange offer"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /exchanges [post]
func (h *ExchangeHandler) Create(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var input services.CreateExchangeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.RequestedItemID == 0 {
		return response.BadRequest(c, "requested_item_id is required")
	}

	exchange, err := h.exchangeService.Create(c.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			return response.NotFound(c, "Item not found")
		case errors.Is(err, services.ErrItemNotAvailable):
			return response.Conflict(c, "Item is no longer available")
		case errors.Is(err, services.ErrOwnItem):
			return response.BadRequest(c, "You cannot request your own item")
		case errors.Is(err, services.ErrNotItemOwner):
			return response.Forbidden(c, "Offered item belongs to another user")
		case errors.Is(err, services.ErrNoOffer):
			return response.BadRequest(c, "Offer an item, points, or both")
		case errors.Is(err, services.ErrInvalidPoints):
			return response.BadRequest(c, "Offered points cannot be negative")
		case errors.Is(err, services.ErrInsufficientBalance):
			return response.BadRequest(c, "Insufficient eco point balance")
		case errors.Is(err, services.ErrDuplicateRequest):
			return response.Conflict(c, "You already have a pending request for this item")
		default:
			log.Printf("Exchange create failed: %v", err)
			return response.InternalServerError(c, "Failed to create exchange request")
		}
	}

	return response.Created(c, "Exchange request created successfully", exchange.ToResponse(userID))
}

// List returns the caller's exchange requests
// @Summary List exchange requests
// @Tags Exchanges
// @Produce json
// @Security BearerAuth
// @Param filter query string false "all, sent or received" Enums(all, sent, received)
// @Success 200 {object} response.Response
// @Router /exchanges [get]
func (h *ExchangeHandler) List(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	filter := repositories.ListFilter(c.Query("filter", string(repositories.FilterAll)))

	exchanges, err := h.exchangeService.List(c.Context(), userID, filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to list exchange requests")
	}

	out := make([]*models.ExchangeResponse, 0, len(exchanges))
	for _, e := range exchanges {
		out = append(out, e.ToResponse(userID))
	}

	return response.Success(c, "Exchange requests retrieved successfully", out)
}

// Get returns one exchange request
// @Summary Get exchange request
// @Tags Exchanges
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exchange ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /exchanges/{id} [get]
func (h *ExchangeHandler) Get(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid exchange ID")
	}

	exchange, err := h.exchangeService.Get(c.Context(), userID, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrExchangeNotFound):
			return response.NotFound(c, "Exchange request not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You are not a party to this exchange")
		default:
			return response.InternalServerError(c, "Failed to get exchange request")
		}
	}

	return response.Success(c, "Exchange request retrieved successfully", exchange.ToResponse(userID))
}

// Accept settles a pending exchange request
// @Summary Accept exchange request
// @Description Settle the exchange: items, point transfer and bonus in one step
// @Tags Exchanges
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exchange ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /exchanges/{id}/accept [post]
func (h *ExchangeHandler) Accept(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid exchange ID")
	}

	result, err := h.exchangeService.Accept(c.Context(), userID, uint(id))
	if err != nil {
		return h.settleError(c, err)
	}

	return response.Success(c, "Exchange accepted successfully", fiber.Map{
		"exchange":             result.Exchange.ToResponse(userID),
		"bonus_points":         result.BonusPoints,
		"total_exchange_value": result.TotalValue,
	})
}

// Reject declines a pending exchange request
// @Summary Reject exchange request
// @Tags Exchanges
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exchange ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /exchanges/{id}/reject [post]
func (h *ExchangeHandler) Reject(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid exchange ID")
	}

	exchange, err := h.exchangeService.Reject(c.Context(), userID, uint(id))
	if err != nil {
		return h.settleError(c, err)
	}

	return response.Success(c, "Exchange rejected successfully", exchange.ToResponse(userID))
}

// settleError maps accept/reject failures onto HTTP statuses
func (h *ExchangeHandler) settleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrExchangeNotFound):
		return response.NotFound(c, "Exchange request not found")
	case errors.Is(err, services.ErrNotRequestOwner):
		return response.Forbidden(c, "Only the item owner can settle this request")
	case errors.Is(err, services.ErrExchangeNotPending):
		return response.Conflict(c, err.Error())
	case errors.Is(err, services.ErrItemNotFound):
		return response.NotFound(c, "Item not found")
	case errors.Is(err, services.ErrItemNotAvailable):
		return response.Conflict(c, "Item is no longer available")
	case errors.Is(err, services.ErrInsufficientBalance):
		return response.BadRequest(c, "Requester no longer has enough eco points")
	default:
		log.Printf("Exchange settlement failed: %v", err)
		return response.InternalServerError(c, "Failed to settle exchange request")
	}
}
