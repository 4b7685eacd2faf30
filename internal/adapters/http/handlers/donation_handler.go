package handlers

import (
	"errors"
	"log"
	"strconv"

	"ecothreads/internal/adapters/http/middleware"
	"ecothreads/internal/core/domain"
	"ecothreads/internal/core/services"
	"ecothreads/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DonationHandler handles donation endpoints
type DonationHandler struct {
	donationService *services.DonationService
}

// NewDonationHandler creates a new donation handler
func NewDonationHandler(donationService *services.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

// Create donates an item
// @Summary Donate item
// @Description Donate an own item and earn the fixed reward
// @Tags Donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateDonationInput true "Donation data"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /donations [post]
func (h *DonationHandler) Create(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var input services.CreateDonationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.ItemID == 0 {
		return response.BadRequest(c, "item_id is required")
	}

	donation, err := h.donationService.Create(c.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			return response.NotFound(c, "Item not found")
		case errors.Is(err, services.ErrNotItemOwner):
			return response.Forbidden(c, "You do not own this item")
		case errors.Is(err, services.ErrItemNotAvailable):
			return response.Conflict(c, "Item is no longer available")
		default:
			log.Printf("Donation failed: %v", err)
			return response.InternalServerError(c, "Failed to donate item")
		}
	}

	return response.Created(c, "Item donated successfully", fiber.Map{
		"donation":      donation,
		"points_earned": domain.DonationPoints,
	})
}

// List returns the caller's donations
// @Summary List donations
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /donations [get]
func (h *DonationHandler) List(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	donations, err := h.donationService.List(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list donations")
	}

	return response.Success(c, "Donations retrieved successfully", donations)
}

// Get returns one of the caller's donations
// @Summary Get donation
// @Tags Donations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Donation ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /donations/{id} [get]
func (h *DonationHandler) Get(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid donation ID")
	}

	donation, err := h.donationService.Get(c.Context(), userID, uint(id))
	if err != nil {
		if errors.Is(err, services.ErrDonationNotFound) {
			return response.NotFound(c, "Donation not found")
		}
		return response.InternalServerError(c, "Failed to get donation")
	}

	return response.Success(c, "Donation retrieved successfully", donation)
}
