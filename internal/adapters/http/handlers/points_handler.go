package handlers

import (
	"errors"

	"ecothreads/internal/adapters/http/middleware"
	"ecothreads/internal/core/domain"
	"ecothreads/internal/core/services"
	"ecothreads/internal/pkg/pagination"
	"ecothreads/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PointsHandler handles eco point endpoints
type PointsHandler struct {
	pointsService *services.PointsService
}

// NewPointsHandler creates a new points handler
func NewPointsHandler(pointsService *services.PointsService) *PointsHandler {
	return &PointsHandler{pointsService: pointsService}
}

// Balance returns the caller's current eco point balance
// @Summary Get point balance
// @Tags Points
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /points/balance [get]
func (h *PointsHandler) Balance(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	balance, err := h.pointsService.Balance(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get balance")
	}

	return response.Success(c, "Balance retrieved successfully", fiber.Map{
		"eco_points": balance,
	})
}

// Transactions returns the caller's point ledger history
// @Summary List point transactions
// @Tags Points
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /points/transactions [get]
func (h *PointsHandler) Transactions(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	params := pagination.GetParams(c)

	transactions, total, err := h.pointsService.Transactions(c.Context(), userID, params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list transactions")
	}

	return response.Success(c, "Transactions retrieved successfully",
		pagination.NewResponse(transactions, params, total))
}
