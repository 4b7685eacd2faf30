package handlers

import (
	"errors"
	"strconv"

	"ecothreads/internal/adapters/http/middleware"
	"ecothreads/internal/core/domain"
	"ecothreads/internal/core/services"
	"ecothreads/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ItemHandler handles clothing item endpoints
type ItemHandler struct {
	itemService *services.ItemService
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService *services.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// Create lists a new item
// @Summary Create item
// @Tags Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateItemInput true "Item data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var input services.CreateItemInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	item, err := h.itemService.Create(c.Context(), userID, &input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to create item")
	}

	return response.Created(c, "Item created successfully", item)
}

// Browse lists available items from other users
// @Summary Browse items
// @Tags Items
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter by category"
// @Param size query string false "Filter by size"
// @Param search query string false "Search in title and description"
// @Success 200 {object} response.Response
// @Router /items [get]
func (h *ItemHandler) Browse(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	limit, _ := strconv.Atoi(c.Query("limit", "0"))
	items, err := h.itemService.Browse(c.Context(), userID, &services.BrowseFilter{
		Category: c.Query("category"),
		Size:     c.Query("size"),
		Search:   c.Query("search"),
		Limit:    limit,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to list items")
	}

	return response.Success(c, "Items retrieved successfully", items)
}

// Get returns a single item with its owner
// @Summary Get item
// @Tags Items
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /items/{id} [get]
func (h *ItemHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid item ID")
	}

	item, err := h.itemService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return response.NotFound(c, "Item not found")
		}
		return response.InternalServerError(c, "Failed to get item")
	}

	return response.Success(c, "Item retrieved successfully", item)
}

// Update applies a partial update to an item
// @Summary Update item
// @Tags Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Param body body services.UpdateItemInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid item ID")
	}

	var input services.UpdateItemInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	item, err := h.itemService.Update(c.Context(), userID, uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			return response.NotFound(c, "Item not found")
		case errors.Is(err, services.ErrNotItemOwner):
			return response.Forbidden(c, "You do not own this item")
		case errors.Is(err, services.ErrItemNotAvailable):
			return response.Conflict(c, "Item is no longer available")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to update item")
		}
	}

	return response.Success(c, "Item updated successfully", item)
}

// Delete removes an item
// @Summary Delete item
// @Tags Items
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid item ID")
	}

	if err := h.itemService.Delete(c.Context(), userID, uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			return response.NotFound(c, "Item not found")
		case errors.Is(err, services.ErrNotItemOwner):
			return response.Forbidden(c, "You do not own this item")
		case errors.Is(err, services.ErrItemNotAvailable):
			return response.Conflict(c, "Item is no longer available")
		default:
			return response.InternalServerError(c, "Failed to delete item")
		}
	}

	return response.Success(c, "Item deleted successfully", nil)
}
