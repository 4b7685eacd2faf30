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

// UserHandler handles user profile endpoints
type UserHandler struct {
	userService *services.UserService
	itemService *services.ItemService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, itemService *services.ItemService) *UserHandler {
	return &UserHandler{
		userService: userService,
		itemService: itemService,
	}
}

// GetProfile returns the current user's profile
// @Summary Get own profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users/me [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	profile, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get profile")
	}

	return response.Success(c, "Profile retrieved successfully", profile)
}

// UpdateProfile updates the current user's profile
// @Summary Update own profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/me [patch]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var input services.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	profile, err := h.userService.UpdateProfile(c.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to update profile")
		}
	}

	return response.Success(c, "Profile updated successfully", profile)
}

// GetPublicProfile returns another user's public profile
// @Summary Get public profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetPublicProfile(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	profile, err := h.userService.GetPublicProfile(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get profile")
	}

	return response.Success(c, "Profile retrieved successfully", profile)
}

// GetMyItems returns the current user's items
// @Summary List own items
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by item status"
// @Success 200 {object} response.Response
// @Router /users/my-items [get]
func (h *UserHandler) GetMyItems(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	status := domain.ItemStatus(c.Query("status"))

	items, err := h.itemService.ListByOwner(c.Context(), userID, status)
	if err != nil {
		return response.InternalServerError(c, "Failed to list items")
	}

	return response.Success(c, "Items retrieved successfully", items)
}
