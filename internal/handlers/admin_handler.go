package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gearstore/internal/models"
	"gearstore/internal/repositories"
	"gearstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles catalog management and user administration. Every
// route requires an admin credential; the router applies the middleware.
type AdminHandler struct {
	catalogService *services.CatalogService
	userService    *services.UserService
	validate       *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(catalogService *services.CatalogService, userService *services.UserService) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
		userService:    userService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the admin routes with the Fiber app.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/admin/gear", h.HandleListGear)
	router.Post("/gear", h.HandleCreateGearItem)
	router.Patch("/gear/:id", h.HandleUpdateGearItem)
	router.Delete("/gear/:id", h.HandleDeleteGearItem)
	router.Get("/admin/users", h.HandleListUsers)
	router.Delete("/admin/users/:id", h.HandleDeleteUser)
}

// HandleListGear lists gear items for the admin panel.
func (h *AdminHandler) HandleListGear(c *fiber.Ctx) error {
	query := services.CatalogQuery{
		Category: c.Query("category"),
		Search:   c.Query("q"),
		Sort:     c.Query("sort", "name_asc"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}

	page, err := h.catalogService.ListGear(query)
	if err != nil {
		log.Printf("Error listing gear for admin: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve gear items",
			"error":   err.Error(),
		})
	}
	return c.JSON(page)
}

// HandleCreateGearItem adds a new gear item to the catalog.
func (h *AdminHandler) HandleCreateGearItem(c *fiber.Ctx) error {
	var item models.GearItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(item); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.catalogService.CreateGearItem(&item); err != nil {
		log.Printf("Error creating gear item: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create gear item",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateGearItem applies a partial edit to a gear item.
func (h *AdminHandler) HandleUpdateGearItem(c *fiber.Ctx) error {
	var update models.GearItemUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	itemID := c.Params("id")
	item, err := h.catalogService.UpdateGearItem(itemID, update)
	if err != nil {
		log.Printf("Error updating gear item %s: %v", itemID, err)
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Gear item not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update gear item",
			"error":   err.Error(),
		})
	}
	return c.JSON(item)
}

// HandleDeleteGearItem removes a gear item from the catalog.
func (h *AdminHandler) HandleDeleteGearItem(c *fiber.Ctx) error {
	itemID := c.Params("id")
	if err := h.catalogService.DeleteGearItem(itemID); err != nil {
		log.Printf("Error deleting gear item %s: %v", itemID, err)
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Gear item not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete gear item",
			"error":   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListUsers lists registered users for the admin panel.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	page, err := h.userService.ListUsers(
		c.Query("q"),
		c.Query("sort", "admin_first"),
		c.QueryInt("page", 1),
		c.QueryInt("page_size", 20),
	)
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve users",
			"error":   err.Error(),
		})
	}
	return c.JSON(page)
}

// HandleDeleteUser removes a user account.
func (h *AdminHandler) HandleDeleteUser(c *fiber.Ctx) error {
	requestedBy, _ := c.Locals("user_id").(string)
	targetID := c.Params("id")

	if err := h.userService.DeleteUser(requestedBy, targetID); err != nil {
		log.Printf("Error deleting user %s: %v", targetID, err)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		case strings.Contains(err.Error(), "cannot delete"):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not delete user",
				"error":   err.Error(),
			})
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}
