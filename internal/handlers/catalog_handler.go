package handlers

import (
	"errors"
	"log"

	"gearstore/internal/repositories"
	"gearstore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles public catalog browsing requests.
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// RegisterRoutes registers the public catalog routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/categories", h.HandleListCategories)
	router.Get("/gear", h.HandleListGear)
	router.Get("/gear/:id", h.HandleGetGearItem)
}

// HandleListCategories lists the available gear categories.
func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	return c.JSON(h.service.Categories())
}

// HandleListGear lists gear items with filtering, search, sorting and
// pagination via query parameters.
func (h *CatalogHandler) HandleListGear(c *fiber.Ctx) error {
	query := services.CatalogQuery{
		Category: c.Query("category"),
		Search:   c.Query("q"),
		Sort:     c.Query("sort", "relevance"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", services.DefaultPageSize),
	}

	page, err := h.service.ListGear(query)
	if err != nil {
		log.Printf("Error listing gear: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve gear items",
			"error":   err.Error(),
		})
	}
	return c.JSON(page)
}

// HandleGetGearItem retrieves a single gear item by its ID.
func (h *CatalogHandler) HandleGetGearItem(c *fiber.Ctx) error {
	itemID := c.Params("id")
	item, err := h.service.GetGearItem(itemID)
	if err != nil {
		log.Printf("Error getting gear item %s: %v", itemID, err)
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Gear item not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve gear item",
			"error":   err.Error(),
		})
	}
	return c.JSON(item)
}
