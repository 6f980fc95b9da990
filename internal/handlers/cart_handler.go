package handlers

import (
	"errors"
	"log"

	"gearstore/internal/cart"
	"gearstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the authenticated server-side
// cart, including the login-time merge of anonymous carts and checkout.
type CartHandler struct {
	cartService *services.CartService
	validate    *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the cart routes. All of them require an
// authenticated user; the surrounding router applies the JWT middleware.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddItem)
	cartRoutes.Post("/merge", h.HandleMerge)
	cartRoutes.Patch("/:id", h.HandleUpdateQuantity)
	cartRoutes.Delete("/:id", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClear)
	router.Post("/checkout", h.HandleCheckout)
}

// cartResponse is the envelope returned by every cart mutation: the full
// updated cart plus derived total and unit count.
func cartResponse(lines []cart.Line) fiber.Map {
	if lines == nil {
		lines = []cart.Line{}
	}
	return fiber.Map{
		"items": lines,
		"total": cart.Total(lines),
		"count": cart.Count(lines),
	}
}

func cartErrorStatus(err error) int {
	switch {
	case errors.Is(err, cart.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrEmptyCart):
		return fiber.StatusBadRequest
	case errors.Is(err, cart.ErrNotAuthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, cart.ErrRemoteUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func userIDFromCtx(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

// HandleGetCart returns the user's cart with its items and total.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	lines, err := h.cartService.Get(userIDFromCtx(c))
	if err != nil {
		log.Printf("Error getting cart: %v", err)
		return c.Status(cartErrorStatus(err)).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(cartResponse(lines))
}

// AddItemRequest represents the request body for adding a cart item.
type AddItemRequest struct {
	GearItemID string `json:"gear_item_id" validate:"required"`
	Quantity   int    `json:"quantity"`
}

// HandleAddItem merges an item into the cart. A missing quantity defaults
// to one.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	lines, err := h.cartService.Add(userIDFromCtx(c), req.GearItemID, req.Quantity)
	if err != nil {
		log.Printf("Error adding cart item %s: %v", req.GearItemID, err)
		return c.Status(cartErrorStatus(err)).JSON(fiber.Map{
			"message": "Could not add item to cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(cartResponse(lines))
}

// UpdateQuantityRequest represents the request body for a quantity update.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleUpdateQuantity sets a line's quantity. Zero or less removes the
// line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	lineID := c.Params("id")
	lines, err := h.cartService.SetQuantity(userIDFromCtx(c), lineID, req.Quantity)
	if err != nil {
		log.Printf("Error updating cart line %s: %v", lineID, err)
		return c.Status(cartErrorStatus(err)).JSON(fiber.Map{
			"message": "Could not update cart item",
			"error":   err.Error(),
		})
	}
	return c.JSON(cartResponse(lines))
}

// HandleRemoveItem deletes one cart line by its line ID.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	lineID := c.Params("id")
	lines, err := h.cartService.Remove(userIDFromCtx(c), lineID)
	if err != nil {
		log.Printf("Error removing cart line %s: %v", lineID, err)
		return c.Status(cartErrorStatus(err)).JSON(fiber.Map{
			"message": "Could not remove cart item",
			"error":   err.Error(),
		})
	}
	return c.JSON(cartResponse(lines))
}

// HandleClear empties the cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	if err := h.cartService.Clear(userIDFromCtx(c)); err != nil {
		log.Printf("Error clearing cart: %v", err)
		return c.Status(cartErrorStatus(err)).JSON(fiber.Map{
			"message": "Could not clear cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(cartResponse(nil))
}

// MergeRequest carries the anonymous cart entries a client held before
// logging in.
type MergeRequest struct {
	Items []cart.Entry `json:"items"`
}

// HandleMerge folds the client's anonymous cart into the server cart.
// Individual entries may fail without failing the request; the report
// lists them so the client can surface a message.
func (h *CartHandler) HandleMerge(c *fiber.Ctx) error {
	var req MergeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	report, lines := h.cartService.Merge(userIDFromCtx(c), req.Items)
	resp := cartResponse(lines)
	resp["report"] = report
	return c.JSON(resp)
}

// HandleCheckout converts the cart into an order and empties the cart.
// Checkout errors are always surfaced, never silently degraded.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	order, err := h.cartService.Checkout(userIDFromCtx(c))
	if err != nil {
		log.Printf("Error during checkout: %v", err)
		return c.Status(cartErrorStatus(err)).JSON(fiber.Map{
			"message": "Checkout failed",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}
