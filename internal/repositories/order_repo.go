package repositories

import (
	"gearstore/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// immutable once placed, so there is no update operation.
type OrderRepository interface {
	GetByUser(userID string) ([]models.Order, error)
	GetByID(userID, id string) (*models.Order, error)
	// Place persists the order and empties the owner's cart as one unit:
	// either both happen or neither does.
	Place(order *models.Order) error
}
