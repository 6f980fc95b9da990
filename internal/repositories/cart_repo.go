package repositories

import "gearstore/internal/models"

// CartRepository defines the interface for server-side cart data access.
// All operations are scoped to a single owner; rows come back in insertion
// order so the cart keeps a stable on-screen ordering.
type CartRepository interface {
	GetByUser(userID string) ([]models.CartItem, error)
	GetLine(userID, gearItemID string) (*models.CartItem, error)
	GetByLineID(userID, lineID string) (*models.CartItem, error)
	Create(item *models.CartItem) error
	Save(item *models.CartItem) error
	DeleteLine(userID, lineID string) error
	ClearUser(userID string) error
}
