package services

import (
	"gearstore/internal/models"
	"gearstore/internal/repositories"
)

// OrderService handles read access to placed orders. Orders are created
// only through CartService.Checkout and never change afterwards.
type OrderService struct {
	orderRepo repositories.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
	}
}

// GetOrdersForUser retrieves all orders placed by a user.
func (s *OrderService) GetOrdersForUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// GetOrder retrieves a single order, scoped to its owner.
func (s *OrderService) GetOrder(userID, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(userID, id)
}
