package repositories

import (
	"fmt"
	"sync"
	"time"

	"gearstore/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// Place can optionally clear a paired MockCartRepository so the in-memory
// wiring matches the transactional GORM behavior.
type MockOrderRepository struct {
	orders map[string]models.Order
	carts  *MockCartRepository
	mu     sync.RWMutex

	// PlaceErr, when set, makes Place fail without recording the order.
	PlaceErr error
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
// carts may be nil when cart clearing is not under test.
func NewMockOrderRepository(carts *MockCartRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		carts:  carts,
	}
}

// GetByUser returns all orders placed by a user.
func (r *MockOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

// GetByID returns an order by its ID, scoped to its owner.
func (r *MockOrderRepository) GetByID(userID, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok || order.UserID != userID {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return &order, nil
}

// Place records the order and empties the owner's cart.
func (r *MockOrderRepository) Place(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.PlaceErr != nil {
		return r.PlaceErr
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	r.orders[order.ID] = *order
	if r.carts != nil {
		return r.carts.ClearUser(order.UserID)
	}
	return nil
}
