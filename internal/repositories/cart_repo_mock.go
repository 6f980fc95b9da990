package repositories

import (
	"fmt"
	"sync"

	"gearstore/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
// Rows keep their insertion order, like the GORM implementation's
// created_at ordering.
type MockCartRepository struct {
	items []models.CartItem
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{}
}

// GetByUser returns all cart rows for a user in insertion order.
func (r *MockCartRepository) GetByUser(userID string) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.CartItem
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

// GetLine returns the user's cart row for one gear item.
func (r *MockCartRepository) GetLine(userID, gearItemID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.UserID == userID && item.GearItemID == gearItemID {
			found := item
			return &found, nil
		}
	}
	return nil, fmt.Errorf("cart line for gear item %s: %w", gearItemID, ErrNotFound)
}

// GetByLineID returns one cart row by its line ID, scoped to the owner.
func (r *MockCartRepository) GetByLineID(userID, lineID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == lineID && item.UserID == userID {
			found := item
			return &found, nil
		}
	}
	return nil, fmt.Errorf("cart line with ID %s: %w", lineID, ErrNotFound)
}

// Create appends a new cart row.
func (r *MockCartRepository) Create(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.items = append(r.items, *item)
	return nil
}

// Save writes back an existing cart row.
func (r *MockCartRepository) Save(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == item.ID {
			r.items[i] = *item
			return nil
		}
	}
	return fmt.Errorf("cart line with ID %s: %w", item.ID, ErrNotFound)
}

// DeleteLine removes one cart row by line ID, scoped to the owner.
func (r *MockCartRepository) DeleteLine(userID, lineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.ID == lineID && item.UserID == userID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("cart line with ID %s: %w", lineID, ErrNotFound)
}

// ClearUser removes every cart row belonging to a user.
func (r *MockCartRepository) ClearUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	for _, item := range r.items {
		if item.UserID != userID {
			kept = append(kept, item)
		}
	}
	r.items = kept
	return nil
}
