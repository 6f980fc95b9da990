package repositories

import (
	"errors"
	"fmt"

	"gearstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByUser retrieves all cart rows for a user in insertion order.
func (r *GORMCartRepository) GetByUser(userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Where("user_id = ?", userID).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return items, nil
}

// GetLine retrieves the user's cart row for one gear item, if present.
func (r *GORMCartRepository) GetLine(userID, gearItemID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.First(&item, "user_id = ? AND gear_item_id = ?", userID, gearItemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart line for gear item %s: %w", gearItemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart line for gear item %s: %w", gearItemID, err)
	}
	return &item, nil
}

// GetByLineID retrieves one cart row by its server-assigned line ID. The
// owner is part of the lookup so one user cannot touch another's lines.
func (r *GORMCartRepository) GetByLineID(userID, lineID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.First(&item, "id = ? AND user_id = ?", lineID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart line with ID %s: %w", lineID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart line %s: %w", lineID, err)
	}
	return &item, nil
}

// Create inserts a new cart row.
func (r *GORMCartRepository) Create(item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart line: %w", err)
	}
	return nil
}

// Save writes back an existing cart row.
func (r *GORMCartRepository) Save(item *models.CartItem) error {
	res := r.db.Save(item)
	if res.Error != nil {
		return fmt.Errorf("failed to save cart line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart line with ID %s: %w", item.ID, ErrNotFound)
	}
	return nil
}

// DeleteLine removes one cart row by line ID, scoped to the owner.
func (r *GORMCartRepository) DeleteLine(userID, lineID string) error {
	res := r.db.Delete(&models.CartItem{}, "id = ? AND user_id = ?", lineID, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart line %s: %w", lineID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart line with ID %s: %w", lineID, ErrNotFound)
	}
	return nil
}

// ClearUser removes every cart row belonging to a user.
func (r *GORMCartRepository) ClearUser(userID string) error {
	if err := r.db.Delete(&models.CartItem{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to clear cart for user %s: %w", userID, err)
	}
	return nil
}
