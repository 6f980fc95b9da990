package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gearstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMGearRepository is a GORM implementation of GearRepository.
type GORMGearRepository struct {
	db *gorm.DB
}

// NewGORMGearRepository creates a new instance of GORMGearRepository.
func NewGORMGearRepository(db *gorm.DB) *GORMGearRepository {
	return &GORMGearRepository{
		db: db,
	}
}

// List retrieves one page of gear items matching the query, plus the total
// match count before paging.
func (r *GORMGearRepository) List(query GearQuery) ([]models.GearItem, int64, error) {
	base := r.db.Model(&models.GearItem{})
	if query.Category != "" {
		base = base.Where("category = ?", query.Category)
	}
	search := strings.ToLower(strings.TrimSpace(query.Search))
	if search != "" {
		base = base.Where("lower(name) LIKE ?", "%"+search+"%")
	}
	// Reusable session so both the count and the page query share the filters.
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count gear items: %w", err)
	}

	ordered := applyGearSort(base, query.Sort, search)

	var items []models.GearItem
	if err := ordered.Offset(query.Offset).Limit(query.Limit).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list gear items: %w", err)
	}
	return items, total, nil
}

// applyGearSort maps a sort keyword onto an ORDER BY clause. Unknown sorts
// fall back to relevance: match position then name length when searching,
// alphabetical otherwise.
func applyGearSort(tx *gorm.DB, sort, search string) *gorm.DB {
	switch sort {
	case SortPriceAsc:
		return tx.Order("price asc, lower(name) asc")
	case SortPriceDesc:
		return tx.Order("price desc, lower(name) asc")
	case SortNameAsc:
		return tx.Order("lower(name) asc")
	case SortNameDesc:
		return tx.Order("lower(name) desc")
	case SortRatingDesc:
		// NULL ratings sort after any numeric rating on desc.
		return tx.Order("rating desc, price asc")
	case SortInStock:
		return tx.Order("in_stock desc, price asc")
	case SortNewest:
		return tx.Order("created_at desc")
	case SortOldest:
		return tx.Order("created_at asc")
	default: // relevance
		if search != "" {
			return tx.Clauses(clause.OrderBy{
				Expression: clause.Expr{
					SQL:                "instr(lower(name), ?) asc, length(name) asc",
					Vars:               []interface{}{search},
					WithoutParentheses: true,
				},
			})
		}
		return tx.Order("lower(name) asc")
	}
}

// GetByID retrieves a single gear item by its ID from the database.
func (r *GORMGearRepository) GetByID(id string) (*models.GearItem, error) {
	var item models.GearItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("gear item with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get gear item by ID %s: %w", id, err)
	}
	return &item, nil
}

// Create creates a new gear item in the database.
func (r *GORMGearRepository) Create(item *models.GearItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create gear item: %w", err)
	}
	return nil
}

// Update updates an existing gear item in the database.
func (r *GORMGearRepository) Update(item *models.GearItem) error {
	res := r.db.Save(item) // Save writes all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update gear item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("gear item with ID %s: %w", item.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a gear item by its ID from the database.
func (r *GORMGearRepository) Delete(id string) error {
	res := r.db.Delete(&models.GearItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete gear item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("gear item with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
