package repositories

import (
	"gearstore/internal/models"
)

// Catalog sort orders accepted by GearQuery.
const (
	SortRelevance  = "relevance"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortNameAsc    = "name_asc"
	SortNameDesc   = "name_desc"
	SortRatingDesc = "rating_desc"
	SortInStock    = "in_stock"
	SortNewest     = "newest"
	SortOldest     = "oldest"
)

// GearQuery describes a catalog listing request: optional category filter,
// case-insensitive substring search on the name, sort order and paging
// window. Offset/Limit are absolute row positions; the service layer
// translates page numbers into them.
type GearQuery struct {
	Category string
	Search   string
	Sort     string
	Offset   int
	Limit    int
}

// GearRepository defines the interface for gear item data access.
type GearRepository interface {
	List(query GearQuery) ([]models.GearItem, int64, error)
	GetByID(id string) (*models.GearItem, error)
	Create(item *models.GearItem) error
	Update(item *models.GearItem) error
	Delete(id string) error
}
