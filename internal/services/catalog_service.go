package services

import (
	"gearstore/internal/models"
	"gearstore/internal/repositories"
)

// Catalog paging bounds, matching the public API defaults.
const (
	DefaultPageSize = 12
	MaxPageSize     = 1000
)

// CatalogQuery describes a catalog listing request at the service level.
type CatalogQuery struct {
	Category string
	Search   string
	Sort     string
	Page     int
	PageSize int
}

// CatalogService handles business logic for browsing and managing the
// gear catalog.
type CatalogService struct {
	repo repositories.GearRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.GearRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// Categories lists the catalog's gear categories.
func (s *CatalogService) Categories() []string {
	return models.Categories()
}

// ListGear returns one page of gear items with filtering, search and
// sorting applied. Page numbers past the last page are clamped to it.
func (s *CatalogService) ListGear(query CatalogQuery) (*models.PagedGear, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	repoQuery := repositories.GearQuery{
		Category: query.Category,
		Search:   query.Search,
		Sort:     query.Sort,
		Offset:   (page - 1) * pageSize,
		Limit:    pageSize,
	}
	items, total, err := s.repo.List(repoQuery)
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		pages = 1
	}
	if page > pages {
		// Past the last page: clamp and fetch that page instead.
		page = pages
		repoQuery.Offset = (page - 1) * pageSize
		items, total, err = s.repo.List(repoQuery)
		if err != nil {
			return nil, err
		}
	}

	return &models.PagedGear{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    pages,
	}, nil
}

// GetGearItem retrieves a single gear item by its ID.
func (s *CatalogService) GetGearItem(id string) (*models.GearItem, error) {
	return s.repo.GetByID(id)
}

// CreateGearItem adds a new gear item to the catalog.
func (s *CatalogService) CreateGearItem(item *models.GearItem) error {
	return s.repo.Create(item)
}

// UpdateGearItem applies a partial admin edit: only the update's non-nil
// fields replace the stored values. The updated item is returned.
func (s *CatalogService) UpdateGearItem(id string, update models.GearItemUpdate) (*models.GearItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		item.Name = *update.Name
	}
	if update.Category != nil {
		item.Category = *update.Category
	}
	if update.Brand != nil {
		item.Brand = *update.Brand
	}
	if update.Price != nil {
		item.Price = *update.Price
	}
	if update.InStock != nil {
		item.InStock = *update.InStock
	}
	if update.Rating != nil {
		item.Rating = update.Rating
	}
	if update.Description != nil {
		item.Description = *update.Description
	}
	if update.ImageURL != nil {
		item.ImageURL = *update.ImageURL
	}

	if err := s.repo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteGearItem removes a gear item from the catalog.
func (s *CatalogService) DeleteGearItem(id string) error {
	return s.repo.Delete(id)
}
