package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"gearstore/internal/models"

	"github.com/google/uuid"
)

// MockGearRepository is an in-memory implementation of GearRepository.
type MockGearRepository struct {
	items map[string]models.GearItem
	order []string // insertion order, stands in for created_at ordering
	mu    sync.RWMutex
}

// NewMockGearRepository creates a new instance of MockGearRepository.
func NewMockGearRepository() *MockGearRepository {
	return &MockGearRepository{
		items: make(map[string]models.GearItem),
	}
}

// List filters, sorts and pages the in-memory catalog with the same
// semantics as the GORM implementation.
func (r *MockGearRepository) List(query GearQuery) ([]models.GearItem, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(query.Search))
	matched := make([]models.GearItem, 0, len(r.items))
	for _, id := range r.order {
		item := r.items[id]
		if query.Category != "" && item.Category != query.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Name), search) {
			continue
		}
		matched = append(matched, item)
	}

	sortGearItems(matched, query.Sort, search)

	total := int64(len(matched))
	start := query.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if query.Limit > 0 && start+query.Limit < end {
		end = start + query.Limit
	}
	return matched[start:end], total, nil
}

func sortGearItems(items []models.GearItem, sortKey, search string) {
	lower := func(i models.GearItem) string { return strings.ToLower(i.Name) }
	switch sortKey {
	case SortPriceAsc:
		sort.SliceStable(items, func(a, b int) bool {
			if items[a].Price != items[b].Price {
				return items[a].Price < items[b].Price
			}
			return lower(items[a]) < lower(items[b])
		})
	case SortPriceDesc:
		sort.SliceStable(items, func(a, b int) bool {
			if items[a].Price != items[b].Price {
				return items[a].Price > items[b].Price
			}
			return lower(items[a]) < lower(items[b])
		})
	case SortNameAsc:
		sort.SliceStable(items, func(a, b int) bool { return lower(items[a]) < lower(items[b]) })
	case SortNameDesc:
		sort.SliceStable(items, func(a, b int) bool { return lower(items[a]) > lower(items[b]) })
	case SortRatingDesc:
		sort.SliceStable(items, func(a, b int) bool {
			ra, rb := items[a].Rating, items[b].Rating
			switch {
			case ra == nil && rb == nil:
				return items[a].Price < items[b].Price
			case ra == nil:
				return false // unrated items sort last
			case rb == nil:
				return true
			case *ra != *rb:
				return *ra > *rb
			}
			return items[a].Price < items[b].Price
		})
	case SortInStock:
		sort.SliceStable(items, func(a, b int) bool {
			if items[a].InStock != items[b].InStock {
				return items[a].InStock
			}
			return items[a].Price < items[b].Price
		})
	case SortNewest:
		reverseGearItems(items)
	case SortOldest:
		// insertion order already
	default: // relevance
		if search != "" {
			sort.SliceStable(items, func(a, b int) bool {
				pa := strings.Index(lower(items[a]), search)
				pb := strings.Index(lower(items[b]), search)
				if pa != pb {
					return pa < pb
				}
				return len(items[a].Name) < len(items[b].Name)
			})
		} else {
			sort.SliceStable(items, func(a, b int) bool { return lower(items[a]) < lower(items[b]) })
		}
	}
}

func reverseGearItems(items []models.GearItem) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

// GetByID returns a gear item by its ID.
func (r *MockGearRepository) GetByID(id string) (*models.GearItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("gear item with ID %s: %w", id, ErrNotFound)
	}
	return &item, nil
}

// Create adds a new gear item.
func (r *MockGearRepository) Create(item *models.GearItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if _, exists := r.items[item.ID]; !exists {
		r.order = append(r.order, item.ID)
	}
	r.items[item.ID] = *item
	return nil
}

// Update modifies an existing gear item.
func (r *MockGearRepository) Update(item *models.GearItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return fmt.Errorf("gear item with ID %s: %w", item.ID, ErrNotFound)
	}
	r.items[item.ID] = *item
	return nil
}

// Delete removes a gear item by its ID.
func (r *MockGearRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("gear item with ID %s: %w", id, ErrNotFound)
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
