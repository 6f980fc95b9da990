package cart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gearstore/internal/models"
)

// Entry is one persisted line of the anonymous cart. Display fields are
// duplicated from the catalog so the cart can be shown without a refetch.
type Entry struct {
	GearItemID string  `json:"gear_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Brand      string  `json:"brand"`
	Category   string  `json:"category"`
	ImageURL   string  `json:"image_url,omitempty"`
	Quantity   int     `json:"quantity"`
}

type localBlob struct {
	Items []Entry `json:"items"`
}

// GearResolver resolves a gear item ID to its current catalog record.
type GearResolver interface {
	GetByID(id string) (*models.GearItem, error)
}

// LocalStore is the anonymous cart backing: a single JSON blob on the
// local device. It is the sole persistence for anonymous carts; Clear
// removes the blob entirely, leaving no partial state behind.
type LocalStore struct {
	path string
	gear GearResolver
}

// NewLocalStore creates a LocalStore persisting to the given file path.
func NewLocalStore(path string, gear GearResolver) *LocalStore {
	return &LocalStore{
		path: path,
		gear: gear,
	}
}

func (s *LocalStore) load() (*localBlob, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &localBlob{}, nil
		}
		return nil, fmt.Errorf("failed to read local cart %s: %w", s.path, err)
	}
	var blob localBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("failed to decode local cart %s: %w", s.path, err)
	}
	return &blob, nil
}

func (s *LocalStore) save(blob *localBlob) error {
	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode local cart: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create local cart directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write local cart %s: %w", s.path, err)
	}
	return nil
}

// Entries returns the raw persisted entries in order.
func (s *LocalStore) Entries() ([]Entry, error) {
	blob, err := s.load()
	if err != nil {
		return nil, err
	}
	return blob.Items, nil
}

// Lines returns the cart as hydrated lines built from the persisted
// display fields. Anonymous lines carry no server line ID.
func (s *LocalStore) Lines() ([]Line, error) {
	blob, err := s.load()
	if err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(blob.Items))
	for _, e := range blob.Items {
		lines = append(lines, Line{
			GearItemID: e.GearItemID,
			Quantity:   e.Quantity,
			Gear: models.GearItem{
				ID:       e.GearItemID,
				Name:     e.Name,
				Category: e.Category,
				Brand:    e.Brand,
				Price:    e.Price,
				ImageURL: e.ImageURL,
			},
		})
	}
	return lines, nil
}

// Add merges a gear item into the anonymous cart: an existing entry for
// the item has its quantity incremented, otherwise a new entry is appended
// with display fields captured from the catalog.
func (s *LocalStore) Add(gearItemID string, quantity int) ([]Line, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity %d: %w", quantity, ErrInvalidQuantity)
	}
	blob, err := s.load()
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range blob.Items {
		if blob.Items[i].GearItemID == gearItemID {
			blob.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		item, err := s.gear.GetByID(gearItemID)
		if err != nil {
			return nil, fmt.Errorf("gear item %s: %w", gearItemID, ErrNotFound)
		}
		blob.Items = append(blob.Items, Entry{
			GearItemID: item.ID,
			Name:       item.Name,
			Price:      item.Price,
			Brand:      item.Brand,
			Category:   item.Category,
			ImageURL:   item.ImageURL,
			Quantity:   quantity,
		})
	}

	if err := s.save(blob); err != nil {
		return nil, err
	}
	return s.Lines()
}

// SetQuantity replaces the quantity of the entry for a gear item. A
// quantity of zero or less removes the entry instead.
func (s *LocalStore) SetQuantity(gearItemID string, quantity int) ([]Line, error) {
	if quantity <= 0 {
		return s.Remove(gearItemID)
	}
	blob, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range blob.Items {
		if blob.Items[i].GearItemID == gearItemID {
			blob.Items[i].Quantity = quantity
			if err := s.save(blob); err != nil {
				return nil, err
			}
			return s.Lines()
		}
	}
	return nil, fmt.Errorf("cart entry for gear item %s: %w", gearItemID, ErrNotFound)
}

// Remove deletes the entry for a gear item.
func (s *LocalStore) Remove(gearItemID string) ([]Line, error) {
	blob, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range blob.Items {
		if blob.Items[i].GearItemID == gearItemID {
			blob.Items = append(blob.Items[:i], blob.Items[i+1:]...)
			if err := s.save(blob); err != nil {
				return nil, err
			}
			return s.Lines()
		}
	}
	return nil, fmt.Errorf("cart entry for gear item %s: %w", gearItemID, ErrNotFound)
}

// Clear deletes the blob file. A missing file counts as already cleared.
func (s *LocalStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove local cart %s: %w", s.path, err)
	}
	return nil
}
