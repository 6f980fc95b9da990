package cart

import (
	"errors"
	"fmt"
	"log"
)

// CredentialSource reports whether a valid credential is currently held
// and, if so, which user it belongs to. It is queried at call time so the
// Store never caches authentication state.
type CredentialSource interface {
	UserID() (string, bool)
}

// ServerCart is the server-side cart contract the Store delegates to for
// authenticated owners. Lines are addressed by their server-assigned line
// ID; adds merge by gear item ID.
type ServerCart interface {
	Get(userID string) ([]Line, error)
	Add(userID, gearItemID string, quantity int) ([]Line, error)
	SetQuantity(userID, lineID string, quantity int) ([]Line, error)
	Remove(userID, lineID string) ([]Line, error)
	Clear(userID string) error
}

// Store presents one read/write cart regardless of authentication state.
// The backing store is picked per call: the server cart when a credential
// is present, the local blob otherwise. Reads degrade to the local store
// on server failure so the caller never hard-fails on a transient error.
type Store struct {
	creds  CredentialSource
	local  *LocalStore
	server ServerCart
}

// NewStore creates a Store over the given credential source and backends.
func NewStore(creds CredentialSource, local *LocalStore, server ServerCart) *Store {
	return &Store{
		creds:  creds,
		local:  local,
		server: server,
	}
}

// GetCart returns the current cart's hydrated lines. A server fetch that
// fails for any reason falls back to the local cart instead of erroring.
func (s *Store) GetCart() ([]Line, error) {
	if userID, ok := s.creds.UserID(); ok {
		lines, err := s.server.Get(userID)
		if err == nil {
			return lines, nil
		}
		log.Printf("server cart fetch failed, falling back to local cart: %v", err)
	}
	return s.local.Lines()
}

// AddItem merges a gear item into the current cart and returns the updated
// lines. When authenticated the server's returned state is ground truth;
// if the server fails for a reason other than a bad item or quantity, the
// add degrades to a local mutation as a last resort.
func (s *Store) AddItem(gearItemID string, quantity int) ([]Line, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity %d: %w", quantity, ErrInvalidQuantity)
	}
	if userID, ok := s.creds.UserID(); ok {
		lines, err := s.server.Add(userID, gearItemID, quantity)
		if err == nil {
			return lines, nil
		}
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidQuantity) {
			return nil, err
		}
		log.Printf("server cart add failed, degrading to local cart: %v", err)
	}
	return s.local.Add(gearItemID, quantity)
}

// UpdateQuantity sets a line's quantity outright. A quantity of zero or
// less removes the line. Authenticated lines are addressed by lineID;
// anonymous lines by gear item ID.
func (s *Store) UpdateQuantity(gearItemID string, quantity int, lineID string) ([]Line, error) {
	if quantity <= 0 {
		return s.RemoveItem(gearItemID, lineID)
	}
	if userID, ok := s.creds.UserID(); ok {
		if lineID == "" {
			return nil, fmt.Errorf("line ID required for server cart update: %w", ErrNotFound)
		}
		return s.server.SetQuantity(userID, lineID, quantity)
	}
	return s.local.SetQuantity(gearItemID, quantity)
}

// RemoveItem deletes a line from the current cart.
func (s *Store) RemoveItem(gearItemID, lineID string) ([]Line, error) {
	if userID, ok := s.creds.UserID(); ok {
		if lineID == "" {
			return nil, fmt.Errorf("line ID required for server cart removal: %w", ErrNotFound)
		}
		return s.server.Remove(userID, lineID)
	}
	return s.local.Remove(gearItemID)
}

// Clear empties the server cart (when authenticated) and removes any local
// leftover state. The local blob is removed even if the server clear
// fails; the server error is still reported.
func (s *Store) Clear() error {
	var serverErr error
	if userID, ok := s.creds.UserID(); ok {
		serverErr = s.server.Clear(userID)
	}
	if err := s.local.Clear(); err != nil {
		return err
	}
	return serverErr
}

// Total recomputes the cart total from the current line list.
func (s *Store) Total() (float64, error) {
	lines, err := s.GetCart()
	if err != nil {
		return 0, err
	}
	return Total(lines), nil
}

// Count recomputes the number of units in the cart from the current line
// list.
func (s *Store) Count() (int, error) {
	lines, err := s.GetCart()
	if err != nil {
		return 0, err
	}
	return Count(lines), nil
}
