package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gearstore/internal/cart"
	"gearstore/internal/models"
	"gearstore/internal/repositories"

	"github.com/google/uuid"
)

// EventPublisher publishes domain events to the message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// CartService owns the server-side cart of authenticated users. It
// satisfies cart.ServerCart, so the unified cart.Store can delegate to it.
type CartService struct {
	cartRepo  repositories.CartRepository
	gearRepo  repositories.GearRepository
	orderRepo repositories.OrderRepository
	events    EventPublisher // may be nil
}

// NewCartService creates a new CartService. events may be nil when no
// broker is configured.
func NewCartService(cartRepo repositories.CartRepository, gearRepo repositories.GearRepository, orderRepo repositories.OrderRepository, events EventPublisher) *CartService {
	return &CartService{
		cartRepo:  cartRepo,
		gearRepo:  gearRepo,
		orderRepo: orderRepo,
		events:    events,
	}
}

// asCartError translates repository failures into the cart package's
// error kinds while keeping the original message.
func asCartError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%v: %w", err, cart.ErrNotFound)
	}
	return fmt.Errorf("%v: %w", err, cart.ErrRemoteUnavailable)
}

// Get returns the user's cart as hydrated lines in insertion order. Rows
// whose gear item has been removed from the catalog are skipped.
func (s *CartService) Get(userID string) ([]cart.Line, error) {
	rows, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, asCartError(err)
	}
	lines := make([]cart.Line, 0, len(rows))
	for _, row := range rows {
		item, err := s.gearRepo.GetByID(row.GearItemID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return nil, asCartError(err)
		}
		lines = append(lines, cart.Line{
			LineID:     row.ID,
			GearItemID: row.GearItemID,
			Quantity:   row.Quantity,
			Gear:       *item,
		})
	}
	return lines, nil
}

// Add merges a gear item into the user's cart: an existing line for the
// item has its quantity incremented, otherwise a new line is created. The
// updated cart is returned.
func (s *CartService) Add(userID, gearItemID string, quantity int) ([]cart.Line, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity %d: %w", quantity, cart.ErrInvalidQuantity)
	}
	if _, err := s.gearRepo.GetByID(gearItemID); err != nil {
		return nil, asCartError(err)
	}

	existing, err := s.cartRepo.GetLine(userID, gearItemID)
	switch {
	case err == nil:
		existing.Quantity += quantity
		if err := s.cartRepo.Save(existing); err != nil {
			return nil, asCartError(err)
		}
	case errors.Is(err, repositories.ErrNotFound):
		row := &models.CartItem{
			ID:         uuid.New().String(),
			UserID:     userID,
			GearItemID: gearItemID,
			Quantity:   quantity,
		}
		if err := s.cartRepo.Create(row); err != nil {
			return nil, asCartError(err)
		}
	default:
		return nil, asCartError(err)
	}
	return s.Get(userID)
}

// SetQuantity replaces a line's quantity. A quantity of zero or less
// removes the line instead of storing a non-positive value.
func (s *CartService) SetQuantity(userID, lineID string, quantity int) ([]cart.Line, error) {
	if quantity <= 0 {
		return s.Remove(userID, lineID)
	}
	row, err := s.cartRepo.GetByLineID(userID, lineID)
	if err != nil {
		return nil, asCartError(err)
	}
	row.Quantity = quantity
	if err := s.cartRepo.Save(row); err != nil {
		return nil, asCartError(err)
	}
	return s.Get(userID)
}

// Remove deletes one line by its server-assigned line ID.
func (s *CartService) Remove(userID, lineID string) ([]cart.Line, error) {
	if err := s.cartRepo.DeleteLine(userID, lineID); err != nil {
		return nil, asCartError(err)
	}
	return s.Get(userID)
}

// Clear deletes every line of the user's cart.
func (s *CartService) Clear(userID string) error {
	return asCartError(s.cartRepo.ClearUser(userID))
}

// Merge folds a batch of anonymous cart entries into the user's server
// cart with Add's merge semantics. A failing entry is recorded in the
// report and skipped; the merge itself never fails.
func (s *CartService) Merge(userID string, entries []cart.Entry) (*cart.MergeReport, []cart.Line) {
	report := &cart.MergeReport{}
	for _, e := range entries {
		if _, err := s.Add(userID, e.GearItemID, e.Quantity); err != nil {
			log.Printf("cart merge for user %s: gear item %s x%d not synced: %v", userID, e.GearItemID, e.Quantity, err)
			report.Failures = append(report.Failures, cart.MergeFailure{
				GearItemID: e.GearItemID,
				Quantity:   e.Quantity,
				Reason:     err.Error(),
			})
			continue
		}
		report.Merged++
	}

	lines, err := s.Get(userID)
	if err != nil {
		log.Printf("cart merge for user %s: failed to fetch merged cart: %v", userID, err)
		lines = nil
	}
	return report, lines
}

// Checkout snapshots the user's cart into an immutable order, capturing
// each item's price at this instant, and empties the cart. Persisting the
// order and clearing the cart happen in one transaction, so a failure
// leaves the cart untouched.
func (s *CartService) Checkout(userID string) (*models.Order, error) {
	lines, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, cart.ErrEmptyCart
	}

	order := &models.Order{
		ID:          uuid.New().String(),
		UserID:      userID,
		TotalAmount: cart.Total(lines),
		CreatedAt:   time.Now(),
	}
	for _, l := range lines {
		order.Items = append(order.Items, models.OrderItem{
			OrderID:    order.ID,
			GearItemID: l.GearItemID,
			Quantity:   l.Quantity,
			Price:      l.Gear.Price,
		})
	}

	if err := s.orderRepo.Place(order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.publishOrderCreated(order)
	return order, nil
}

// publishOrderCreated emits an order.created event. Publishing is best
// effort: the order is already committed, so a broker failure only logs.
func (s *CartService) publishOrderCreated(order *models.Order) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"order_id":   order.ID,
		"user_id":    order.UserID,
		"total":      order.TotalAmount,
		"item_count": len(order.Items),
		"created_at": order.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("failed to marshal order created event: %v", err)
		return
	}
	if err := s.events.Publish("order", "order.created", body); err != nil {
		log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
		return
	}
	log.Printf("published order created event for order %s", order.ID)
}
