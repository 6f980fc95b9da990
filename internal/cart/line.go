package cart

import "gearstore/internal/models"

// Line is one hydrated cart entry: the gear item it references, the
// quantity, and (for server-side carts) the server-assigned line ID.
// Anonymous lines have no LineID.
type Line struct {
	LineID     string          `json:"id,omitempty"`
	GearItemID string          `json:"gear_item_id"`
	Quantity   int             `json:"quantity"`
	Gear       models.GearItem `json:"gear_item"`
}

// Total sums unit price times quantity over the given lines. It is always
// recomputed from the line list, never cached.
func Total(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.Gear.Price * float64(l.Quantity)
	}
	return total
}

// Count sums the quantities over the given lines.
func Count(lines []Line) int {
	var count int
	for _, l := range lines {
		count += l.Quantity
	}
	return count
}
