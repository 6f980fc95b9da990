package models

import "gorm.io/gorm"

// CartItem is one server-side cart row for an authenticated user. At most
// one row exists per (user, gear item) pair; adding the same item again
// bumps the quantity instead of inserting a second row.
type CartItem struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string `json:"user_id" gorm:"index;type:varchar(36)"`
	GearItemID string `json:"gear_item_id" gorm:"index;type:varchar(36)"`
	Quantity   int    `json:"quantity"`
	gorm.Model `json:"-"`
}
