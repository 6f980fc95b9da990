package models

import "time"

// OrderItem is a single line within an order. The price is captured at
// checkout time and never re-derived from the catalog afterwards.
type OrderItem struct {
	ID         uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID    string  `json:"-" gorm:"index;type:varchar(36)"`
	GearItemID string  `json:"gear_item_id" gorm:"type:varchar(36)"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}

// Order is an immutable record of a completed checkout. Orders are only
// ever created from a cart snapshot and are never updated.
type Order struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string      `json:"user_id" gorm:"index;type:varchar(36)"`
	Items       []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount float64     `json:"total_amount"`
	CreatedAt   time.Time   `json:"created_at"`
}
