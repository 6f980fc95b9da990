package models

import "gorm.io/gorm"

// Gear item categories. The catalog only carries these three.
const (
	CategoryMicrophone = "microphone"
	CategoryHeadphones = "headphones"
	CategoryInterface  = "interface"
)

// Categories lists every valid gear category.
func Categories() []string {
	return []string{CategoryMicrophone, CategoryHeadphones, CategoryInterface}
}

// GearItem represents one piece of audio equipment in the catalog.
type GearItem struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string   `json:"name" gorm:"index" validate:"required,min=2,max=255"`
	Category    string   `json:"category" gorm:"index;type:varchar(50)" validate:"required,oneof=microphone headphones interface"`
	Brand       string   `json:"brand" gorm:"index;type:varchar(100)" validate:"required,max=100"`
	Price       float64  `json:"price" validate:"gte=0"`
	InStock     bool     `json:"in_stock"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Description string   `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	ImageURL    string   `json:"image_url" gorm:"type:varchar(512)" validate:"omitempty,max=512"`
	gorm.Model  `json:"-"` // CreatedAt, UpdatedAt, DeletedAt
}

// GearItemUpdate carries a partial admin edit. Nil fields are left untouched.
type GearItemUpdate struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=255"`
	Category    *string  `json:"category" validate:"omitempty,oneof=microphone headphones interface"`
	Brand       *string  `json:"brand" validate:"omitempty,max=100"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	InStock     *bool    `json:"in_stock"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,max=512"`
}

// PagedGear is the paginated catalog listing envelope.
type PagedGear struct {
	Items    []GearItem `json:"items"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Pages    int        `json:"pages"`
}
