package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart is created lazily, one per user.
type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User      *User      `gorm:"foreignKey:UserID" json:"-"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CartItem is one line of a cart. (cart_id, product_sku_id) is unique and quantity
// is always >= 1; a write of zero or less removes the row instead.
type CartItem struct {
	ID           uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CartID       uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_cart_sku" json:"cart_id"`
	ProductSKUID uuid.UUID   `gorm:"column:product_sku_id;type:uuid;not null;uniqueIndex:idx_cart_sku" json:"product_sku_id"`
	ProductSKU   *ProductSKU `gorm:"foreignKey:ProductSKUID" json:"product_sku,omitempty"`
	Quantity     int         `gorm:"not null;default:1" json:"quantity"`
	AddedAt      time.Time   `gorm:"autoCreateTime" json:"added_at"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
