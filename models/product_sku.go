package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductSKU is one purchasable (product, size, color) combination with its own stock.
type ProductSKU struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProductID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_sku_variant" json:"product_id"`
	Product   *Product          `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	SizeID    uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_sku_variant" json:"size_id"`
	Size      *ProductAttribute `gorm:"foreignKey:SizeID" json:"size,omitempty"`
	ColorID   uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_sku_variant" json:"color_id"`
	Color     *ProductAttribute `gorm:"foreignKey:ColorID" json:"color,omitempty"`
	Stock     int               `gorm:"not null;default:0" json:"stock"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (ProductSKU) TableName() string {
	return "product_skus"
}

func (s *ProductSKU) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
