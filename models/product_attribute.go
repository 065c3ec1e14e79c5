package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttributeKind string

const (
	AttributeKindSize  AttributeKind = "size"
	AttributeKindColor AttributeKind = "color"
)

// ProductAttribute is a size or color value shared across products ("M", "Black").
// Names are globally unique; lookups go by name only.
type ProductAttribute struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string        `gorm:"uniqueIndex;not null" json:"name"`
	Kind      AttributeKind `gorm:"not null;index" json:"kind"`
	CreatedAt time.Time     `json:"created_at"`
}

func (a *ProductAttribute) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
