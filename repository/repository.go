// Package repository holds the persistence contracts the cart service is written
// against, plus their gorm implementations.
package repository

import (
	"context"
	"errors"

	"storefront-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned by every lookup that matches no row.
var ErrNotFound = errors.New("record not found")

// CatalogRepository resolves the read-only catalog a cart references.
type CatalogRepository interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindAttributeByName(ctx context.Context, name string) (*models.ProductAttribute, error)
	FindSKU(ctx context.Context, productID, sizeID, colorID uuid.UUID) (*models.ProductSKU, error)
	// LoadSKUs returns the variants with product, images, size and color loaded, keyed
	// by id. Ids with no row are absent from the map.
	LoadSKUs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.ProductSKU, error)
}

// CartRepository owns carts and their line items.
type CartRepository interface {
	// FindOrCreateByUser returns the user's cart, creating it if absent. Safe under
	// concurrent callers: the unique user_id index decides the winner.
	FindOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindItem(ctx context.Context, cartID, skuID uuid.UUID) (*models.CartItem, error)
	FindItemByID(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error)
	// UpsertItem inserts a line item or atomically adds quantity to the existing one.
	UpsertItem(ctx context.Context, cartID, skuID uuid.UUID, quantity int) error
	SetItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	// Touch bumps the cart's updated_at.
	Touch(ctx context.Context, cartID uuid.UUID) error
	// LoadView returns the cart with items, variants, products and attributes loaded.
	LoadView(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
}

// Store groups the repositories and runs units of work.
type Store interface {
	Carts() CartRepository
	Catalog() CatalogRepository
	// InTx runs fn inside one transaction; repositories handed to fn share it.
	// Returning an error rolls everything back.
	InTx(ctx context.Context, fn func(Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Carts() CartRepository {
	return &cartRepo{db: s.db}
}

func (s *gormStore) Catalog() CatalogRepository {
	return &catalogRepo{db: s.db}
}

func (s *gormStore) InTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
