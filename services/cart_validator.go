package services

import (
	"context"
	"errors"

	"storefront-backend/models"
	"storefront-backend/repository"

	"github.com/google/uuid"
)

// CartItemValidator resolves raw (product, size, color) input to catalog rows and
// checks it against stock. It never writes.
type CartItemValidator struct {
	catalog repository.CatalogRepository
	carts   repository.CartRepository
}

func NewCartItemValidator(catalog repository.CatalogRepository, carts repository.CartRepository) *CartItemValidator {
	return &CartItemValidator{catalog: catalog, carts: carts}
}

// ValidateAdd returns the variant to add and the quantity to add it with.
func (v *CartItemValidator) ValidateAdd(ctx context.Context, productID uuid.UUID, size, color string, quantity int) (*models.ProductSKU, int, error) {
	if quantity < 1 {
		return nil, 0, malformed("quantity must be at least 1")
	}
	sku, err := v.resolveVariant(ctx, productID, size, color)
	if err != nil {
		return nil, 0, err
	}
	if sku.Stock < quantity {
		return nil, 0, &InsufficientStockError{Requested: quantity, Available: sku.Stock}
	}
	return sku, quantity, nil
}

// ValidateDelete returns the line item in cartID that references the variant.
func (v *CartItemValidator) ValidateDelete(ctx context.Context, cartID, productID uuid.UUID, size, color string) (*models.CartItem, error) {
	sku, err := v.resolveVariant(ctx, productID, size, color)
	if err != nil {
		return nil, err
	}
	item, err := v.carts.FindItem(ctx, cartID, sku.ID)
	if err != nil {
		return nil, collapseNotFound(err)
	}
	return item, nil
}

func (v *CartItemValidator) resolveVariant(ctx context.Context, productID uuid.UUID, size, color string) (*models.ProductSKU, error) {
	product, err := v.catalog.FindProduct(ctx, productID)
	if err != nil {
		return nil, collapseNotFound(err)
	}
	sizeAttr, err := v.catalog.FindAttributeByName(ctx, size)
	if err != nil {
		return nil, collapseNotFound(err)
	}
	colorAttr, err := v.catalog.FindAttributeByName(ctx, color)
	if err != nil {
		return nil, collapseNotFound(err)
	}
	sku, err := v.catalog.FindSKU(ctx, product.ID, sizeAttr.ID, colorAttr.ID)
	if err != nil {
		return nil, collapseNotFound(err)
	}
	return sku, nil
}

func collapseNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrVariantNotFound
	}
	return err
}
