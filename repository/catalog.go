package repository

import (
	"context"

	"storefront-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type catalogRepo struct {
	db *gorm.DB
}

func (r *catalogRepo) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *catalogRepo) FindAttributeByName(ctx context.Context, name string) (*models.ProductAttribute, error) {
	var attr models.ProductAttribute
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&attr).Error; err != nil {
		return nil, translate(err)
	}
	return &attr, nil
}

func (r *catalogRepo) FindSKU(ctx context.Context, productID, sizeID, colorID uuid.UUID) (*models.ProductSKU, error) {
	var sku models.ProductSKU
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND size_id = ? AND color_id = ?", productID, sizeID, colorID).
		First(&sku).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sku, nil
}

func (r *catalogRepo) LoadSKUs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.ProductSKU, error) {
	out := make(map[uuid.UUID]*models.ProductSKU, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var skus []models.ProductSKU
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Images").
		Preload("Size").
		Preload("Color").
		Where("id IN ?", ids).
		Find(&skus).Error
	if err != nil {
		return nil, err
	}
	for i := range skus {
		out[skus[i].ID] = &skus[i]
	}
	return out, nil
}
