package repository

import (
	"context"
	"time"

	"storefront-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepo struct {
	db *gorm.DB
}

func (r *cartRepo) FindOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	db := r.db.WithContext(ctx)

	fresh := models.Cart{UserID: userID}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (r *cartRepo) FindItem(ctx context.Context, cartID, skuID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_sku_id = ?", cartID, skuID).
		First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *cartRepo) FindItemByID(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *cartRepo) UpsertItem(ctx context.Context, cartID, skuID uuid.UUID, quantity int) error {
	return r.upsertItem(ctx, cartID, skuID, quantity).Error
}

// upsertItem is a single statement, so concurrent adds of one variant cannot lose an
// update.
func (r *cartRepo) upsertItem(ctx context.Context, cartID, skuID uuid.UUID, quantity int) *gorm.DB {
	item := models.CartItem{
		CartID:       cartID,
		ProductSKUID: skuID,
		Quantity:     quantity,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_sku_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
		}),
	}).Create(&item)
}

func (r *cartRepo) SetItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cartRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", itemID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cartRepo) Touch(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		UpdateColumn("updated_at", time.Now().UTC()).Error
}

func (r *cartRepo) LoadView(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.added_at ASC")
		}).
		Preload("Items.ProductSKU").
		Preload("Items.ProductSKU.Product").
		Preload("Items.ProductSKU.Product.Images").
		Preload("Items.ProductSKU.Size").
		Preload("Items.ProductSKU.Color").
		Where("id = ?", cartID).
		First(&cart).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}
