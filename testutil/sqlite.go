// Package testutil provides an in-memory SQLite database with the cart schema and
// seed helpers shared by the package tests.
package testutil

import (
	"fmt"
	"testing"

	"storefront-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite returns a fresh, isolated in-memory database for one test.
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A single connection keeps every goroutine on the same in-memory database and
	// serializes writers the way row locks would on Postgres.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := CreateSQLiteTables(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// CreateSQLiteTables creates the schema with SQLite-compatible DDL.
// AutoMigrate is avoided because the model tags carry Postgres defaults like gen_random_uuid().
func CreateSQLiteTables(db *gorm.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS "users" (
			"id" TEXT PRIMARY KEY,
			"email" TEXT NOT NULL UNIQUE,
			"password" TEXT NOT NULL,
			"name" TEXT,
			"role" TEXT DEFAULT 'customer',
			"created_at" DATETIME,
			"updated_at" DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS "products" (
			"id" TEXT PRIMARY KEY,
			"name" TEXT NOT NULL,
			"description" TEXT,
			"price" TEXT NOT NULL,
			"category" TEXT,
			"featured" INTEGER DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_name ON "products"("name")`,

		`CREATE TABLE IF NOT EXISTS "product_images" (
			"id" TEXT PRIMARY KEY,
			"product_id" TEXT NOT NULL,
			"image_url" TEXT NOT NULL,
			"is_primary" INTEGER DEFAULT 0,
			"created_at" DATETIME,
			CONSTRAINT fk_products_images FOREIGN KEY ("product_id") REFERENCES "products"("id")
		)`,

		`CREATE TABLE IF NOT EXISTS "product_attributes" (
			"id" TEXT PRIMARY KEY,
			"name" TEXT NOT NULL UNIQUE,
			"kind" TEXT NOT NULL,
			"created_at" DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS "product_skus" (
			"id" TEXT PRIMARY KEY,
			"product_id" TEXT NOT NULL,
			"size_id" TEXT NOT NULL,
			"color_id" TEXT NOT NULL,
			"stock" INTEGER NOT NULL DEFAULT 0,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT fk_product_skus_product FOREIGN KEY ("product_id") REFERENCES "products"("id")
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sku_variant ON "product_skus"("product_id","size_id","color_id")`,

		`CREATE TABLE IF NOT EXISTS "carts" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL UNIQUE,
			"created_at" DATETIME,
			"updated_at" DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS "cart_items" (
			"id" TEXT PRIMARY KEY,
			"cart_id" TEXT NOT NULL,
			"product_sku_id" TEXT NOT NULL,
			"quantity" INTEGER NOT NULL DEFAULT 1,
			"added_at" DATETIME,
			CONSTRAINT fk_carts_items FOREIGN KEY ("cart_id") REFERENCES "carts"("id") ON DELETE CASCADE,
			CONSTRAINT fk_cart_items_product_sku FOREIGN KEY ("product_sku_id") REFERENCES "product_skus"("id")
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_sku ON "cart_items"("cart_id","product_sku_id")`,
	}

	for _, sql := range tables {
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}
	return nil
}

// Variant bundles a seeded SKU with the values a client would send to address it.
type Variant struct {
	SKU       models.ProductSKU
	ProductID uuid.UUID
	Size      string
	Color     string
}

// SeedUser creates a customer with a placeholder password hash.
func SeedUser(t testing.TB, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "not-a-real-hash",
		Name:     "Test User",
		Role:     "customer",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// SeedProduct creates a product with the given price.
func SeedProduct(t testing.TB, db *gorm.DB, name, price string) models.Product {
	t.Helper()
	product := models.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: "tops",
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

// SeedAttribute returns the attribute with this name, creating it if needed.
func SeedAttribute(t testing.TB, db *gorm.DB, name string, kind models.AttributeKind) models.ProductAttribute {
	t.Helper()
	var attr models.ProductAttribute
	if err := db.Where("name = ?", name).First(&attr).Error; err == nil {
		return attr
	}
	attr = models.ProductAttribute{ID: uuid.New(), Name: name, Kind: kind}
	if err := db.Create(&attr).Error; err != nil {
		t.Fatalf("seed attribute: %v", err)
	}
	return attr
}

// SeedVariant creates the size/color attributes (if missing) and a SKU for product.
func SeedVariant(t testing.TB, db *gorm.DB, product models.Product, size, color string, stock int) Variant {
	t.Helper()
	sizeAttr := SeedAttribute(t, db, size, models.AttributeKindSize)
	colorAttr := SeedAttribute(t, db, color, models.AttributeKindColor)

	sku := models.ProductSKU{
		ID:        uuid.New(),
		ProductID: product.ID,
		SizeID:    sizeAttr.ID,
		ColorID:   colorAttr.ID,
		Stock:     stock,
	}
	if err := db.Create(&sku).Error; err != nil {
		t.Fatalf("seed sku: %v", err)
	}
	return Variant{SKU: sku, ProductID: product.ID, Size: size, Color: color}
}

// SeedCartItem inserts a line item directly, bypassing the service.
func SeedCartItem(t testing.TB, db *gorm.DB, userID uuid.UUID, v Variant, quantity int) (models.Cart, models.CartItem) {
	t.Helper()
	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		cart = models.Cart{ID: uuid.New(), UserID: userID}
		if err := db.Create(&cart).Error; err != nil {
			t.Fatalf("seed cart: %v", err)
		}
	}
	item := models.CartItem{
		ID:           uuid.New(),
		CartID:       cart.ID,
		ProductSKUID: v.SKU.ID,
		Quantity:     quantity,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed cart item: %v", err)
	}
	return cart, item
}
