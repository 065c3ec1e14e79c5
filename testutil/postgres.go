package testutil

import (
	"os"
	"testing"

	"storefront-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenPostgres connects to TEST_DATABASE_URL, migrates the cart schema and empties it
// before and after the test. The test is skipped when the variable is unset.
func OpenPostgres(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open postgres: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		t.Fatalf("failed to enable pgcrypto: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductAttribute{},
		&models.ProductSKU{},
		&models.Cart{},
		&models.CartItem{},
	); err != nil {
		t.Fatalf("failed to migrate postgres: %v", err)
	}

	truncate := func() {
		db.Exec(`TRUNCATE cart_items, carts, product_skus, product_attributes, product_images, products, users CASCADE`)
	}
	truncate()
	t.Cleanup(func() {
		truncate()
		_ = sqlDB.Close()
	})
	return db
}
