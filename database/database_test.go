package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"storefront-backend/models"
	"storefront-backend/testutil"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm duplicated key", fmt.Errorf("create user: %w", gorm.ErrDuplicatedKey), true},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"pg foreign key violation", &pgconn.PgError{Code: "23503"}, false},
		{"other", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := IsUniqueViolation(tc.err); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

const seedYAML = `
products:
  - name: Linen Shirt
    category: tops
    price: "49.90"
    images:
      - https://cdn.example/linen-front.jpg
      - https://cdn.example/linen-back.jpg
    variants:
      - {size: M, color: White, stock: 12}
      - {size: L, color: White, stock: 3}
  - name: Wool Scarf
    price: "25.00"
    variants:
      - {size: One Size, color: White, stock: 40}
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSeedCatalog(t *testing.T) {
	db := testutil.OpenSQLite(t)

	seed, err := LoadCatalogSeed(writeSeed(t, seedYAML))
	if err != nil {
		t.Fatalf("expected seed to load, got %v", err)
	}

	created, err := SeedCatalog(db, seed)
	if err != nil {
		t.Fatalf("expected no error seeding, got %v", err)
	}
	if created != 2 {
		t.Errorf("expected 2 products created, got %d", created)
	}

	var skuCount, attrCount, imageCount int64
	db.Model(&models.ProductSKU{}).Count(&skuCount)
	db.Model(&models.ProductAttribute{}).Count(&attrCount)
	db.Model(&models.ProductImage{}).Count(&imageCount)
	if skuCount != 3 {
		t.Errorf("expected 3 skus, got %d", skuCount)
	}
	// M, L, One Size, White; White is shared between products.
	if attrCount != 4 {
		t.Errorf("expected 4 attributes, got %d", attrCount)
	}
	if imageCount != 2 {
		t.Errorf("expected 2 images, got %d", imageCount)
	}

	var primary models.ProductImage
	db.Where("is_primary = ?", true).First(&primary)
	if primary.ImageURL != "https://cdn.example/linen-front.jpg" {
		t.Errorf("expected first image to be primary, got %q", primary.ImageURL)
	}
}

func TestSeedCatalogIsRepeatable(t *testing.T) {
	db := testutil.OpenSQLite(t)
	seed, err := LoadCatalogSeed(writeSeed(t, seedYAML))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := SeedCatalog(db, seed); err != nil {
		t.Fatal(err)
	}
	created, err := SeedCatalog(db, seed)
	if err != nil {
		t.Fatalf("expected second run to succeed, got %v", err)
	}
	if created != 0 {
		t.Errorf("expected nothing created on second run, got %d", created)
	}

	var productCount int64
	db.Model(&models.Product{}).Count(&productCount)
	if productCount != 2 {
		t.Errorf("expected 2 products, got %d", productCount)
	}
}

func TestSeedCatalogRejectsBadPrice(t *testing.T) {
	db := testutil.OpenSQLite(t)
	seed := &CatalogSeed{Products: []ProductSeed{{Name: "Broken", Price: "abc"}}}

	if _, err := SeedCatalog(db, seed); err == nil {
		t.Fatal("expected error for invalid price")
	}

	var productCount int64
	db.Model(&models.Product{}).Count(&productCount)
	if productCount != 0 {
		t.Errorf("expected rollback to leave no products, got %d", productCount)
	}
}

func TestLoadCatalogSeedMissingFile(t *testing.T) {
	if _, err := LoadCatalogSeed(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
