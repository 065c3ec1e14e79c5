package database

import (
	"fmt"
	"os"

	"storefront-backend/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogSeed is the YAML fixture format used to populate a development catalog.
//
//	products:
//	  - name: Linen Shirt
//	    price: "49.90"
//	    images: [https://cdn.example/linen.jpg]
//	    variants:
//	      - {size: M, color: White, stock: 12}
type CatalogSeed struct {
	Products []ProductSeed `yaml:"products"`
}

type ProductSeed struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Category    string        `yaml:"category"`
	Price       string        `yaml:"price"`
	Images      []string      `yaml:"images"`
	Variants    []VariantSeed `yaml:"variants"`
}

type VariantSeed struct {
	Size  string `yaml:"size"`
	Color string `yaml:"color"`
	Stock int    `yaml:"stock"`
}

func LoadCatalogSeed(path string) (*CatalogSeed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog seed: %w", err)
	}
	var seed CatalogSeed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse catalog seed: %w", err)
	}
	return &seed, nil
}

// SeedCatalog inserts products that do not exist yet (matched by name) together with
// their attributes, images and variants. Existing products are left untouched, so the
// call is safe to repeat on every start.
func SeedCatalog(db *gorm.DB, seed *CatalogSeed) (int, error) {
	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, ps := range seed.Products {
			var count int64
			if err := tx.Model(&models.Product{}).Where("name = ?", ps.Name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			price, err := decimal.NewFromString(ps.Price)
			if err != nil {
				return fmt.Errorf("product %q: invalid price %q: %w", ps.Name, ps.Price, err)
			}

			product := models.Product{
				Name:        ps.Name,
				Description: ps.Description,
				Category:    ps.Category,
				Price:       price,
			}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}

			for i, url := range ps.Images {
				img := models.ProductImage{ProductID: product.ID, ImageURL: url, IsPrimary: i == 0}
				if err := tx.Create(&img).Error; err != nil {
					return err
				}
			}

			for _, vs := range ps.Variants {
				size, err := ensureAttribute(tx, vs.Size, models.AttributeKindSize)
				if err != nil {
					return err
				}
				color, err := ensureAttribute(tx, vs.Color, models.AttributeKindColor)
				if err != nil {
					return err
				}
				sku := models.ProductSKU{
					ProductID: product.ID,
					SizeID:    size.ID,
					ColorID:   color.ID,
					Stock:     vs.Stock,
				}
				if err := tx.Create(&sku).Error; err != nil {
					return err
				}
			}
			created++
		}
		return nil
	})
	return created, err
}

func ensureAttribute(tx *gorm.DB, name string, kind models.AttributeKind) (*models.ProductAttribute, error) {
	attr := models.ProductAttribute{Name: name, Kind: kind}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&attr).Error; err != nil {
		return nil, err
	}
	// attr carries a fresh id even when the insert was skipped; reload into a new value.
	var stored models.ProductAttribute
	if err := tx.Where("name = ?", name).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}
