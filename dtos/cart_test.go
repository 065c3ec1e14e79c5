package dtos

import (
	"encoding/json"
	"testing"

	"storefront-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func sku(price string, size, color string) *models.ProductSKU {
	productID := uuid.New()
	return &models.ProductSKU{
		ID:        uuid.New(),
		ProductID: productID,
		Product: &models.Product{
			ID:    productID,
			Name:  "Linen Shirt",
			Price: decimal.RequireFromString(price),
			Images: []models.ProductImage{
				{ImageURL: "https://cdn.example/back.jpg"},
				{ImageURL: "https://cdn.example/front.jpg", IsPrimary: true},
			},
		},
		Size:  &models.ProductAttribute{Name: size},
		Color: &models.ProductAttribute{Name: color},
		Stock: 9,
	}
}

func TestItemTotal(t *testing.T) {
	item := models.CartItem{ProductSKU: sku("19.99", "M", "White"), Quantity: 3}
	if got := ItemTotal(item); !got.Equal(decimal.RequireFromString("59.97")) {
		t.Errorf("expected 59.97, got %s", got)
	}
}

func TestItemTotalMissingRelationIsZero(t *testing.T) {
	if got := ItemTotal(models.CartItem{Quantity: 4}); !got.IsZero() {
		t.Errorf("expected zero without sku, got %s", got)
	}
	orphan := models.CartItem{ProductSKU: &models.ProductSKU{Stock: 1}, Quantity: 4}
	if got := ItemTotal(orphan); !got.IsZero() {
		t.Errorf("expected zero without product, got %s", got)
	}
}

func TestNewCartResponseGrandTotal(t *testing.T) {
	cart := &models.Cart{
		ID: uuid.New(),
		Items: []models.CartItem{
			{ID: uuid.New(), ProductSKU: sku("10.50", "M", "White"), Quantity: 2},
			{ID: uuid.New(), ProductSKU: sku("4.25", "S", "Black"), Quantity: 1},
			{ID: uuid.New(), Quantity: 5},
		},
	}

	resp := NewCartResponse(cart)
	if len(resp.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(resp.Items))
	}
	if !resp.GrandTotal.Equal(decimal.RequireFromString("25.25")) {
		t.Errorf("expected grand total 25.25, got %s", resp.GrandTotal)
	}

	first := resp.Items[0].ProductSKU
	if first.Size != "M" || first.Color != "White" || first.Name != "Linen Shirt" {
		t.Errorf("unexpected sku summary %+v", first)
	}
	if first.PrimaryImage != "https://cdn.example/front.jpg" {
		t.Errorf("expected primary image, got %q", first.PrimaryImage)
	}
}

func TestNewCartResponseEmpty(t *testing.T) {
	resp := NewCartResponse(&models.Cart{ID: uuid.New()})
	if !resp.GrandTotal.IsZero() {
		t.Errorf("expected zero grand total, got %s", resp.GrandTotal)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	items, ok := decoded["items"].([]interface{})
	if !ok || len(items) != 0 {
		t.Errorf("expected empty items array, got %v", decoded["items"])
	}
	if decoded["grand_total"] != "0" {
		t.Errorf("expected grand_total \"0\", got %v", decoded["grand_total"])
	}
}
