package dtos

import (
	"storefront-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartResponse is the read-only projection returned by every cart endpoint.
type CartResponse struct {
	ID         uuid.UUID          `json:"id"`
	Items      []CartItemResponse `json:"items"`
	GrandTotal decimal.Decimal    `json:"grand_total"`
}

type CartItemResponse struct {
	ID         uuid.UUID          `json:"id"`
	ProductSKU ProductSKUResponse `json:"product_sku"`
	Quantity   int                `json:"quantity"`
	TotalPrice decimal.Decimal    `json:"total_price"`
}

// ProductSKUResponse is the variant summary shown on a cart line.
type ProductSKUResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	Size         string          `json:"size"`
	Color        string          `json:"color"`
	Stock        int             `json:"stock"`
	Price        decimal.Decimal `json:"price"`
	PrimaryImage string          `json:"primary_image"`
}

// ItemTotal is unit price times quantity. A line whose variant or product relation is
// missing totals zero instead of failing the whole cart.
func ItemTotal(item models.CartItem) decimal.Decimal {
	if item.ProductSKU == nil || item.ProductSKU.Product == nil {
		return decimal.Zero
	}
	return item.ProductSKU.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// NewCartResponse projects a cart loaded with its items into the response shape.
func NewCartResponse(cart *models.Cart) *CartResponse {
	resp := &CartResponse{
		ID:         cart.ID,
		Items:      make([]CartItemResponse, 0, len(cart.Items)),
		GrandTotal: decimal.Zero,
	}
	for _, item := range cart.Items {
		total := ItemTotal(item)
		resp.Items = append(resp.Items, CartItemResponse{
			ID:         item.ID,
			ProductSKU: newProductSKUResponse(item),
			Quantity:   item.Quantity,
			TotalPrice: total,
		})
		resp.GrandTotal = resp.GrandTotal.Add(total)
	}
	return resp
}

func newProductSKUResponse(item models.CartItem) ProductSKUResponse {
	out := ProductSKUResponse{ID: item.ProductSKUID, Price: decimal.Zero}
	sku := item.ProductSKU
	if sku == nil {
		return out
	}
	out.ProductID = sku.ProductID
	out.Stock = sku.Stock
	if sku.Size != nil {
		out.Size = sku.Size.Name
	}
	if sku.Color != nil {
		out.Color = sku.Color.Name
	}
	if sku.Product != nil {
		out.Name = sku.Product.Name
		out.Price = sku.Product.Price
		out.PrimaryImage = sku.Product.PrimaryImage()
	}
	return out
}
