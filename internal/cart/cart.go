package cart

import (
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/catalog"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/pricing"
)

// VariantSnapshot captures the variant selection at add-to-cart time. Price
// is the effective unit price at that moment; OriginalPrice the base price.
type VariantSnapshot struct {
	Combination   map[string]string   `json:"combination"`
	Price         float64             `json:"price"`
	OriginalPrice float64             `json:"originalPrice"`
	Stock         catalog.StockStatus `json:"stock"`
}

// Item is one cart line. Product is a denormalized snapshot taken when the
// line was created; the upstream revalidates price and stock on checkout.
type Item struct {
	Product         catalog.Product  `json:"product"`
	Quantity        int              `json:"quantity"`
	Price           float64          `json:"price"`
	DiscountedPrice *float64         `json:"discountedPrice,omitempty"`
	Variant         *VariantSnapshot `json:"variant,omitempty"`
}

// UnitPrice returns the effective price per unit for this line.
func (i Item) UnitPrice() float64 {
	if i.Variant != nil {
		return pricing.EffectiveUnit(pricing.PriceTag{
			Price:           i.Variant.OriginalPrice,
			DiscountedPrice: &i.Variant.Price,
		})
	}
	return pricing.EffectiveUnit(pricing.PriceTag{Price: i.Price, DiscountedPrice: i.DiscountedPrice})
}

// Cart is the client-visible cart state. TotalAmount is always derived from
// the items, never carried over from a response.
type Cart struct {
	Items       []Item  `json:"items"`
	TotalAmount float64 `json:"totalAmount"`
}

// ItemCount is the badge number: total quantity across lines.
func (c Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Total recomputes the cart subtotal from its lines.
func Total(items []Item) float64 {
	sum := 0.0
	for _, item := range items {
		sum += item.UnitPrice() * float64(item.Quantity)
	}
	return pricing.Round2(sum)
}

// normalize rederives the amount fields after every refresh so a server
// response can never leave a stale total behind.
func normalize(c Cart) Cart {
	if c.Items == nil {
		c.Items = []Item{}
	}
	c.TotalAmount = Total(c.Items)
	return c
}
