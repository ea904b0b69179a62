package checkout

import (
	"errors"

	"github.com/google/uuid"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/cart"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/catalog"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/identity"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/pricing"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrVariantRequired    = errors.New("no variant selected")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrUnpriced           = errors.New("product has no valid price")
	ErrOutOfStock         = errors.New("item is out of stock")
	ErrProfileIncomplete  = errors.New("profile is incomplete")
	ErrNoDraft            = errors.New("no order draft in progress")
	ErrNoPendingIntent    = errors.New("no pending checkout to resume")
	ErrLineNotFound       = errors.New("item not in draft")
	ErrSubmissionInFlight = errors.New("order submission already in progress")
)

// Line is one draft/order line. The price fields are snapshots taken when
// the draft was built; the upstream recomputes them authoritatively at
// order creation. There is deliberately no seller id here: the upstream
// derives the seller from the product reference.
type Line struct {
	ProductID       string            `json:"productId"`
	Name            string            `json:"name"`
	Quantity        int               `json:"quantity"`
	Price           float64           `json:"price"`
	DiscountedPrice *float64          `json:"discountedPrice,omitempty"`
	TaxPercentage   *float64          `json:"taxPercentage,omitempty"`
	Combination     map[string]string `json:"combination,omitempty"`
}

// UnitPrice is the effective per-unit price of the line.
func (l Line) UnitPrice() float64 {
	return pricing.EffectiveUnit(pricing.PriceTag{Price: l.Price, DiscountedPrice: l.DiscountedPrice})
}

// Tax is the tax owed on the line; the rate always comes from the product.
func (l Line) Tax() float64 {
	return pricing.LineTax(l.UnitPrice(), l.Quantity, l.TaxPercentage)
}

// Draft is an editable pre-submission order. Totals are computed on demand
// from the lines so quantity edits can never leave a stale amount behind.
// IsBuyNow only steers post-submit navigation and cart clearing; pricing is
// identical on both paths.
type Draft struct {
	ID       string        `json:"draftId"`
	User     identity.User `json:"user"`
	Lines    []Line        `json:"items"`
	IsBuyNow bool          `json:"isBuyNow"`
}

// Subtotal is the pre-tax amount across all lines.
func (d Draft) Subtotal() float64 {
	sum := 0.0
	for _, l := range d.Lines {
		sum += l.UnitPrice() * float64(l.Quantity)
	}
	return pricing.Round2(sum)
}

// Tax is the total tax across all lines.
func (d Draft) Tax() float64 {
	sum := 0.0
	for _, l := range d.Lines {
		sum += l.Tax()
	}
	return pricing.Round2(sum)
}

// Total is the tax-inclusive amount due.
func (d Draft) Total() float64 {
	return pricing.Round2(d.Subtotal() + d.Tax())
}

// SetQuantity edits a line in place during the summary step.
func (d *Draft) SetQuantity(productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range d.Lines {
		if d.Lines[i].ProductID == productID {
			d.Lines[i].Quantity = quantity
			return nil
		}
	}
	return ErrLineNotFound
}

// BuildFromCart assembles a draft from the current cart. Line prices are
// copied from the cart snapshot at build time, not re-fetched.
func BuildFromCart(c cart.Cart, u identity.User) (Draft, error) {
	if len(c.Items) == 0 {
		return Draft{}, ErrEmptyCart
	}
	lines := make([]Line, 0, len(c.Items))
	for _, item := range c.Items {
		line := Line{
			ProductID:     item.Product.ProductID,
			Name:          item.Product.Name,
			Quantity:      item.Quantity,
			TaxPercentage: item.Product.TaxPercentage,
		}
		if item.Variant != nil {
			line.Price = item.Variant.OriginalPrice
			if item.Variant.Price < item.Variant.OriginalPrice {
				discounted := item.Variant.Price
				line.DiscountedPrice = &discounted
			}
			line.Combination = item.Variant.Combination
		} else {
			line.Price = item.Price
			line.DiscountedPrice = item.DiscountedPrice
		}
		lines = append(lines, line)
	}
	return Draft{ID: uuid.NewString(), User: u, Lines: lines}, nil
}

// BuildFromBuyNow assembles a single-line draft for the fast checkout path.
// The result has exactly the same shape as a cart draft so the summary and
// submit steps do not care which path produced it.
func BuildFromBuyNow(p catalog.Product, v *catalog.Variant, quantity int, u identity.User) (Draft, error) {
	if quantity < 1 {
		return Draft{}, ErrInvalidQuantity
	}

	line := Line{
		ProductID:     p.ProductID,
		Name:          p.Name,
		Quantity:      quantity,
		TaxPercentage: p.TaxPercentage,
	}
	if p.HasVariations {
		if v == nil {
			return Draft{}, ErrVariantRequired
		}
		if v.Stock != catalog.StockIn {
			return Draft{}, ErrOutOfStock
		}
		if !v.PriceTag().Priced() {
			return Draft{}, ErrUnpriced
		}
		line.Price = v.Price
		line.DiscountedPrice = v.DiscountedPrice
		line.Combination = v.Combination
	} else {
		if p.StockStatus != catalog.StockIn {
			return Draft{}, ErrOutOfStock
		}
		if !p.PriceTag().Priced() {
			return Draft{}, ErrUnpriced
		}
		line.Price = p.Price
		line.DiscountedPrice = p.DiscountedPrice
	}

	return Draft{ID: uuid.NewString(), User: u, Lines: []Line{line}, IsBuyNow: true}, nil
}

// Intent is a checkout attempt held while the profile gate is open. It keeps
// everything needed to rebuild the draft so the buyer never re-selects.
type Intent struct {
	Kind        string            `json:"kind"` // "cart" or "buy_now"
	Product     *catalog.Product  `json:"product,omitempty"`
	Combination map[string]string `json:"combination,omitempty"`
	Quantity    int               `json:"quantity,omitempty"`
}

const (
	IntentCart   = "cart"
	IntentBuyNow = "buy_now"
)

// Order is an upstream order record.
type Order struct {
	ID          string  `json:"orderId"`
	Status      string  `json:"status"`
	Items       []Line  `json:"items"`
	TotalAmount float64 `json:"totalAmount"`
	Tax         float64 `json:"tax,omitempty"`
	GrandTotal  float64 `json:"grandTotal,omitempty"`
	Viewed      bool    `json:"viewed"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}

// OrderRequest is the creation payload sent upstream. No seller id: the
// upstream derives it from each product reference, which keeps a tampered
// client from routing revenue elsewhere.
type OrderRequest struct {
	UserID      string    `json:"userId"`
	User        orderUser `json:"user"`
	Items       []Line    `json:"items"`
	TotalAmount float64   `json:"totalAmount"`
	Tax         float64   `json:"tax"`
	GrandTotal  float64   `json:"grandTotal"`
}

type orderUser struct {
	Name    string           `json:"name"`
	Phone   string           `json:"phone"`
	Email   string           `json:"email,omitempty"`
	Address identity.Address `json:"address"`
}
