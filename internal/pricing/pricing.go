// Package pricing is the single place where prices, discounts and taxes are
// computed. Products and variants expose a PriceTag; everything downstream
// (catalog display, cart totals, order drafts) goes through these functions
// so the numbers cannot drift between screens.
package pricing

import "math"

// PriceTag is the priced view of a product or variant.
type PriceTag struct {
	Price           float64
	DiscountedPrice *float64
	DiscountPercent *float64
}

// Priced reports whether the tag carries a sellable price. Unpriced entries
// must never reach a cart or order line.
func (t PriceTag) Priced() bool {
	return t.Price > 0
}

// EffectiveUnit returns the price a buyer actually pays per unit: the stored
// discounted price when present and strictly below the base price, otherwise
// the base price.
func EffectiveUnit(t PriceTag) float64 {
	if t.DiscountedPrice != nil && *t.DiscountedPrice < t.Price {
		return *t.DiscountedPrice
	}
	return t.Price
}

// DiscountAmount returns the per-unit saving; zero when no discount applies.
func DiscountAmount(t PriceTag) float64 {
	return Round2(t.Price - EffectiveUnit(t))
}

// BadgePercent returns the discount percentage shown on product cards. A
// stored percent is trusted as-is; otherwise it is recomputed from the base
// and discounted prices. The second return is false when no badge should be
// shown (no discount, or values that would produce a percent outside (0,100]).
func BadgePercent(t PriceTag) (int, bool) {
	if t.DiscountPercent != nil {
		pct := int(math.Round(*t.DiscountPercent))
		if pct > 0 && pct <= 100 {
			return pct, true
		}
		return 0, false
	}
	if t.Price <= 0 || t.DiscountedPrice == nil || *t.DiscountedPrice >= t.Price {
		return 0, false
	}
	pct := int(math.Round((1 - *t.DiscountedPrice/t.Price) * 100))
	if pct <= 0 || pct > 100 {
		return 0, false
	}
	return pct, true
}

// DeriveDiscounted computes the discounted price the seller UI stores when a
// discount percent is entered. The percent is clamped to [0,100] and the
// result rounded to two decimals; display paths never re-derive it.
func DeriveDiscounted(price, percent float64) float64 {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return Round2(price * (1 - percent/100))
}

// LineTax returns the tax owed on a line. The rate comes from the product;
// variants never carry their own rate. A nil or zero rate means no tax.
func LineTax(unitPrice float64, quantity int, taxPercentage *float64) float64 {
	if taxPercentage == nil || *taxPercentage <= 0 {
		return 0
	}
	return Round2(unitPrice * float64(quantity) * (*taxPercentage / 100))
}

// LineTotal returns the tax-inclusive total for a line.
func LineTotal(unitPrice float64, quantity int, taxPercentage *float64) float64 {
	return Round2(unitPrice*float64(quantity) + LineTax(unitPrice, quantity, taxPercentage))
}

// Round2 rounds to two decimal places, the grain of every stored amount.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
