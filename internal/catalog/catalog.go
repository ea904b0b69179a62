package catalog

import (
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/pricing"
)

type StockStatus string

const (
	StockIn  StockStatus = "in_stock"
	StockOut StockStatus = "out_of_stock"
)

// Option is one selectable value of an attribute.
type Option struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
}

// Attribute is a seller-defined axis of variation, e.g. "Size".
type Attribute struct {
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

// Variant is a concrete SKU for one combination of attribute options. The
// combination maps attribute name to the selected option name and must cover
// every attribute of the product; a variant missing a key is unreachable.
type Variant struct {
	Combination     map[string]string `json:"combination"`
	Price           float64           `json:"price"`
	DiscountedPrice *float64          `json:"discountedPrice,omitempty"`
	DiscountPercent *float64          `json:"discountPercent,omitempty"`
	Stock           StockStatus       `json:"stock"`
}

// Product mirrors the upstream product record. JSON tags follow the
// camelCase convention of the commerce API.
//
// When HasVariations is true the product-level price, discounted price and
// stock status are ignored for pricing; the selected variant is authoritative.
type Product struct {
	ProductID       string      `json:"productId"`
	SellerID        string      `json:"sellerId,omitempty"`
	Name            string      `json:"name"`
	Description     string      `json:"description,omitempty"`
	Category        string      `json:"category,omitempty"`
	Brand           string      `json:"brand,omitempty"`
	Price           float64     `json:"price"`
	DiscountedPrice *float64    `json:"discountedPrice,omitempty"`
	DiscountPercent *float64    `json:"discountPercent,omitempty"`
	TaxPercentage   *float64    `json:"taxPercentage,omitempty"`
	StockStatus     StockStatus `json:"stockStatus,omitempty"`
	HasVariations   bool        `json:"hasVariations"`
	Attributes      []Attribute `json:"attributes,omitempty"`
	Variants        []Variant   `json:"variants,omitempty"`
	Photos          []string    `json:"photos,omitempty"`
	Highlighted     bool        `json:"highlighted,omitempty"`
}

// Category is an upstream catalog category.
type Category struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

func (v Variant) PriceTag() pricing.PriceTag {
	return pricing.PriceTag{Price: v.Price, DiscountedPrice: v.DiscountedPrice, DiscountPercent: v.DiscountPercent}
}

func (p Product) PriceTag() pricing.PriceTag {
	return pricing.PriceTag{Price: p.Price, DiscountedPrice: p.DiscountedPrice, DiscountPercent: p.DiscountPercent}
}

// InStock reports sellability: for variable products, at least one variant
// in stock; otherwise the product-level stock status.
func (p Product) InStock() bool {
	if p.HasVariations {
		for _, v := range p.Variants {
			if v.Stock == StockIn {
				return true
			}
		}
		return false
	}
	return p.StockStatus == StockIn
}

// ResolveVariant finds the variant matching the selected options. Every
// attribute of the product must be covered by an equal value in both the
// selection and the variant's combination; partial selections resolve to
// nil. If several variants match (the generated set should make that
// impossible) the first in list order wins, keeping the result deterministic.
func ResolveVariant(p Product, selected map[string]string) *Variant {
	if !p.HasVariations || len(p.Attributes) == 0 {
		return nil
	}
	for i := range p.Variants {
		if combinationMatches(p.Attributes, p.Variants[i].Combination, selected) {
			return &p.Variants[i]
		}
	}
	return nil
}

func combinationMatches(attrs []Attribute, combination, selected map[string]string) bool {
	for _, a := range attrs {
		want, ok := combination[a.Name]
		if !ok {
			return false
		}
		if selected[a.Name] != want {
			return false
		}
	}
	return true
}

// DefaultSelection seeds the product page with the first variant's
// combination. Purely a UX default; it deliberately does not skip
// out-of-stock variants, so the page never hides that a variant is sold out.
func DefaultSelection(p Product) (map[string]string, *Variant) {
	if !p.HasVariations || len(p.Variants) == 0 {
		return nil, nil
	}
	v := &p.Variants[0]
	selected := make(map[string]string, len(v.Combination))
	for k, val := range v.Combination {
		selected[k] = val
	}
	return selected, v
}

// GenerateVariants builds the cartesian product of all attribute options, in
// attribute order. Combinations already present in previous keep their price,
// discount and stock; combinations that no longer exist are discarded. New
// combinations start unpriced and out of stock until the seller fills them in.
func GenerateVariants(attrs []Attribute, previous []Variant) []Variant {
	if len(attrs) == 0 {
		return nil
	}
	for _, a := range attrs {
		if len(a.Options) == 0 {
			return nil
		}
	}

	combos := []map[string]string{{}}
	for _, a := range attrs {
		next := make([]map[string]string, 0, len(combos)*len(a.Options))
		for _, base := range combos {
			for _, opt := range a.Options {
				c := make(map[string]string, len(base)+1)
				for k, v := range base {
					c[k] = v
				}
				c[a.Name] = opt.Name
				next = append(next, c)
			}
		}
		combos = next
	}

	out := make([]Variant, 0, len(combos))
	for _, c := range combos {
		v := Variant{Combination: c, Stock: StockOut}
		for _, prev := range previous {
			if sameCombination(prev.Combination, c) {
				v.Price = prev.Price
				v.DiscountedPrice = prev.DiscountedPrice
				v.DiscountPercent = prev.DiscountPercent
				v.Stock = prev.Stock
				break
			}
		}
		out = append(out, v)
	}
	return out
}

func sameCombination(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// StartingPrice returns the lowest effective price across in-stock variants
// for the "starting from" catalog card. The second return is false when no
// variant is in stock; the card must then show out-of-stock and no price at
// all rather than a stale minimum.
func StartingPrice(p Product) (float64, bool) {
	if !p.HasVariations {
		if p.InStock() && p.PriceTag().Priced() {
			return pricing.EffectiveUnit(p.PriceTag()), true
		}
		return 0, false
	}
	found := false
	min := 0.0
	for _, v := range p.Variants {
		if v.Stock != StockIn || !v.PriceTag().Priced() {
			continue
		}
		eff := pricing.EffectiveUnit(v.PriceTag())
		if !found || eff < min {
			min = eff
			found = true
		}
	}
	return min, found
}

// MergeHighlighted combines per-seller highlighted lists into one list,
// deduplicated by seller and product id, preserving first-seen order.
func MergeHighlighted(lists ...[]Product) []Product {
	seen := make(map[string]bool)
	var out []Product
	for _, list := range lists {
		for _, p := range list {
			key := p.SellerID + "/" + p.ProductID
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, p)
		}
	}
	return out
}

// PriceView is the computed display block attached to catalog responses so
// clients never recompute discounts themselves.
type PriceView struct {
	EffectivePrice  *float64 `json:"effectivePrice,omitempty"`
	StartingFrom    *float64 `json:"startingFrom,omitempty"`
	DiscountPercent *int     `json:"discountPercent,omitempty"`
	InStock         bool     `json:"inStock"`
}

// DisplayPrice derives the catalog-card view of a product.
func DisplayPrice(p Product) PriceView {
	view := PriceView{InStock: p.InStock()}
	if p.HasVariations {
		if from, ok := StartingPrice(p); ok {
			view.StartingFrom = &from
		}
		return view
	}
	if p.PriceTag().Priced() {
		eff := pricing.EffectiveUnit(p.PriceTag())
		view.EffectivePrice = &eff
		if pct, ok := pricing.BadgePercent(p.PriceTag()); ok {
			view.DiscountPercent = &pct
		}
	}
	return view
}
