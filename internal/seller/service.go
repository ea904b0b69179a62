package seller

import (
	"context"
	"errors"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/catalog"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/pricing"
)

var (
	ErrNameRequired      = errors.New("product name is required")
	ErrInvalidPrice      = errors.New("price must be greater than zero")
	ErrNoAttributes      = errors.New("a variable product needs at least one attribute with options")
	ErrIncompleteVariant = errors.New("variant combination must cover every attribute")
)

// Service validates and saves seller products. Discounted prices are
// derived from the percent at edit time, so the stored record always
// carries the concrete amount buyers will see.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create saves a new product for the seller. The seller id always comes
// from the session, never from the payload.
func (s *Service) Create(ctx context.Context, sellerID string, p catalog.Product) (catalog.Product, error) {
	p.SellerID = sellerID
	p, err := normalize(p)
	if err != nil {
		return catalog.Product{}, err
	}
	return s.repo.Create(ctx, p)
}

// Update saves an edited product.
func (s *Service) Update(ctx context.Context, sellerID string, p catalog.Product) (catalog.Product, error) {
	p.SellerID = sellerID
	p, err := normalize(p)
	if err != nil {
		return catalog.Product{}, err
	}
	return s.repo.Update(ctx, p)
}

// Delete removes a product from the catalog.
func (s *Service) Delete(ctx context.Context, productID string) error {
	return s.repo.Delete(ctx, productID)
}

// Products lists the seller's own catalog.
func (s *Service) Products(ctx context.Context, sellerID string) ([]catalog.Product, error) {
	return s.repo.BySeller(ctx, sellerID)
}

// GenerateVariants rebuilds the variant grid after an attribute edit.
// Combinations that survive the edit keep their price and stock; new ones
// come back unpriced and out of stock so the seller has to fill them in.
func (s *Service) GenerateVariants(attrs []catalog.Attribute, previous []catalog.Variant) []catalog.Variant {
	return catalog.GenerateVariants(attrs, previous)
}

func normalize(p catalog.Product) (catalog.Product, error) {
	if p.Name == "" {
		return catalog.Product{}, ErrNameRequired
	}

	if !p.HasVariations {
		if p.Price <= 0 {
			return catalog.Product{}, ErrInvalidPrice
		}
		p.Attributes = nil
		p.Variants = nil
		p.DiscountedPrice = applyPercent(p.Price, p.DiscountPercent, p.DiscountedPrice)
		if p.StockStatus == "" {
			p.StockStatus = catalog.StockIn
		}
		return p, nil
	}

	if !hasOptions(p.Attributes) {
		return catalog.Product{}, ErrNoAttributes
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		if !coversAttributes(p.Attributes, v.Combination) {
			return catalog.Product{}, ErrIncompleteVariant
		}
		if v.Price < 0 {
			return catalog.Product{}, ErrInvalidPrice
		}
		v.DiscountedPrice = applyPercent(v.Price, v.DiscountPercent, v.DiscountedPrice)
		if v.Stock == "" {
			v.Stock = catalog.StockOut
		}
	}
	return p, nil
}

// applyPercent derives the discounted amount when a percent is set; an
// explicit discounted price without a percent is kept as given.
func applyPercent(price float64, percent *float64, current *float64) *float64 {
	if percent == nil || *percent <= 0 || price <= 0 {
		return current
	}
	derived := pricing.DeriveDiscounted(price, *percent)
	return &derived
}

func hasOptions(attrs []catalog.Attribute) bool {
	if len(attrs) == 0 {
		return false
	}
	for _, a := range attrs {
		if a.Name == "" || len(a.Options) == 0 {
			return false
		}
	}
	return true
}

func coversAttributes(attrs []catalog.Attribute, combination map[string]string) bool {
	for _, a := range attrs {
		if _, ok := combination[a.Name]; !ok {
			return false
		}
	}
	return true
}
