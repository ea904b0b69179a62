package seller

import (
	"context"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/catalog"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/upstream"
)

// APIRepository talks to the commerce API's product management endpoints.
type APIRepository struct {
	api *upstream.Client
}

func NewAPIRepository(api *upstream.Client) *APIRepository {
	return &APIRepository{api: api}
}

func (r *APIRepository) Create(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	var out catalog.Product
	if err := r.api.Post(ctx, "/products", p, &out); err != nil {
		return catalog.Product{}, err
	}
	return out, nil
}

func (r *APIRepository) Update(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	var out catalog.Product
	err := r.api.Put(ctx, "/products/"+p.ProductID, p, &out)
	if upstream.IsNotFound(err) {
		return catalog.Product{}, ErrNotFound
	}
	if err != nil {
		return catalog.Product{}, err
	}
	return out, nil
}

func (r *APIRepository) Delete(ctx context.Context, productID string) error {
	err := r.api.Delete(ctx, "/products/"+productID, nil, nil)
	if upstream.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}

func (r *APIRepository) BySeller(ctx context.Context, sellerID string) ([]catalog.Product, error) {
	var out []catalog.Product
	err := r.api.Get(ctx, "/products/seller/"+sellerID, &out)
	if upstream.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
