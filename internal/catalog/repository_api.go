package catalog

import (
	"context"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/upstream"
)

// APIRepository reads the catalog from the commerce API.
type APIRepository struct {
	api *upstream.Client
}

func NewAPIRepository(api *upstream.Client) *APIRepository {
	return &APIRepository{api: api}
}

func (r *APIRepository) List(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := r.api.Get(ctx, "/products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *APIRepository) ByIDs(ctx context.Context, ids []string) ([]Product, error) {
	var out []Product
	payload := map[string][]string{"productIds": ids}
	if err := r.api.Post(ctx, "/products/by-product-ids", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *APIRepository) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := r.api.Get(ctx, "/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *APIRepository) HighlightedBySeller(ctx context.Context, sellerID string) ([]Product, error) {
	var out []Product
	if err := r.api.Get(ctx, "/products/highlighted/"+sellerID, &out); err != nil {
		if upstream.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}
