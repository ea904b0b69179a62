package checkout

import (
	"context"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/upstream"
)

// APIRepository talks to the commerce API's order endpoints.
type APIRepository struct {
	api *upstream.Client
}

func NewAPIRepository(api *upstream.Client) *APIRepository {
	return &APIRepository{api: api}
}

func (r *APIRepository) Create(ctx context.Context, req OrderRequest) (Order, error) {
	var out Order
	if err := r.api.Post(ctx, "/orders", req, &out); err != nil {
		return Order{}, err
	}
	return out, nil
}

func (r *APIRepository) Get(ctx context.Context, orderID string) (Order, error) {
	var out Order
	err := r.api.Get(ctx, "/orders/"+orderID, &out)
	if upstream.IsNotFound(err) {
		return Order{}, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, err
	}
	return out, nil
}

func (r *APIRepository) ByCustomer(ctx context.Context, userID string) ([]Order, error) {
	var out []Order
	err := r.api.Get(ctx, "/orders/customer/"+userID, &out)
	if upstream.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *APIRepository) MarkViewed(ctx context.Context, userID string) error {
	return r.api.Put(ctx, "/orders/customer/"+userID+"/mark-viewed", nil, nil)
}
