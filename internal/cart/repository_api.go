package cart

import (
	"context"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/upstream"
)

// APIRepository drives the upstream cart endpoints. The upstream creates the
// cart on first add and is the sole authority for its contents.
type APIRepository struct {
	api *upstream.Client
}

func NewAPIRepository(api *upstream.Client) *APIRepository {
	return &APIRepository{api: api}
}

type addRequest struct {
	UserID          string           `json:"userId"`
	ProductID       string           `json:"productId"`
	Quantity        int              `json:"quantity"`
	Price           float64          `json:"price"`
	DiscountedPrice *float64         `json:"discountedPrice,omitempty"`
	Variant         *VariantSnapshot `json:"variant,omitempty"`
}

type updateRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type removeRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

func (r *APIRepository) Fetch(ctx context.Context, userID string) (Cart, error) {
	var out Cart
	if err := r.api.Get(ctx, "/cart/"+userID, &out); err != nil {
		// a user without a cart yet is an empty cart, not an error
		if upstream.IsNotFound(err) {
			return normalize(Cart{}), nil
		}
		return Cart{}, err
	}
	return normalize(out), nil
}

func (r *APIRepository) Add(ctx context.Context, userID string, item Item) (Cart, error) {
	payload := addRequest{
		UserID:          userID,
		ProductID:       item.Product.ProductID,
		Quantity:        item.Quantity,
		Price:           item.Price,
		DiscountedPrice: item.DiscountedPrice,
		Variant:         item.Variant,
	}
	var out Cart
	if err := r.api.Post(ctx, "/cart/add", payload, &out); err != nil {
		return Cart{}, err
	}
	return normalize(out), nil
}

func (r *APIRepository) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (Cart, error) {
	var out Cart
	payload := updateRequest{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := r.api.Put(ctx, "/cart/update", payload, &out); err != nil {
		return Cart{}, err
	}
	return normalize(out), nil
}

func (r *APIRepository) Remove(ctx context.Context, userID, productID string) (Cart, error) {
	var out Cart
	payload := removeRequest{UserID: userID, ProductID: productID}
	if err := r.api.Delete(ctx, "/cart/remove", payload, &out); err != nil {
		return Cart{}, err
	}
	return normalize(out), nil
}

func (r *APIRepository) Clear(ctx context.Context, userID string) (Cart, error) {
	if err := r.api.Delete(ctx, "/cart/clear", map[string]string{"userId": userID}, nil); err != nil {
		return Cart{}, err
	}
	return normalize(Cart{}), nil
}
