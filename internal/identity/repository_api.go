package identity

import (
	"context"
	"encoding/json"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/upstream"
)

// APIRepository calls the upstream identity endpoints. The users/customers
// split mirrors the two upstream login surfaces; Kind decides the route.
type APIRepository struct {
	api *upstream.Client
}

func NewAPIRepository(api *upstream.Client) *APIRepository {
	return &APIRepository{api: api}
}

func (r *APIRepository) Login(ctx context.Context, email, password string) (json.RawMessage, error) {
	var out json.RawMessage
	payload := map[string]string{"email": email, "password": password}
	if err := r.api.Post(ctx, "/users/login", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *APIRepository) Signup(ctx context.Context, req SignupRequest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := r.api.Post(ctx, "/users", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *APIRepository) Fetch(ctx context.Context, kind Kind, id string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := r.api.Get(ctx, profilePath(kind, id), &out); err != nil {
		if upstream.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

func (r *APIRepository) UpdateUser(ctx context.Context, id string, upd ProfileUpdate) (json.RawMessage, error) {
	var out json.RawMessage
	if err := r.api.Put(ctx, "/users/"+id, upd, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *APIRepository) UpdateCustomer(ctx context.Context, id string, upd ProfileUpdate) (json.RawMessage, error) {
	var out json.RawMessage
	if err := r.api.Put(ctx, "/customers/"+id, upd, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func profilePath(kind Kind, id string) string {
	if kind == KindCustomer {
		return "/customers/" + id
	}
	return "/users/" + id
}
