package identity

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("user not found")
)

// SignupRequest is the payload forwarded to the upstream signup endpoint.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email,omitempty"`
	Address Address `json:"address"`
}

// Repository talks to the upstream identity endpoints. Responses stay raw so
// Normalize runs exactly once, on this package's terms.
type Repository interface {
	Login(ctx context.Context, email, password string) (json.RawMessage, error)
	Signup(ctx context.Context, req SignupRequest) (json.RawMessage, error)
	Fetch(ctx context.Context, kind Kind, id string) (json.RawMessage, error)
	UpdateUser(ctx context.Context, id string, upd ProfileUpdate) (json.RawMessage, error)
	UpdateCustomer(ctx context.Context, id string, upd ProfileUpdate) (json.RawMessage, error)
}

// FakeRepository serves canned identity blobs for tests. Shape controls the
// envelope of login/fetch responses so normalization paths can be exercised.
type FakeRepository struct {
	mu       sync.Mutex
	Shape    Kind
	Password string
	Users    map[string]*rawRecord // by email and by id

	// FailWith makes signup and profile updates fail with the given error.
	FailWith error
}

func NewFakeRepository(shape Kind) *FakeRepository {
	return &FakeRepository{Shape: shape, Users: make(map[string]*rawRecord)}
}

// Seed registers a user reachable by both email and id.
func (f *FakeRepository) Seed(id, email, name, phone string, addr Address) {
	rec := &rawRecord{ID: id, Name: name, Phone: phone, Email: email, Address: addr}
	f.Users[email] = rec
	f.Users[id] = rec
}

func (f *FakeRepository) wrap(rec *rawRecord) (json.RawMessage, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	switch f.Shape {
	case KindUser:
		return json.Marshal(map[string]json.RawMessage{"user": body})
	case KindCustomer:
		return json.Marshal(map[string]json.RawMessage{"customer": body})
	default:
		return body, nil
	}
}

func (f *FakeRepository) Login(ctx context.Context, email, password string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.Users[email]
	if !ok || (f.Password != "" && password != f.Password) {
		return nil, ErrInvalidCredentials
	}
	return f.wrap(rec)
}

func (f *FakeRepository) Signup(ctx context.Context, req SignupRequest) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return nil, f.FailWith
	}
	rec := &rawRecord{ID: "u-" + req.Email, Name: req.Name, Phone: req.Phone, Email: req.Email}
	f.Users[req.Email] = rec
	f.Users[rec.ID] = rec
	return f.wrap(rec)
}

func (f *FakeRepository) Fetch(ctx context.Context, kind Kind, id string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.Users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return f.wrap(rec)
}

func (f *FakeRepository) update(id string, upd ProfileUpdate) (json.RawMessage, error) {
	if f.FailWith != nil {
		return nil, f.FailWith
	}
	rec, ok := f.Users[id]
	if !ok {
		return nil, ErrNotFound
	}
	rec.Name = upd.Name
	rec.Phone = upd.Phone
	if upd.Email != "" {
		rec.Email = upd.Email
	}
	rec.Address = upd.Address
	return f.wrap(rec)
}

func (f *FakeRepository) UpdateUser(ctx context.Context, id string, upd ProfileUpdate) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.update(id, upd)
}

func (f *FakeRepository) UpdateCustomer(ctx context.Context, id string, upd ProfileUpdate) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.update(id, upd)
}
