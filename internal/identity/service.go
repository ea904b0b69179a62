package identity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/session"
)

// Service owns login, signup and profile maintenance. It normalizes the
// upstream identity blob once per session and keeps the result in the
// session store under the sid carried by the gateway JWT.
type Service struct {
	repo           Repository
	store          session.Store
	jwtSecret      []byte
	sessionTTL     time.Duration
	defaultCountry string
}

func NewService(repo Repository, store session.Store, jwtSecret string, sessionTTL time.Duration, defaultCountry string) *Service {
	return &Service{
		repo:           repo,
		store:          store,
		jwtSecret:      []byte(jwtSecret),
		sessionTTL:     sessionTTL,
		defaultCountry: defaultCountry,
	}
}

// Login authenticates against the upstream and opens a gateway session.
// Returns the normalized user and a signed session token.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	raw, err := s.repo.Login(ctx, email, password)
	if err != nil {
		return User{}, "", err
	}
	return s.openSession(ctx, raw)
}

// Signup registers upstream and opens a session for the new user.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (User, string, error) {
	raw, err := s.repo.Signup(ctx, req)
	if err != nil {
		return User{}, "", err
	}
	return s.openSession(ctx, raw)
}

func (s *Service) openSession(ctx context.Context, raw json.RawMessage) (User, string, error) {
	u, err := Normalize(raw)
	if err != nil {
		return User{}, "", err
	}
	u = s.applyDefaults(u)

	sid := uuid.NewString()
	if err := s.saveUser(ctx, sid, u); err != nil {
		return User{}, "", err
	}

	token, err := s.issueToken(u.ID, sid)
	if err != nil {
		return User{}, "", err
	}
	return u, token, nil
}

// Current returns the session's normalized user.
func (s *Service) Current(ctx context.Context, sid string) (User, error) {
	raw, err := s.store.Load(ctx, sid, session.FieldIdentity)
	if err != nil {
		return User{}, err
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Fresh re-fetches the user from the upstream, bypassing the session copy.
// Checkout calls this right before submission: address edits are far more
// likely than price changes inside the checkout window.
func (s *Service) Fresh(ctx context.Context, u User) (User, error) {
	raw, err := s.repo.Fetch(ctx, u.Kind, u.ID)
	if err != nil {
		return User{}, err
	}
	fresh, err := Normalize(raw)
	if err != nil {
		return User{}, err
	}
	// a flat fetch response must not lose the session's resolved kind
	fresh.Kind = u.Kind
	return s.applyDefaults(fresh), nil
}

// UpdateProfile routes the edit to the endpoint matching the session's login
// shape and refreshes the stored record.
func (s *Service) UpdateProfile(ctx context.Context, sid string, upd ProfileUpdate) (User, error) {
	current, err := s.Current(ctx, sid)
	if err != nil {
		return User{}, err
	}

	var raw json.RawMessage
	if current.Kind == KindCustomer {
		raw, err = s.repo.UpdateCustomer(ctx, current.ID, upd)
	} else {
		raw, err = s.repo.UpdateUser(ctx, current.ID, upd)
	}
	if err != nil {
		return User{}, err
	}

	updated, err := Normalize(raw)
	if err != nil {
		// some upstream deployments answer updates with a bare ack; fall
		// back to a fresh fetch so the session never holds a stale profile
		updated, err = s.Fresh(ctx, current)
		if err != nil {
			return User{}, err
		}
	}
	updated.Kind = current.Kind
	updated = s.applyDefaults(updated)

	if err := s.saveUser(ctx, sid, updated); err != nil {
		return User{}, err
	}
	return updated, nil
}

// Logout drops the session record.
func (s *Service) Logout(ctx context.Context, sid string) error {
	return s.store.Delete(ctx, sid, session.FieldIdentity)
}

func (s *Service) saveUser(ctx context.Context, sid string, u User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, sid, session.FieldIdentity, raw)
}

func (s *Service) applyDefaults(u User) User {
	if u.Address.Country == "" {
		u.Address.Country = s.defaultCountry
	}
	return u
}

func (s *Service) issueToken(userID, sid string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"sid":     sid,
		"exp":     time.Now().Add(s.sessionTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
