package identity

import (
	"encoding/json"
	"errors"
	"strings"
)

// Kind records which login shape produced the session blob. It is resolved
// once at session load and drives which upstream profile endpoint to use;
// call sites never re-sniff the raw blob.
type Kind string

const (
	KindUser     Kind = "user"
	KindCustomer Kind = "customer"
	KindFlat     Kind = "flat"
)

var (
	ErrNoUserID = errors.New("session record has no user id")
)

// Address is the delivery address stored on the user record.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

// User is the single normalized identity record used everywhere in this
// service, regardless of which upstream login shape produced it.
type User struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email,omitempty"`
	Address         Address `json:"address"`
	ProfileComplete *bool   `json:"profileComplete,omitempty"`
	Kind            Kind    `json:"kind"`
}

// IsComplete reports whether the record satisfies the minimum field set for
// placing an order. A backend-computed profileComplete=true short-circuits;
// otherwise name, phone and the core address fields are all required. Email
// and country are not (country has a configured default).
func (u User) IsComplete() bool {
	if u.ProfileComplete != nil && *u.ProfileComplete {
		return true
	}
	required := []string{
		u.Name,
		u.Phone,
		u.Address.Street,
		u.Address.City,
		u.Address.State,
		u.Address.Pincode,
	}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

// rawRecord tolerates the id aliases the upstream uses across login shapes.
type rawRecord struct {
	ID              string  `json:"id"`
	MongoID         string  `json:"_id"`
	UserID          string  `json:"userId"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email"`
	Address         Address `json:"address"`
	ProfileComplete *bool   `json:"profileComplete"`
}

func (r rawRecord) id() string {
	switch {
	case r.ID != "":
		return r.ID
	case r.MongoID != "":
		return r.MongoID
	default:
		return r.UserID
	}
}

// Normalize folds the upstream identity blob into a User. The blob may nest
// the record under a "user" or "customer" key, or be the record itself.
func Normalize(raw json.RawMessage) (User, error) {
	var envelope struct {
		User     *rawRecord `json:"user"`
		Customer *rawRecord `json:"customer"`
	}
	// envelope sniffing can fail on flat blobs with scalar "user" fields;
	// fall through to flat parsing in that case
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.User != nil && envelope.User.id() != "" {
			return fromRecord(*envelope.User, KindUser)
		}
		if envelope.Customer != nil && envelope.Customer.id() != "" {
			return fromRecord(*envelope.Customer, KindCustomer)
		}
	}

	var flat rawRecord
	if err := json.Unmarshal(raw, &flat); err != nil {
		return User{}, err
	}
	return fromRecord(flat, KindFlat)
}

func fromRecord(r rawRecord, kind Kind) (User, error) {
	if r.id() == "" {
		return User{}, ErrNoUserID
	}
	return User{
		ID:              r.id(),
		Name:            r.Name,
		Phone:           r.Phone,
		Email:           r.Email,
		Address:         r.Address,
		ProfileComplete: r.ProfileComplete,
		Kind:            kind,
	}, nil
}
