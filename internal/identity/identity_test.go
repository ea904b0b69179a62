package identity

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/session"
)

func completeAddress() Address {
	return Address{Street: "1 Main St", City: "Pune", State: "MH", Pincode: "411001", Country: "India"}
}

func TestNormalize_AllShapesConverge(t *testing.T) {
	record := `{"id":"u1","name":"Asha","phone":"999","email":"a@x.io","address":{"street":"1 Main St","city":"Pune","state":"MH","pincode":"411001","country":"India"}}`
	cases := []struct {
		blob string
		kind Kind
	}{
		{`{"user":` + record + `}`, KindUser},
		{`{"customer":` + record + `}`, KindCustomer},
		{record, KindFlat},
	}
	for _, tc := range cases {
		u, err := Normalize(json.RawMessage(tc.blob))
		if err != nil {
			t.Fatalf("%s: normalize failed: %v", tc.kind, err)
		}
		if u.Kind != tc.kind {
			t.Fatalf("kind = %s, want %s", u.Kind, tc.kind)
		}
		if u.ID != "u1" || u.Name != "Asha" || u.Phone != "999" || u.Address.Pincode != "411001" {
			t.Fatalf("%s: record fields lost: %+v", tc.kind, u)
		}
	}
}

func TestNormalize_IDAliases(t *testing.T) {
	for _, blob := range []string{
		`{"_id":"m1","name":"A"}`,
		`{"userId":"m1","name":"A"}`,
	} {
		u, err := Normalize(json.RawMessage(blob))
		if err != nil {
			t.Fatalf("normalize %s: %v", blob, err)
		}
		if u.ID != "m1" {
			t.Fatalf("id alias not normalized: %+v", u)
		}
	}
}

func TestNormalize_MissingID(t *testing.T) {
	if _, err := Normalize(json.RawMessage(`{"name":"ghost"}`)); err != ErrNoUserID {
		t.Fatalf("expected ErrNoUserID, got %v", err)
	}
}

func TestIsComplete_FastPathTrustsBackendFlag(t *testing.T) {
	yes := true
	u := User{ID: "u1", ProfileComplete: &yes}
	if !u.IsComplete() {
		t.Fatal("backend profileComplete=true must short-circuit")
	}
	no := false
	u = User{ID: "u1", ProfileComplete: &no, Name: "A", Phone: "9", Address: completeAddress()}
	if !u.IsComplete() {
		t.Fatal("a false flag still allows the field check to pass")
	}
}

func TestIsComplete_MissingPincodeBlocksAndFixUnblocks(t *testing.T) {
	u := User{ID: "u1", Name: "Asha", Phone: "999", Address: completeAddress()}
	u.Address.Pincode = ""
	if u.IsComplete() {
		t.Fatal("missing pincode must make the profile incomplete")
	}
	u.Address.Pincode = "411001"
	if !u.IsComplete() {
		t.Fatal("setting the pincode must flip the gate")
	}
}

func TestIsComplete_EmailAndCountryNotRequired(t *testing.T) {
	u := User{ID: "u1", Name: "Asha", Phone: "999", Address: completeAddress()}
	u.Email = ""
	u.Address.Country = ""
	if !u.IsComplete() {
		t.Fatal("email and country must not be required")
	}
}

func newTestService(shape Kind) (*Service, *FakeRepository) {
	repo := NewFakeRepository(shape)
	store := session.NewInMemoryStore()
	return NewService(repo, store, "test-secret", time.Hour, "India"), repo
}

func TestService_LoginNormalizesAndStoresSession(t *testing.T) {
	svc, repo := newTestService(KindCustomer)
	repo.Seed("u1", "a@x.io", "Asha", "999", completeAddress())

	u, token, err := svc.Login(context.Background(), "a@x.io", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
	if u.Kind != KindCustomer {
		t.Fatalf("kind = %s, want customer", u.Kind)
	}
}

func TestService_DefaultCountryApplied(t *testing.T) {
	svc, repo := newTestService(KindFlat)
	addr := completeAddress()
	addr.Country = ""
	repo.Seed("u1", "a@x.io", "Asha", "999", addr)

	u, _, err := svc.Login(context.Background(), "a@x.io", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if u.Address.Country != "India" {
		t.Fatalf("country = %q, want default", u.Address.Country)
	}
}

func sidFromToken(t *testing.T, token string) string {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	sid, _ := parsed.Claims.(jwt.MapClaims)["sid"].(string)
	if sid == "" {
		t.Fatal("token missing sid claim")
	}
	return sid
}

func TestService_UpdateProfileRefreshesSession(t *testing.T) {
	svc, repo := newTestService(KindUser)
	repo.Seed("u1", "a@x.io", "Asha", "999", Address{})

	u, token, err := svc.Login(context.Background(), "a@x.io", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if u.IsComplete() {
		t.Fatal("seeded user should start incomplete")
	}
	sid := sidFromToken(t, token)

	updated, err := svc.UpdateProfile(context.Background(), sid, ProfileUpdate{
		Name:    "Asha",
		Phone:   "999",
		Address: completeAddress(),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.IsComplete() {
		t.Fatalf("profile should be complete after the update: %+v", updated)
	}

	// the session copy must reflect the update
	current, err := svc.Current(context.Background(), sid)
	if err != nil {
		t.Fatalf("current failed: %v", err)
	}
	if current.Address.Pincode != "411001" {
		t.Fatalf("session record not refreshed: %+v", current.Address)
	}
	if current.Kind != KindUser {
		t.Fatalf("kind must survive the update, got %s", current.Kind)
	}
}

func TestService_Fresh(t *testing.T) {
	svc, repo := newTestService(KindFlat)
	repo.Seed("u1", "a@x.io", "Asha", "999", Address{})

	u, _, err := svc.Login(context.Background(), "a@x.io", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// upstream profile changes behind the session's back
	repo.Users["u1"].Address = completeAddress()

	fresh, err := svc.Fresh(context.Background(), u)
	if err != nil {
		t.Fatalf("fresh fetch failed: %v", err)
	}
	if fresh.Address.Pincode != "411001" {
		t.Fatalf("fresh fetch missed the upstream edit: %+v", fresh.Address)
	}
	if fresh.Kind != u.Kind {
		t.Fatalf("fresh fetch must keep the resolved kind, got %s", fresh.Kind)
	}
}
