package checkout

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/catalog"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/upstream"
)

type stubProducts struct {
	products map[string]catalog.Product
}

func (s *stubProducts) Get(ctx context.Context, id string) (catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func makeApp(fx *fixture) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			claims := jwt.MapClaims{"user_id": v, "sid": "sid-" + v}
			c.Locals("user", &jwt.Token{Claims: claims})
		}
		return c.Next()
	})
	products := &stubProducts{products: map[string]catalog.Product{
		"mug":   mug(),
		"shirt": shirt(),
	}}
	NewHandler(fx.service, products).RegisterProtectedRoutes(app)
	return app
}

func TestCheckoutRoutes_RequireSession(t *testing.T) {
	app := makeApp(newFixture())
	req := httptest.NewRequest("POST", "/api/v1/checkout/cart", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
}

func TestCheckoutRoutes_ProfileGateSignals(t *testing.T) {
	fx := newFixture()
	incomplete := buyer()
	incomplete.Address.City = ""
	fx.profiles.set("sid-u1", incomplete)
	app := makeApp(fx)

	req := httptest.NewRequest("POST", "/api/v1/checkout/buy-now",
		strings.NewReader(`{"productId":"mug","quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 from the profile gate, got %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), `"profileRequired":true`) {
		t.Fatalf("expected a profileRequired marker, got %s", string(body))
	}
}

func TestCheckoutRoutes_BuyNowDraftAndSubmit(t *testing.T) {
	fx := newFixture()
	fx.profiles.set("sid-u1", buyer())
	app := makeApp(fx)

	req := httptest.NewRequest("POST", "/api/v1/checkout/buy-now",
		strings.NewReader(`{"productId":"shirt","quantity":3,"selectedAttributes":{"Size":"M"}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for buy now, got %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), `"subtotal":1200`) {
		t.Fatalf("expected subtotal 1200, got %s", string(body))
	}

	req = httptest.NewRequest("GET", "/api/v1/checkout/draft", nil)
	req.Header.Set("X-User-ID", "u1")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for draft fetch, got %d", res.StatusCode)
	}

	req = httptest.NewRequest("POST", "/api/v1/checkout/submit", nil)
	req.Header.Set("X-User-ID", "u1")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for submit, got %d", res.StatusCode)
	}
	body, _ = io.ReadAll(res.Body)
	if !strings.Contains(string(body), `"order"`) {
		t.Fatalf("expected the created order in the response, got %s", string(body))
	}

	// the draft is consumed
	req = httptest.NewRequest("GET", "/api/v1/checkout/draft", nil)
	req.Header.Set("X-User-ID", "u1")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 after submit, got %d", res.StatusCode)
	}
}

func TestCheckoutRoutes_BuyNowWithoutQuantityRejected(t *testing.T) {
	fx := newFixture()
	fx.profiles.set("sid-u1", buyer())
	app := makeApp(fx)

	req := httptest.NewRequest("POST", "/api/v1/checkout/buy-now", strings.NewReader(`{"productId":"mug"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 without a quantity, got %d", res.StatusCode)
	}
}

func TestCheckoutRoutes_UpstreamMessagePassesThroughVerbatim(t *testing.T) {
	fx := newFixture()
	fx.profiles.set("sid-u1", buyer())
	app := makeApp(fx)

	req := httptest.NewRequest("POST", "/api/v1/checkout/buy-now",
		strings.NewReader(`{"productId":"mug","quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	if res, _ := app.Test(req); res.StatusCode != fiber.StatusOK {
		t.Fatalf("buy now failed: %d", res.StatusCode)
	}

	fx.repo.FailWith = &upstream.Error{Status: fiber.StatusConflict, Message: "insufficient stock for Mug"}
	req = httptest.NewRequest("POST", "/api/v1/checkout/submit", nil)
	req.Header.Set("X-User-ID", "u1")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected the upstream status 409, got %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), `"message":"insufficient stock for Mug"`) {
		t.Fatalf("expected the server message verbatim, got %s", string(body))
	}
	if strings.Contains(string(body), "upstream:") {
		t.Fatalf("internal error prefix leaked to the client: %s", string(body))
	}
}

func TestOrderRoutes_HistoryAndMarkViewed(t *testing.T) {
	fx := newFixture()
	fx.profiles.set("sid-u1", buyer())
	app := makeApp(fx)

	req := httptest.NewRequest("POST", "/api/v1/checkout/buy-now", strings.NewReader(`{"productId":"mug","quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	app.Test(req)
	req = httptest.NewRequest("POST", "/api/v1/checkout/submit", nil)
	req.Header.Set("X-User-ID", "u1")
	app.Test(req)

	req = httptest.NewRequest("GET", "/api/v1/orders", nil)
	req.Header.Set("X-User-ID", "u1")
	res, _ := app.Test(req)
	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != fiber.StatusOK || !strings.Contains(string(body), `"viewed":false`) {
		t.Fatalf("expected one unviewed order, got %d %s", res.StatusCode, string(body))
	}

	req = httptest.NewRequest("PUT", "/api/v1/orders/mark-viewed", nil)
	req.Header.Set("X-User-ID", "u1")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for mark-viewed, got %d", res.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/v1/orders", nil)
	req.Header.Set("X-User-ID", "u1")
	res, _ = app.Test(req)
	body, _ = io.ReadAll(res.Body)
	if !strings.Contains(string(body), `"viewed":true`) {
		t.Fatalf("expected orders marked viewed, got %s", string(body))
	}
}
