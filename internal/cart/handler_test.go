package cart

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

func makeApp(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			claims := jwt.MapClaims{"user_id": v, "sid": "sid-" + v}
			c.Locals("user", &jwt.Token{Claims: claims})
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func newCartApp() *fiber.App {
	store := NewStore(NewFakeRepository())
	products := &stubProducts{products: map[string]catalog.Product{
		"mug":   mug(),
		"shirt": shirt(),
	}}
	return makeApp(NewHandler(store, products))
}

func TestCartRoutes_RequireSession(t *testing.T) {
	app := newCartApp()

	req := httptest.NewRequest("GET", "/api/v1/cart", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated GET, got %d", res.StatusCode)
	}

	req = httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(`{"productId":"mug"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated POST, got %d", res.StatusCode)
	}
}

func TestCartRoutes_AddFetchUpdateRemoveClear(t *testing.T) {
	app := newCartApp()

	// add a simple product
	req := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(`{"productId":"mug","quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for add, got %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), `"totalAmount":160`) {
		t.Fatalf("expected server-confirmed total 160, got %s", string(body))
	}
	if !strings.Contains(string(body), `"itemCount":2`) {
		t.Fatalf("expected itemCount 2, got %s", string(body))
	}

	// add a variant product with a resolved selection
	req = httptest.NewRequest("POST", "/api/v1/cart/items",
		strings.NewReader(`{"productId":"shirt","quantity":1,"selectedAttributes":{"Size":"M"}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for variant add, got %d", res.StatusCode)
	}
	body, _ = io.ReadAll(res.Body)
	if !strings.Contains(string(body), `"totalAmount":560`) {
		t.Fatalf("expected total 560 after variant add, got %s", string(body))
	}

	// quantity below 1 must be rejected
	req = httptest.NewRequest("PUT", "/api/v1/cart/items/mug", strings.NewReader(`{"quantity":0}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", res.StatusCode)
	}

	// remove the shirt
	req = httptest.NewRequest("DELETE", "/api/v1/cart/items/shirt", nil)
	req.Header.Set("X-User-ID", "u1")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for remove, got %d", res.StatusCode)
	}
	body, _ = io.ReadAll(res.Body)
	if strings.Contains(string(body), `"shirt"`) {
		t.Fatalf("expected shirt removed, got %s", string(body))
	}

	// clear
	req = httptest.NewRequest("DELETE", "/api/v1/cart", nil)
	req.Header.Set("X-User-ID", "u1")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for clear, got %d", res.StatusCode)
	}
	body, _ = io.ReadAll(res.Body)
	if !strings.Contains(string(body), `"itemCount":0`) {
		t.Fatalf("expected empty cart after clear, got %s", string(body))
	}
}

func TestCartRoutes_VariantRequired(t *testing.T) {
	app := newCartApp()

	// no selection at all
	req := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(`{"productId":"shirt","quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without a variant selection, got %d", res.StatusCode)
	}

	// invalid selection
	req = httptest.NewRequest("POST", "/api/v1/cart/items",
		strings.NewReader(`{"productId":"shirt","quantity":1,"selectedAttributes":{"Size":"XXL"}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unresolvable selection, got %d", res.StatusCode)
	}
}

func TestCartRoutes_UnknownProduct(t *testing.T) {
	app := newCartApp()
	req := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(`{"productId":"ghost","quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", res.StatusCode)
	}
}

func TestCartRoutes_AddWithoutQuantityRejected(t *testing.T) {
	app := newCartApp()
	req := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(`{"productId":"mug"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 without a quantity, got %d", res.StatusCode)
	}
}

func TestCartRoutes_UpstreamMessagePassesThroughVerbatim(t *testing.T) {
	repo := NewFakeRepository()
	store := NewStore(repo)
	products := &stubProducts{products: map[string]catalog.Product{"mug": mug()}}
	app := makeApp(NewHandler(store, products))

	req := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(`{"productId":"mug","quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	if res, _ := app.Test(req); res.StatusCode != fiber.StatusOK {
		t.Fatalf("seed add failed: %d", res.StatusCode)
	}

	repo.FailWith = &upstream.Error{Status: fiber.StatusConflict, Message: "insufficient stock for Mug"}
	req = httptest.NewRequest("PUT", "/api/v1/cart/items/mug", strings.NewReader(`{"quantity":4}`))
	req.Header.Set("Content-Type", "application/json")
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
