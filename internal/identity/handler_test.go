package identity

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/upstream"
)

func TestProfileUpdate_UpstreamMessagePassesThroughVerbatim(t *testing.T) {
	svc, repo := newTestService(KindFlat)
	repo.Seed("u1", "a@x.io", "Asha", "999", Address{})

	_, token, err := svc.Login(context.Background(), "a@x.io", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	sid := sidFromToken(t, token)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": "u1", "sid": sid}})
		return c.Next()
	})
	NewHandler(svc).RegisterProtectedRoutes(app)

	repo.FailWith = &upstream.Error{Status: fiber.StatusUnprocessableEntity, Message: "phone number is not valid"}
	req := httptest.NewRequest("PUT", "/api/v1/profile", strings.NewReader(`{"phone":"abc"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected the upstream status 422, got %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), `"message":"phone number is not valid"`) {
		t.Fatalf("expected the server message verbatim, got %s", string(body))
	}
	if strings.Contains(string(body), "upstream:") {
		t.Fatalf("internal error prefix leaked to the client: %s", string(body))
	}
}
