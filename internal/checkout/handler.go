package checkout

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/catalog"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/identity"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/upstream"
)

// ProductSource loads products for buy-now requests.
type ProductSource interface {
	Get(ctx context.Context, id string) (catalog.Product, error)
}

// Handler exposes the checkout and order endpoints. All of them require a
// session.
type Handler struct {
	service  *Service
	products ProductSource
}

func NewHandler(service *Service, products ProductSource) *Handler {
	return &Handler{service: service, products: products}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/checkout/cart", h.startCart)
	app.Post("/api/v1/checkout/buy-now", h.startBuyNow)
	app.Get("/api/v1/checkout/draft", h.getDraft)
	app.Put("/api/v1/checkout/draft/items/:productId", h.setQuantity)
	app.Post("/api/v1/checkout/resume", h.resume)
	app.Post("/api/v1/checkout/submit", h.submit)

	app.Get("/api/v1/orders", h.listOrders)
	app.Get("/api/v1/orders/:id", h.getOrder)
	app.Put("/api/v1/orders/mark-viewed", h.markViewed)
}

// draftResponse serializes the draft with its totals computed at response
// time; the stored draft never carries amounts.
func draftResponse(c *fiber.Ctx, d Draft) error {
	return c.JSON(fiber.Map{
		"success":  true,
		"draft":    d,
		"subtotal": d.Subtotal(),
		"tax":      d.Tax(),
		"total":    d.Total(),
	})
}

func checkoutError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrProfileIncomplete):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":         false,
			"profileRequired": true,
			"message":         "please complete your profile to continue",
		})
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrLineNotFound), errors.Is(err, ErrUnpriced),
		errors.Is(err, ErrOutOfStock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, ErrVariantRequired):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, ErrNoDraft), errors.Is(err, ErrNoPendingIntent), errors.Is(err, ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, ErrSubmissionInFlight):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	// upstream rejections pass through with the server's own status and message
	var ue *upstream.Error
	if errors.As(err, &ue) {
		return c.Status(ue.Status).JSON(fiber.Map{"success": false, "message": ue.Message})
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "message": err.Error()})
}

func (h *Handler) startCart(c *fiber.Ctx) error {
	claims, err := identity.SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	draft, err := h.service.StartCart(c.Context(), claims.SID, claims.UserID)
	if err != nil {
		return checkoutError(c, err)
	}
	return draftResponse(c, draft)
}

type buyNowRequest struct {
	ProductID          string            `json:"productId"`
	Quantity           int               `json:"quantity"`
	SelectedAttributes map[string]string `json:"selectedAttributes,omitempty"`
}

func (h *Handler) startBuyNow(c *fiber.Ctx) error {
	claims, err := identity.SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}

	payload := new(buyNowRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if payload.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "productId is required"})
	}
	if payload.Quantity < 1 {
		return checkoutError(c, ErrInvalidQuantity)
	}

	product, err := h.products.Get(c.Context(), payload.ProductID)
	if err != nil {
		if err == catalog.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "product not found"})
		}
		return checkoutError(c, err)
	}

	draft, err := h.service.StartBuyNow(c.Context(), claims.SID, product, payload.SelectedAttributes, payload.Quantity)
	if err != nil {
		return checkoutError(c, err)
	}
	return draftResponse(c, draft)
}

func (h *Handler) getDraft(c *fiber.Ctx) error {
	claims, err := identity.SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	draft, err := h.service.Draft(c.Context(), claims.SID)
	if err != nil {
		return checkoutError(c, err)
	}
	return draftResponse(c, draft)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) setQuantity(c *fiber.Ctx) error {
	claims, err := identity.SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	payload := new(quantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	draft, err := h.service.SetQuantity(c.Context(), claims.SID, c.Params("productId"), payload.Quantity)
	if err != nil {
		return checkoutError(c, err)
	}
	return draftResponse(c, draft)
}

func (h *Handler) resume(c *fiber.Ctx) error {
	claims, err := identity.SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	draft, err := h.service.Resume(c.Context(), claims.SID, claims.UserID)
	if err != nil {
		return checkoutError(c, err)
	}
	return draftResponse(c, draft)
}

func (h *Handler) submit(c *fiber.Ctx) error {
	claims, err := identity.SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	order, err := h.service.Submit(c.Context(), claims.SID, claims.UserID)
	if err != nil {
		return checkoutError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "order placed", "order": order})
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	claims, err := identity.SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	orders, err := h.service.Orders(c.Context(), claims.UserID)
	if err != nil {
		return checkoutError(c, err)
	}
	if orders == nil {
		orders = []Order{}
	}
	return c.JSON(fiber.Map{"success": true, "orders": orders})
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	if _, err := identity.SessionFromCtx(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	order, err := h.service.Order(c.Context(), c.Params("id"))
	if err != nil {
		return checkoutError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "order": order})
}

func (h *Handler) markViewed(c *fiber.Ctx) error {
	claims, err := identity.SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	if err := h.service.MarkViewed(c.Context(), claims.UserID); err != nil {
		return checkoutError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "orders marked as viewed"})
}
