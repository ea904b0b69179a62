package cart

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/catalog"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/identity"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/upstream"
)

// ProductSource loads products for add-to-cart requests.
type ProductSource interface {
	Get(ctx context.Context, id string) (catalog.Product, error)
}

// Handler exposes the cart endpoints. All of them require a session.
type Handler struct {
	store    *Store
	products ProductSource
}

func NewHandler(store *Store, products ProductSource) *Handler {
	return &Handler{store: store, products: products}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Put("/api/v1/cart/items/:productId", h.updateQuantity)
	app.Delete("/api/v1/cart/items/:productId", h.removeItem)
	app.Delete("/api/v1/cart", h.clearCart)
}

func cartResponse(c *fiber.Ctx, snapshot Cart, message string) error {
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   message,
		"cart":      snapshot,
		"itemCount": snapshot.ItemCount(),
	})
}

func cartError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotLoggedIn):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrVariantRequired),
		errors.Is(err, ErrUnpriced), errors.Is(err, ErrOutOfStock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	// upstream rejections pass through with the server's own status and message
	var ue *upstream.Error
	if errors.As(err, &ue) {
		return c.Status(ue.Status).JSON(fiber.Map{"success": false, "message": ue.Message})
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "message": err.Error()})
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	claims, err := identity.SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	snapshot, err := h.store.Fetch(c.Context(), claims.UserID)
	if err != nil {
		return cartError(c, err)
	}
	return cartResponse(c, snapshot, "")
}

type addItemRequest struct {
	ProductID          string            `json:"productId"`
	Quantity           int               `json:"quantity"`
	SelectedAttributes map[string]string `json:"selectedAttributes,omitempty"`
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	claims, err := identity.SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}

	payload := new(addItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if payload.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "productId is required"})
	}
	if payload.Quantity < 1 {
		return cartError(c, ErrInvalidQuantity)
	}

	product, err := h.products.Get(c.Context(), payload.ProductID)
	if err != nil {
		if err == catalog.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "product not found"})
		}
		return cartError(c, err)
	}

	var variant *catalog.Variant
	if product.HasVariations {
		variant = catalog.ResolveVariant(product, payload.SelectedAttributes)
		if variant == nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"success": false, "message": ErrVariantRequired.Error()})
		}
	}

	snapshot, err := h.store.Add(c.Context(), claims.UserID, product, payload.Quantity, variant)
	if err != nil {
		return cartError(c, err)
	}
	return cartResponse(c, snapshot, "added to cart")
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	claims, err := identity.SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}

	payload := new(quantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	snapshot, err := h.store.UpdateQuantity(c.Context(), claims.UserID, c.Params("productId"), payload.Quantity)
	if err != nil {
		return cartError(c, err)
	}
	return cartResponse(c, snapshot, "quantity updated")
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	claims, err := identity.SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}

	snapshot, err := h.store.Remove(c.Context(), claims.UserID, c.Params("productId"))
	if err != nil {
		return cartError(c, err)
	}
	return cartResponse(c, snapshot, "removed from cart")
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	claims, err := identity.SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}

	snapshot, err := h.store.Clear(c.Context(), claims.UserID)
	if err != nil {
		return cartError(c, err)
	}
	return cartResponse(c, snapshot, "cart cleared")
}
