package seller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/catalog"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/identity"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/upstream"
)

// Handler exposes the seller-side product management endpoints. All of
// them require a session; the seller id is the session user.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/seller/products", h.listProducts)
	app.Post("/api/v1/seller/products", h.createProduct)
	app.Post("/api/v1/seller/products/variants", h.generateVariants)
	app.Put("/api/v1/seller/products/:id", h.updateProduct)
	app.Delete("/api/v1/seller/products/:id", h.deleteProduct)
}

func sellerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrNoAttributes), errors.Is(err, ErrIncompleteVariant):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	// upstream rejections pass through with the server's own status and message
	var ue *upstream.Error
	if errors.As(err, &ue) {
		return c.Status(ue.Status).JSON(fiber.Map{"success": false, "message": ue.Message})
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "message": err.Error()})
}

func (h *Handler) listProducts(c *fiber.Ctx) error {
	claims, err := identity.SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	products, err := h.service.Products(c.Context(), claims.UserID)
	if err != nil {
		return sellerError(c, err)
	}
	if products == nil {
		products = []catalog.Product{}
	}
	return c.JSON(fiber.Map{"success": true, "products": products})
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	claims, err := identity.SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	payload := new(catalog.Product)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	product, err := h.service.Create(c.Context(), claims.UserID, *payload)
	if err != nil {
		return sellerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "product created", "product": product})
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	claims, err := identity.SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	payload := new(catalog.Product)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	payload.ProductID = c.Params("id")
	product, err := h.service.Update(c.Context(), claims.UserID, *payload)
	if err != nil {
		return sellerError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "product updated", "product": product})
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	if _, err := identity.SessionFromCtx(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return sellerError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "product deleted"})
}

type generateVariantsRequest struct {
	Attributes []catalog.Attribute `json:"attributes"`
	Variants   []catalog.Variant   `json:"variants"`
}

// generateVariants previews the variant grid for an attribute edit without
// saving anything.
func (h *Handler) generateVariants(c *fiber.Ctx) error {
	if _, err := identity.SessionFromCtx(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	payload := new(generateVariantsRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	variants := h.service.GenerateVariants(payload.Attributes, payload.Variants)
	if variants == nil {
		variants = []catalog.Variant{}
	}
	return c.JSON(fiber.Map{"success": true, "variants": variants})
}
