package catalog

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/pricing"
)

// Handler exposes the storefront catalog endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	// register specific paths before the :id param route to avoid collisions
	app.Get("/api/v1/products/highlighted", h.getHighlighted)
	app.Get("/api/v1/products", h.getProducts)
	app.Get("/api/v1/products/:id", h.getProduct)
	app.Post("/api/v1/products/:id/resolve", h.resolveVariant)
	app.Get("/api/v1/categories", h.getCategories)
}

// productView decorates a product with its computed price display.
type productView struct {
	Product
	Display PriceView `json:"display"`
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	products, err := h.service.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{Product: p, Display: DisplayPrice(p)})
	}
	return c.JSON(views)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	p, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}

	view := fiber.Map{
		"product": p,
		"display": DisplayPrice(p),
	}
	// seed the variant picker with the first variant's combination
	if selected, v := DefaultSelection(p); v != nil {
		view["defaultSelection"] = selected
		view["defaultVariant"] = v
	}
	return c.JSON(view)
}

type resolveRequest struct {
	SelectedAttributes map[string]string `json:"selectedAttributes"`
}

func (h *Handler) resolveVariant(c *fiber.Ctx) error {
	payload := new(resolveRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	_, variant, err := h.service.Resolve(c.Context(), c.Params("id"), payload.SelectedAttributes)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	if variant == nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "no variant matches the selected options"})
	}

	unit := pricing.EffectiveUnit(variant.PriceTag())
	out := fiber.Map{
		"variant":   variant,
		"unitPrice": unit,
	}
	if pct, ok := pricing.BadgePercent(variant.PriceTag()); ok {
		out["discountPercent"] = pct
	}
	return c.JSON(out)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(categories)
}

func (h *Handler) getHighlighted(c *fiber.Ctx) error {
	raw := c.Query("sellers")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "sellers query parameter is required"})
	}
	var sellerIDs []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			sellerIDs = append(sellerIDs, id)
		}
	}

	products, err := h.service.Highlighted(c.Context(), sellerIDs)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{Product: p, Display: DisplayPrice(p)})
	}
	return c.JSON(views)
}
