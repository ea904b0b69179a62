package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/upstream"
)

// Claims is the gateway session identity extracted from the JWT.
type Claims struct {
	UserID string
	SID    string
}

var errMissingSession = errors.New("missing session token")

// upstreamError surfaces an upstream rejection with the server's own status
// and message.
func upstreamError(c *fiber.Ctx, err error) error {
	var ue *upstream.Error
	if errors.As(err, &ue) {
		return c.Status(ue.Status).JSON(fiber.Map{"message": ue.Message})
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
}

// SessionFromCtx extracts the session claims placed in locals by the JWT
// middleware.
func SessionFromCtx(c *fiber.Ctx) (Claims, error) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return Claims{}, errMissingSession
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errMissingSession
	}
	userID, _ := mc["user_id"].(string)
	sid, _ := mc["sid"].(string)
	if userID == "" || sid == "" {
		return Claims{}, errMissingSession
	}
	return Claims{UserID: userID, SID: sid}, nil
}

type Handler struct {
	service *Service
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/sign-in", h.login)
	app.Post("/api/v1/sign-up", h.register)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/profile", h.getProfile)
	// support both PUT and PATCH; the handler accepts partial payloads so
	// PATCH behaviour is satisfied
	app.Put("/api/v1/profile", h.updateProfile)
	app.Patch("/api/v1/profile", h.updateProfile)
	app.Post("/api/v1/sign-out", h.logout)
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Email == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "email and password are required"})
	}

	u, token, err := h.service.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid email or password"})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    u,
		"token":   token,
	})
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(SignupRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Email == "" || payload.Password == "" || payload.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing required fields"})
	}

	u, token, err := h.service.Signup(c.Context(), *payload)
	if err != nil {
		return upstreamError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  u,
		"token": token,
	})
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	claims, err := SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	u, err := h.service.Current(c.Context(), claims.SID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "session expired, please log in"})
	}

	return c.JSON(fiber.Map{
		"user":            u,
		"profileComplete": u.IsComplete(),
	})
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	claims, err := SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	current, err := h.service.Current(c.Context(), claims.SID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "session expired, please log in"})
	}

	// start from the current record so partial payloads leave other fields alone
	upd := ProfileUpdate{
		Name:    current.Name,
		Phone:   current.Phone,
		Email:   current.Email,
		Address: current.Address,
	}
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.UpdateProfile(c.Context(), claims.SID, upd)
	if err != nil {
		return upstreamError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":            updated,
		"profileComplete": updated.IsComplete(),
	})
}

func (h *Handler) logout(c *fiber.Ctx) error {
	claims, err := SessionFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if err := h.service.Logout(c.Context(), claims.SID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
