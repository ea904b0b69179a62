package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/joho/godotenv"

	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/cart"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/catalog"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/checkout"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/config"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/identity"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/seller"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/session"
	"github.com/MissionPossible2025/seller-customer-platform-sub000/internal/upstream"
)

// main wires dependencies and starts the HTTP gateway.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)
	app.Use(requestLogger)

	api := upstream.New(cfg.CommerceAPIBase, cfg.UpstreamTimeout)

	// sessions live in Redis when available; the in-memory store keeps local
	// development working without one
	var store session.Store = session.NewInMemoryStore()
	var cache catalog.CategoryCache
	if cfg.RedisAddr != "" {
		client, err := session.Connect(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		store = session.NewRedisStore(client, cfg.SessionTTL)
		cache = catalog.NewRedisCategoryCache(client, 0)
	} else {
		log.Println("REDIS_ADDR not set, sessions are in-memory")
	}

	catalogService := catalog.NewService(catalog.NewAPIRepository(api), cache)
	catalogHandler := catalog.NewHandler(catalogService)

	identityService := identity.NewService(identity.NewAPIRepository(api), store, cfg.JWTSecret, cfg.SessionTTL, cfg.DefaultCountry)
	identityHandler := identity.NewHandler(identityService)

	cartStore := cart.NewStore(cart.NewAPIRepository(api))
	cartHandler := cart.NewHandler(cartStore, catalogService)

	checkoutService := checkout.NewService(checkout.NewAPIRepository(api), store, identityService, cartStore)
	checkoutHandler := checkout.NewHandler(checkoutService, catalogService)

	sellerHandler := seller.NewHandler(seller.NewService(seller.NewAPIRepository(api)))

	identityHandler.RegisterPublicRoutes(app)
	catalogHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	identityHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	checkoutHandler.RegisterProtectedRoutes(app)
	sellerHandler.RegisterProtectedRoutes(app)

	log.Printf("starting server on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	log.Printf("%s %s -> %d (%v)", c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
	return err
}
