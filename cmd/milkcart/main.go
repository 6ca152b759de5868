package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"milkcart/internal/config"
	"milkcart/internal/http/handlers"
	applog "milkcart/internal/log"
	"milkcart/internal/repos"
	"milkcart/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := repos.EnsureAdmin(db, cfg.AdminPhone); err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(cfg.MediaDir, 0755); err != nil {
		log.Fatal(err)
	}

	authSvc := services.NewAuthService(
		repos.NewUserRepo(db),
		services.LogSender{},
		cfg.JWTSecret,
		time.Duration(cfg.OTPTTLMin)*time.Minute,
		time.Duration(cfg.TokenTTLHour)*time.Hour,
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong"})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 5 << 20 // 5 MiB, image uploads included

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/media/")
		},
	}))

	// ---------- Media ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	log.Printf("[static] /media -> %s", mediaDir)

	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(mediaDir, clean), true)
	})

	// ---------- Routes ----------
	deps := handlers.NewDeps(db, cfg, authSvc)

	// Auth (OTP requests throttled harder than the global limit)
	auth := app.Group("/auth")
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.otp.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, retry later"})
		},
	}), deps.AuthHandler.Login)
	auth.Post("/verify-otp", deps.AuthHandler.VerifyOTP)

	// Public catalog
	app.Get("/categories", deps.CatalogHandler.Categories)
	app.Get("/products", deps.CatalogHandler.Products)
	app.Get("/products/:id", deps.CatalogHandler.Product)
	app.Get("/offers", deps.UploadHandler.Offers)

	// Authenticated user surface
	user := app.Group("", handlers.RequireAuth(authSvc))
	user.Get("/me", deps.ProfileHandler.Me)
	user.Patch("/me", deps.ProfileHandler.UpdateMe)
	user.Post("/orders", deps.OrderHandler.Place)
	user.Get("/my-orders", deps.OrderHandler.Mine)
	user.Get("/my-orders/history", deps.OrderHandler.History)
	user.Delete("/my-orders/:id", deps.OrderHandler.Delete)
	user.Post("/subscriptions", deps.OrderHandler.Subscribe)
	user.Get("/subscriptions/me", deps.OrderHandler.MySubscriptions)
	user.Delete("/subscriptions/:id", deps.OrderHandler.CancelSubscription)

	// Admin surface
	admin := app.Group("/admin", handlers.RequireAuth(authSvc), handlers.RequireAdmin())
	admin.Post("/categories", deps.AdminHandler.AddCategory)
	admin.Patch("/categories/:id", deps.AdminHandler.UpdateCategory)
	admin.Delete("/categories/:id", deps.AdminHandler.DeleteCategory)
	admin.Post("/products", deps.AdminHandler.AddProduct)
	admin.Patch("/products/:id", deps.AdminHandler.UpdateProduct)
	admin.Delete("/products/:id", deps.AdminHandler.DeleteProduct)
	admin.Post("/products/:name/stock", deps.AdminHandler.SetStock)
	admin.Get("/orders", deps.AdminHandler.ListOrders)
	admin.Post("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Post("/orders/:id/payment", deps.AdminHandler.UpdatePaymentStatus)
	admin.Get("/users", deps.AdminHandler.ListUsers)
	admin.Get("/users/role/:role", deps.AdminHandler.ListUsersByRole)
	admin.Post("/users", deps.AdminHandler.AddStaff)
	admin.Get("/subscriptions", deps.AdminHandler.ListSubscriptions)
	admin.Post("/uploads", deps.UploadHandler.Upload)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
