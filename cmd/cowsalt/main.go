package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/robfig/cron/v3"

	"cowsalt/internal/config"
	"cowsalt/internal/http/handlers"
	applog "cowsalt/internal/log"
	"cowsalt/internal/repos"
	"cowsalt/internal/services"
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

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	// Templates & app
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and answer with a friendly message; never leak internals
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		Next: func(c *fiber.Ctx) bool {
			// The JSON API authenticates by session cookie + same-site; forms keep CSRF.
			return strings.HasPrefix(c.Path(), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, authSvc)

	// Dashboard page
	app.Get("/", handlers.RequireUser(authSvc), deps.ReportHandler.Home)

	// Auth routes (login throttled)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	// API
	api := app.Group("/api/v1")

	// Catalog
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Get)
	api.Get("/products/:id/movements", handlers.RequireUser(authSvc), deps.StockHandler.Movements)
	api.Post("/products", handlers.RequireAdmin(authSvc), deps.ProductHandler.Create)
	api.Put("/products/:id", handlers.RequireAdmin(authSvc), deps.ProductHandler.Update)
	api.Delete("/products/:id", handlers.RequireAdmin(authSvc), deps.ProductHandler.Delete)
	api.Get("/search", limiter.New(limiter.Config{Max: 30, Expiration: time.Minute}), deps.SearchHandler.Search)

	// Customers
	api.Get("/customers", handlers.RequireUser(authSvc), deps.CustomerHandler.List)
	api.Get("/customers/:id", handlers.RequireUser(authSvc), deps.CustomerHandler.Get)
	api.Post("/customers", handlers.RequireUser(authSvc), deps.CustomerHandler.Create)
	api.Get("/customers/:id/sales", handlers.RequireUser(authSvc), deps.CustomerHandler.Sales)

	// Sales ledger
	api.Post("/sales", handlers.RequireUser(authSvc), deps.POSHandler.Create)
	api.Get("/sales/:id", handlers.RequireUser(authSvc), deps.POSHandler.Get)
	api.Post("/sales/:id/status", handlers.RequireUser(authSvc), deps.POSHandler.UpdateStatus)

	// Stock
	api.Post("/stock/adjust", handlers.RequireAdmin(authSvc), deps.StockHandler.Adjust)
	api.Get("/stock/low", handlers.RequireUser(authSvc), deps.StockHandler.Low)

	// Reports
	api.Get("/dashboard", handlers.RequireUser(authSvc), deps.ReportHandler.Dashboard)
	api.Get("/reports/daily", handlers.RequireUser(authSvc), deps.ReportHandler.Daily)

	// Admin
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/users", deps.AdminHandler.UsersList)
	admin.Delete("/users/:id", deps.AdminHandler.DeleteUser)
	admin.Post("/integrity/run", deps.AdminHandler.RunIntegrity)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	// Periodic ledger integrity sweep
	if cfg.IntegritySpec != "" {
		cr := cron.New()
		if _, err := cr.AddFunc(cfg.IntegritySpec, func() {
			if _, err := deps.Sweeper.Run(); err != nil {
				applog.Warn("ledger.integrity.sweep.fail", err, nil)
			}
		}); err != nil {
			log.Printf("[warn] bad INTEGRITY_CRON spec %q: %v", cfg.IntegritySpec, err)
		} else {
			cr.Start()
			log.Printf("[cron] integrity sweep scheduled: %s", cfg.IntegritySpec)
		}
	}

	log.Fatal(app.Listen(":" + cfg.Port))
}
