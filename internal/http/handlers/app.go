package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"kustomkeys/internal/config"
	"kustomkeys/internal/images"
	applog "kustomkeys/internal/log"
)

// NewApp builds the site: middleware, static assets, images and the catalog pages.
func NewApp(cfg config.Config, views fiber.Views, static http.FileSystem, d *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        views,
		ErrorHandler: ErrorHandler(cfg.Development()),
		// room for one maximum-size image plus the text fields
		BodyLimit: images.MaxUploadSize + 1<<20,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	// outside recover so a panic is still logged with the status it produced
	app.Use(applog.Access())
	app.Use(recover.New())
	app.Use(helmet.New())
	if cfg.CSRF {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "form:csrf",
			CookieName:     "csrf_",
			CookieSameSite: "Lax",
			ContextKey:     "csrf",
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				applog.Security(c, "csrf.fail", map[string]any{"reason": err.Error()})
				return c.Status(fiber.StatusForbidden).Render("error", fiber.Map{
					"Title":   "Error",
					"Status":  fiber.StatusForbidden,
					"Message": "Security check failed. Please refresh and try again.",
				})
			},
		}))
	}

	// ---------- Static assets & images ----------
	app.Use("/static", filesystem.New(filesystem.Config{Root: static}))
	if cfg.ImageBackend == "disk" {
		app.Get("/media/*", Media(cfg.MediaDir))
	}
	if d.Objects != nil {
		app.Get("/images/:key", Objects(d.Objects))
	}

	// ---------- Catalog ----------
	app.Get("/", d.HomeHandler.Index)

	app.Get("/brands", d.BrandHandler.List)
	app.Get("/brand/create", d.BrandHandler.CreateForm)
	app.Post("/brand/create", d.BrandHandler.Create)
	app.Get("/brand/:id", d.BrandHandler.Detail)
	app.Get("/brand/:id/update", d.BrandHandler.UpdateForm)
	app.Post("/brand/:id/update", d.BrandHandler.Update)
	app.Get("/brand/:id/delete", d.BrandHandler.DeleteForm)
	app.Post("/brand/:id/delete", d.BrandHandler.Delete)

	app.Get("/categories", d.CategoryHandler.List)
	app.Get("/category/create", d.CategoryHandler.CreateForm)
	app.Post("/category/create", d.CategoryHandler.Create)
	app.Get("/category/:id", d.CategoryHandler.Detail)
	app.Get("/category/:id/update", d.CategoryHandler.UpdateForm)
	app.Post("/category/:id/update", d.CategoryHandler.Update)
	app.Get("/category/:id/delete", d.CategoryHandler.DeleteForm)
	app.Post("/category/:id/delete", d.CategoryHandler.Delete)

	app.Get("/products", d.ProductHandler.List)
	app.Get("/product/create", d.ProductHandler.CreateForm)
	app.Post("/product/create", d.ProductHandler.Create)
	app.Get("/product/:id", d.ProductHandler.Detail)
	app.Get("/product/:id/update", d.ProductHandler.UpdateForm)
	app.Post("/product/:id/update", d.ProductHandler.Update)
	app.Get("/product/:id/delete", d.ProductHandler.DeleteForm)
	app.Post("/product/:id/delete", d.ProductHandler.Delete)

	app.Get("/productinstances", d.InstanceHandler.List)
	app.Get("/productinstance/create", d.InstanceHandler.CreateForm)
	app.Post("/productinstance/create", d.InstanceHandler.Create)
	app.Get("/productinstance/:id", d.InstanceHandler.Detail)
	app.Get("/productinstance/:id/create", d.InstanceHandler.CreateForm)
	app.Post("/productinstance/:id/create", d.InstanceHandler.Create)
	app.Get("/productinstance/:id/update", d.InstanceHandler.UpdateForm)
	app.Post("/productinstance/:id/update", d.InstanceHandler.Update)
	app.Get("/productinstance/:id/delete", d.InstanceHandler.DeleteForm)
	app.Post("/productinstance/:id/delete", d.InstanceHandler.Delete)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("error", fiber.Map{
			"Title": "Not Found", "Status": fiber.StatusNotFound, "Message": "Page not found",
		})
	})
	return app
}
