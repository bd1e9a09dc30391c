package handlers

import (
	"github.com/gofiber/fiber/v2"

	"kustomkeys/internal/domain"
	applog "kustomkeys/internal/log"
	"kustomkeys/internal/validate"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// token the CSRF middleware put into Locals; absent when CSRF is disabled
	if tok, ok := c.Locals("csrf").(string); ok && tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

// rejected re-renders a form whose submission failed validation.
func rejected(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	c.Status(fiber.StatusUnprocessableEntity)
	return render(c, tmpl, data)
}

// pathID reads the :id parameter. Malformed ids are reported as not found.
func pathID(c *fiber.Ctx) (string, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "id"})
		return "", domain.ErrNotFound
	}
	return id, nil
}
