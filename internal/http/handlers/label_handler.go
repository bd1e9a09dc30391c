package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "kustomkeys/internal/log"
	"kustomkeys/internal/services"
	"kustomkeys/internal/validate"
)

// LabelHandler serves the brand and category pages. Kind prefixes template names, audit
// actions and URLs ("brand" -> brand_list, /brand/:id).
type LabelHandler[T services.Labeled] struct {
	Svc   *services.LabelService[T]
	Kind  string
	Title string
}

// GET /brands
func (h *LabelHandler[T]) List(c *fiber.Ctx) error {
	items, err := h.Svc.List(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, h.Kind+"_list", fiber.Map{"Title": h.Title + " List", "Items": items})
}

// GET /brand/:id
func (h *LabelHandler[T]) Detail(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	d, err := h.Svc.Detail(c.UserContext(), id)
	if err != nil {
		return err
	}
	return render(c, h.Kind+"_detail", fiber.Map{"Title": h.Title + " Detail", "Item": d.Item, "Products": d.Products})
}

// GET /brand/create
func (h *LabelHandler[T]) CreateForm(c *fiber.Ctx) error {
	return render(c, h.Kind+"_form", fiber.Map{"Title": "Create " + h.Title, "Form": services.LabelForm{}})
}

// POST /brand/create
func (h *LabelHandler[T]) Create(c *fiber.Ctx) error {
	var in validate.LabelInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}
	url, form, err := h.Svc.Create(c.UserContext(), in)
	if err != nil {
		applog.Error(c, h.Kind+".create.fail", err, nil)
		return err
	}
	if form != nil {
		return rejected(c, h.Kind+"_form", fiber.Map{"Title": "Create " + h.Title, "Form": form})
	}
	applog.Audit(c, h.Kind+".create", map[string]any{"url": url})
	return c.Redirect(url)
}

// GET /brand/:id/update
func (h *LabelHandler[T]) UpdateForm(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	form, err := h.Svc.EditForm(c.UserContext(), id)
	if err != nil {
		return err
	}
	return render(c, h.Kind+"_form", fiber.Map{"Title": "Update " + h.Title, "Form": form})
}

// POST /brand/:id/update
func (h *LabelHandler[T]) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in validate.LabelInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}
	url, form, err := h.Svc.Update(c.UserContext(), id, in)
	if err != nil {
		applog.Error(c, h.Kind+".update.fail", err, map[string]any{"id": id})
		return err
	}
	if form != nil {
		return rejected(c, h.Kind+"_form", fiber.Map{"Title": "Update " + h.Title, "Form": form})
	}
	applog.Audit(c, h.Kind+".update", map[string]any{"id": id, "url": url})
	return c.Redirect(url)
}

// GET /brand/:id/delete
func (h *LabelHandler[T]) DeleteForm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect(h.Svc.ListURL())
	}
	d, err := h.Svc.DeleteView(c.UserContext(), id)
	if err != nil {
		return err
	}
	if d == nil {
		return c.Redirect(h.Svc.ListURL())
	}
	return render(c, h.Kind+"_delete", fiber.Map{"Title": "Delete " + h.Title, "Item": d.Item, "Products": d.Products})
}

// POST /brand/:id/delete
func (h *LabelHandler[T]) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect(h.Svc.ListURL())
	}
	url, blocked, err := h.Svc.Delete(c.UserContext(), id)
	if err != nil {
		applog.Error(c, h.Kind+".delete.fail", err, map[string]any{"id": id})
		return err
	}
	if blocked != nil {
		applog.Info(c, h.Kind+".delete.blocked", map[string]any{"id": id, "products": len(blocked.Products)})
		c.Status(fiber.StatusConflict)
		return render(c, h.Kind+"_delete", fiber.Map{"Title": "Delete " + h.Title, "Item": blocked.Item, "Products": blocked.Products})
	}
	applog.Audit(c, h.Kind+".delete", map[string]any{"id": id})
	return c.Redirect(url)
}
