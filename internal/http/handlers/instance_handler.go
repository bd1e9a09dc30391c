package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "kustomkeys/internal/log"
	"kustomkeys/internal/services"
	"kustomkeys/internal/validate"
)

type InstanceHandler struct {
	Instances *services.InstanceService
}

// GET /productinstances
func (h *InstanceHandler) List(c *fiber.Ctx) error {
	rows, err := h.Instances.List(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "productinstance_list", fiber.Map{"Title": "Product Instance List", "Rows": rows})
}

// GET /productinstance/:id
func (h *InstanceHandler) Detail(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	d, err := h.Instances.Detail(c.UserContext(), id)
	if err != nil {
		return err
	}
	return render(c, "productinstance_detail", fiber.Map{"Title": "Product Instance Detail", "D": d})
}

// boundProduct is the product id of /productinstance/:id/create, or "" for the plain form.
func boundProduct(c *fiber.Ctx) (string, error) {
	if c.Params("id") == "" {
		return "", nil
	}
	return pathID(c)
}

// GET /productinstance/create, GET /productinstance/:id/create
func (h *InstanceHandler) CreateForm(c *fiber.Ctx) error {
	productID, err := boundProduct(c)
	if err != nil {
		return err
	}
	form, err := h.Instances.NewForm(c.UserContext(), productID)
	if err != nil {
		return err
	}
	return render(c, "productinstance_form", fiber.Map{"Title": "Create Product Instance", "Form": form})
}

// POST /productinstance/create, POST /productinstance/:id/create
func (h *InstanceHandler) Create(c *fiber.Ctx) error {
	productID, err := boundProduct(c)
	if err != nil {
		return err
	}
	var in validate.InstanceInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}
	url, form, err := h.Instances.Create(c.UserContext(), productID, in)
	if err != nil {
		applog.Error(c, "productinstance.create.fail", err, nil)
		return err
	}
	if form != nil {
		return rejected(c, "productinstance_form", fiber.Map{"Title": "Create Product Instance", "Form": form})
	}
	applog.Audit(c, "productinstance.create", map[string]any{"url": url})
	return c.Redirect(url)
}

// GET /productinstance/:id/update
func (h *InstanceHandler) UpdateForm(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	form, err := h.Instances.EditForm(c.UserContext(), id)
	if err != nil {
		return err
	}
	return render(c, "productinstance_form", fiber.Map{"Title": "Update Product Instance", "Form": form})
}

// POST /productinstance/:id/update
func (h *InstanceHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in validate.InstanceInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}
	url, form, err := h.Instances.Update(c.UserContext(), id, in)
	if err != nil {
		applog.Error(c, "productinstance.update.fail", err, map[string]any{"id": id})
		return err
	}
	if form != nil {
		return rejected(c, "productinstance_form", fiber.Map{"Title": "Update Product Instance", "Form": form})
	}
	applog.Audit(c, "productinstance.update", map[string]any{"id": id})
	return c.Redirect(url)
}

// GET /productinstance/:id/delete
func (h *InstanceHandler) DeleteForm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect("/productinstances")
	}
	d, err := h.Instances.DeleteView(c.UserContext(), id)
	if err != nil {
		return err
	}
	if d == nil {
		return c.Redirect("/productinstances")
	}
	return render(c, "productinstance_delete", fiber.Map{"Title": "Delete Product Instance", "D": d})
}

// POST /productinstance/:id/delete
func (h *InstanceHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect("/productinstances")
	}
	url, err := h.Instances.Delete(c.UserContext(), id)
	if err != nil {
		applog.Error(c, "productinstance.delete.fail", err, map[string]any{"id": id})
		return err
	}
	applog.Audit(c, "productinstance.delete", map[string]any{"id": id})
	return c.Redirect(url)
}
